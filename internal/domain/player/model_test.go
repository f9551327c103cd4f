package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasUsableName(t *testing.T) {
	t.Parallel()

	assert.True(t, HasUsableName("Jonas Wind"))
	assert.False(t, HasUsableName(""))
	assert.False(t, HasUsableName("  "))
	assert.False(t, HasUsableName("-"))
	assert.False(t, HasUsableName("?"))
}

func TestPlayerValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Player{ExternalID: "1", FullName: "Jonas Wind", ShirtNumber: 23}.Validate())
	assert.Error(t, Player{FullName: "Jonas Wind"}.Validate())
	assert.Error(t, Player{ExternalID: "1", FullName: "-"}.Validate())
	assert.Error(t, Player{ExternalID: "1", FullName: "Jonas Wind", ShirtNumber: 100}.Validate())
}
