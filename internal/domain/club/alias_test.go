package club

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAliasTable_Terms(t *testing.T) {
	t.Parallel()

	table := NewAliasTable(map[string]string{
		"FC København":   "FC Copenhagen",
		"Bayern München": "Bayern Munich",
	})

	assert.Equal(t, []string{"FC Copenhagen", "fc københavn"}, table.Terms("  FC   København "))
	assert.Equal(t, []string{"FC Copenhagen", "fc kobenhavn"}, table.Terms("fc kobenhavn"))
	assert.Equal(t, []string{"FC København", "fc copenhagen"}, table.Terms("FC Copenhagen"))
	assert.Equal(t, []string{"unknown fc"}, table.Terms("Unknown FC"))
	assert.Nil(t, table.Terms("   "))
	assert.Equal(t, 4, table.Len())
}

func TestAliasTable_NilIsUsable(t *testing.T) {
	t.Parallel()

	var table *AliasTable
	assert.Equal(t, []string{"ajax"}, table.Terms("Ajax"))
	assert.Zero(t, table.Len())
}

func TestClubValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Club{ExternalID: "190", Name: "FC Copenhagen"}.Validate())
	assert.NoError(t, Club{Slug: "fc-copenhagen", Name: "FC Copenhagen"}.Validate())
	assert.Error(t, Club{Name: "FC Copenhagen"}.Validate())
	assert.Error(t, Club{ExternalID: "190", Name: "  "}.Validate())
	assert.Error(t, ClubSeason{CompetitionID: 1, SeasonID: 1}.Validate())
}
