package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_STORE", "memory")
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("UPSTREAM_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("UPSTREAM_TOKEN", "upstream-token")
	t.Setenv("BACKFILL_WORKER_URL", "http://127.0.0.1:1")
	t.Setenv("BACKFILL_WORKER_TOKEN", "worker-token")
	t.Setenv("CLUB_ALIAS_FILE", "")
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlayersCommand_ListsSeededContracts(t *testing.T) {
	setMemoryEnv(t)

	out, err := runCommand(t, "players", "--club-id", "1", "--season", "19/20", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "Jonas Wind")
	assert.Contains(t, out, "Rasmus Falk")
	assert.NotContains(t, out, "Pep Biel")
}

func TestPlayersCommand_TableOutputFiltersByNumber(t *testing.T) {
	setMemoryEnv(t)

	out, err := runCommand(t, "players", "--club-id", "1", "--season", "2019", "--number", "23")
	require.NoError(t, err)
	assert.Contains(t, out, "Jonas Wind")
	assert.NotContains(t, out, "Rasmus Falk")
}

func TestBackfillCommand_RequiresSeason(t *testing.T) {
	setMemoryEnv(t)

	_, err := runCommand(t, "backfill", "--club-id", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--season")
}

func TestRootCommand_ConfigErrorsSurface(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv("UPSTREAM_TOKEN", "")

	_, err := runCommand(t, "players", "--club-id", "1", "--season", "19/20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPSTREAM_TOKEN")
}

func TestLooksLikeYear(t *testing.T) {
	assert.True(t, looksLikeYear("2019"))
	assert.False(t, looksLikeYear("19"))
	assert.False(t, looksLikeYear("42"))
	assert.False(t, looksLikeYear("19/20"))
}
