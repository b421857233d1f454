package migrations

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreWellFormed(t *testing.T) {
	entries, err := fs.ReadDir(files, dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		raw, err := fs.ReadFile(files, dir+"/"+entry.Name())
		require.NoError(t, err)
		body := string(raw)
		assert.True(t, strings.HasSuffix(entry.Name(), ".sql"), entry.Name())
		assert.Contains(t, body, "-- +goose Up", entry.Name())
		assert.Contains(t, body, "-- +goose Down", entry.Name())
	}
}

func TestInitMigrationCoversEveryTable(t *testing.T) {
	raw, err := fs.ReadFile(files, dir+"/00001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{
		"users", "profiles", "invitations", "coach_client_relationships", "exercises",
		"workout_plans", "workout_sessions", "session_exercises", "workout_logs",
		"exercise_logs", "progress_logs", "progress_photos", "goals", "messages",
	} {
		assert.Contains(t, string(raw), "CREATE TABLE "+table+" (", table)
	}
}

func TestRunRequiresDB(t *testing.T) {
	require.Error(t, Run(context.Background(), nil, "up"))
}
