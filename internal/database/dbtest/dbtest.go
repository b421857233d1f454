// Package dbtest opens throwaway sqlite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"supacoach/coach-api/internal/config"
	"supacoach/coach-api/internal/database"
)

// New opens a private in-memory sqlite database with the full schema and
// closes it when the test ends.
func New(t testing.TB) *database.Client {
	t.Helper()
	ctx := context.Background()
	client, err := database.New(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := client.AutoMigrate(ctx); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
