package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/chantier/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory SQLite database for session stores,
// closed on test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening in-memory session database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}
