package repository

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/infrastructure/persistence/sqlite"
)

// newTestDB opens an in-memory database with the full schema applied.
// A single connection keeps the in-memory database alive for the test.
func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_initial_schema.sql"))
	require.NoError(t, err)

	_, err = sqlDB.Exec(string(schema))
	require.NoError(t, err)

	return sqlite.NewDB(sqlDB, zap.NewNop())
}
