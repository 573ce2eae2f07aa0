package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/internal/migrate"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// newTestDB opens a file database in a temporary directory.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// migrateTestDB opens a database and applies the application schema.
func migrateTestDB(t *testing.T) *DB {
	t.Helper()
	db := newTestDB(t)
	_, err := migrate.NewRunner(Schema(), NewSeeder(migrate.ContinueOnError), nil).Run(context.Background(), db)
	require.NoError(t, err)
	return db
}

func columnNames(t *testing.T, db *DB, table string) []string {
	t.Helper()
	cols, err := db.ColumnNames(context.Background(), table)
	require.NoError(t, err)
	return cols
}

func objectExists(t *testing.T, db *DB, kind migrate.ObjectKind, name string) bool {
	t.Helper()
	ok, err := db.ObjectExists(context.Background(), kind, name)
	require.NoError(t, err)
	return ok
}

func ptr[T any](v T) *T { return &v }

func sqliteConfig(dir string) types.Config {
	return types.Config{Backend: types.BackendSQLite, DataDir: dir}
}
