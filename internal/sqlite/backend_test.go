package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/internal/migrate"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	b := NewBackend(nil)
	config := sqliteConfig(tmpDir)

	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })

	_, err := os.Stat(filepath.Join(tmpDir, types.DefaultDatabaseFile))
	assert.NoError(t, err, "database file created")

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	result, err := b.WaitMigrated(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{TableConfig}, result.TablesCreated)

	configs, err := b.Configs()
	require.NoError(t, err)
	records, err := configs.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend(nil)
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "postgres"}), types.ErrBackendUnknown)
}

func TestBackend_AttachBlocking(t *testing.T) {
	tmpDir := t.TempDir()
	config := sqliteConfig(tmpDir)
	config.Database = "blocking.db"
	config.Migrations.Blocking = true

	b := NewBackend(nil)
	require.NoError(t, b.Attach(config))
	defer b.Detach()

	db, err := b.DB()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "blocking.db"), db.Path())
	assert.True(t, objectExists(t, db, migrate.KindTrigger, "trigger_config_update_timestamp"))
}

func TestBackend_MigrationFailure(t *testing.T) {
	boom := errors.New("boom")
	failing := migrate.Hooks{CreatedTable: []migrate.TableHandler{
		func(context.Context, migrate.TableContext) error { return boom },
	}}

	t.Run("blocking attach fails", func(t *testing.T) {
		config := sqliteConfig(t.TempDir())
		config.Migrations.Blocking = true

		b := NewBackend(nil)
		b.SetHooks(failing)
		assert.ErrorIs(t, b.Attach(config), boom)

		_, err := b.Configs()
		assert.ErrorIs(t, err, types.ErrStoreDetached)
	})

	t.Run("background attach succeeds", func(t *testing.T) {
		b := NewBackend(nil)
		b.SetHooks(failing)
		require.NoError(t, b.Attach(sqliteConfig(t.TempDir())))
		defer b.Detach()

		_, err := b.WaitMigrated(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend(nil)
	require.NoError(t, b.Attach(sqliteConfig(t.TempDir())))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach is a no-op")

	_, err := b.Configs()
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.WaitMigrated(context.Background())
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	require.NoError(t, b.Attach(sqliteConfig(t.TempDir())), "reattach after detach")
	require.NoError(t, b.Detach())
}
