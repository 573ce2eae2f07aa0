// Package sqlite implements the SQLite store: the owned database handle, the
// application schema and seeds, the config table, and the Backend that runs
// the startup migration on Attach.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/pantry/internal/migrate"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Backend implements types.Store on SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *DB
	configs  *ConfigTable
	logger   *slog.Logger

	// Startup migration state. done is closed when the run finishes.
	cancel    context.CancelFunc
	done      chan struct{}
	result    types.MigrationResult
	resultErr error

	hooks migrate.Hooks
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates a detached backend. A nil logger uses slog.Default().
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// SetHooks registers extra lifecycle handlers for the next Attach.
func (b *Backend) SetHooks(h migrate.Hooks) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = h
}

// Attach opens the database and starts the schema migration.
// Creates DataDir if it does not exist.
// With Migrations.Blocking, Attach waits for the migration and returns its
// error, leaving the backend detached. Otherwise the migration runs in the
// background and failures are logged; use WaitMigrated to observe them.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	dbPath := filepath.Join(dataDir, config.DatabaseFile())

	ctx, cancel := context.WithCancel(context.Background())
	db, err := Open(ctx, dbPath, b.logger)
	if err != nil {
		cancel()
		return err
	}

	policy := migrate.ContinueOnError
	if config.Migrations.StopSeedingOnError() {
		policy = migrate.StopOnError
	}
	runner := migrate.NewRunner(Schema(), NewSeeder(policy), b.logger.With("db", dbPath))
	runner.Hooks = b.hooks

	done := make(chan struct{})
	run := func() {
		defer close(done)
		result, err := runner.Run(ctx, db)
		b.result, b.resultErr = result, err
		if err != nil {
			b.logger.Error("startup migration failed", "run_id", result.RunID, "error", err)
		}
	}

	if config.Migrations.Blocking {
		run()
		if b.resultErr != nil {
			cancel()
			db.Close()
			return b.resultErr
		}
	} else {
		go run()
	}

	b.db = db
	b.configs = NewConfigTable(db)
	b.config = config
	b.cancel = cancel
	b.done = done
	b.attached = true
	return nil
}

// WaitMigrated blocks until the startup migration finishes or ctx is done.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) WaitMigrated(ctx context.Context) (types.MigrationResult, error) {
	b.mu.RLock()
	attached, done := b.attached, b.done
	b.mu.RUnlock()

	if !attached {
		return types.MigrationResult{}, types.ErrStoreDetached
	}
	select {
	case <-done:
		return b.result, b.resultErr
	case <-ctx.Done():
		return types.MigrationResult{}, ctx.Err()
	}
}

// Configs returns the config table accessor.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) Configs() (*ConfigTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.configs, nil
}

// DB returns the database handle.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) DB() (*DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// Detach cancels a running migration, waits for it to stop, and closes the
// database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.cancel()
	<-b.done

	err := b.db.Close()
	b.db = nil
	b.configs = nil
	b.attached = false
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
