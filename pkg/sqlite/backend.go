// Package sqlite provides the public API for the SQLite store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/pantry/internal/sqlite"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/var/lib/app",
//	})
//	defer store.Detach()
//	result, err := store.WaitMigrated(ctx)
func NewBackend(logger *slog.Logger) types.Store {
	return sqlite.NewBackend(logger)
}
