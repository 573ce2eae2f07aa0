// Shared helpers for pantry CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/pantry/internal/sqlite"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. With blocking set the startup migration must succeed before
// attachBackend returns. The caller must defer backend.Detach().
func (c *cli) attachBackend(blocking bool) (*sqlite.Backend, error) {
	dataDir, err := c.resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := storeConfig(c.cfg, dataDir)
	if blocking {
		cfg.Migrations.Blocking = true
	}

	backend := sqlite.NewBackend(c.logger)
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	return backend, nil
}

// configsAfterMigration waits for the startup migration and returns the
// config table. A failed migration is logged by the backend; commands still
// run against whatever schema exists.
func configsAfterMigration(ctx context.Context, backend *sqlite.Backend) (*sqlite.ConfigTable, error) {
	if _, err := backend.WaitMigrated(ctx); err != nil && ctx.Err() != nil {
		return nil, err
	}
	return backend.Configs()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
