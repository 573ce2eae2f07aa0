package types

import "context"

// Store is a schema-managed database handle. Callers attach it with a
// Config, optionally wait for the startup migration, and detach when done.
type Store interface {
	// Attach opens the database described by config and starts the schema
	// migration. Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// WaitMigrated blocks until the startup migration finishes or ctx is
	// done, and returns the migration outcome.
	WaitMigrated(ctx context.Context) (MigrationResult, error)

	// Detach releases the database handle. Idempotent.
	Detach() error
}

// MigrationResult summarizes one migration run.
type MigrationResult struct {
	RunID           string   `json:"run_id" yaml:"run_id"`
	TablesCreated   []string `json:"tables_created,omitempty" yaml:"tables_created,omitempty"`
	ColumnsAdded    []string `json:"columns_added,omitempty" yaml:"columns_added,omitempty"`
	ColumnsSkipped  []string `json:"columns_skipped,omitempty" yaml:"columns_skipped,omitempty"`
	IndexesCreated  []string `json:"indexes_created,omitempty" yaml:"indexes_created,omitempty"`
	TriggersCreated []string `json:"triggers_created,omitempty" yaml:"triggers_created,omitempty"`
	SeededTables    []string `json:"seeded_tables,omitempty" yaml:"seeded_tables,omitempty"`
}

// Changed reports whether the run created or altered any schema object.
func (r MigrationResult) Changed() bool {
	return len(r.TablesCreated)+len(r.ColumnsAdded)+len(r.IndexesCreated)+len(r.TriggersCreated) > 0
}
