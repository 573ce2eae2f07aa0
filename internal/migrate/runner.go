package migrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Hooks are extra handlers registered after the built-in appliers.
type Hooks struct {
	CreatedTable   []TableHandler
	CreatedIndex   []IndexHandler
	CreatedTrigger []TriggerHandler
	Observers      []PhaseObserver
}

// Runner reconciles a static schema against a live database and then seeds
// it. A run never drops or alters existing objects.
type Runner struct {
	Tables []types.TableDefinition
	Seeder *Seeder
	Logger *slog.Logger
	Hooks  Hooks
}

// NewRunner returns a Runner for tables. A nil logger uses slog.Default().
func NewRunner(tables []types.TableDefinition, seeder *Seeder, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Tables: tables, Seeder: seeder, Logger: logger}
}

// Run validates the schema, applies the structural phases, and seeds. A
// structural failure stops the run before seeding. The returned result
// covers whatever completed before any error.
func (r *Runner) Run(ctx context.Context, conn SeedConn) (types.MigrationResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID, err := uuid.NewV7()
	if err != nil {
		return types.MigrationResult{}, fmt.Errorf("generate run id: %w", err)
	}
	result := types.MigrationResult{RunID: runID.String()}
	logger = logger.With("run_id", result.RunID)

	if err := types.ValidateSchema(r.Tables); err != nil {
		return result, err
	}

	logger.Info("migration started", "tables", len(r.Tables))
	lc := NewLifecycle(conn, Transform(r.Tables), logger)

	lc.CreateTable(func(ctx context.Context, tc TableContext) error {
		created, err := CreateTable(ctx, tc.Conn, tc.TableName, tc.Columns)
		if err != nil {
			return err
		}
		if created {
			logger.Info("created table", "table", tc.TableName)
			result.TablesCreated = append(result.TablesCreated, tc.TableName)
		}
		return nil
	})
	lc.CreatedTable(func(ctx context.Context, tc TableContext) error {
		report, err := AddMissingColumns(ctx, tc.Conn, tc.TableName, tc.Columns, logger)
		for _, c := range report.Added {
			result.ColumnsAdded = append(result.ColumnsAdded, tc.TableName+"."+c)
		}
		for _, c := range report.Skipped {
			result.ColumnsSkipped = append(result.ColumnsSkipped, tc.TableName+"."+c)
		}
		return err
	})
	lc.CreateIndex(func(ctx context.Context, ic IndexContext) error {
		created, err := CreateIndex(ctx, ic.Conn, ic.TableName, ic.Index, logger)
		if created {
			logger.Info("created index", "index", ic.Index.Name, "table", ic.TableName)
			result.IndexesCreated = append(result.IndexesCreated, ic.Index.Name)
		}
		return err
	})
	lc.CreateTrigger(func(ctx context.Context, tc TriggerContext) error {
		created, err := CreateTrigger(ctx, tc.Conn, tc.TableName, tc.Trigger, logger)
		if created {
			logger.Info("created trigger", "trigger", tc.Trigger.Name, "table", tc.TableName)
			result.TriggersCreated = append(result.TriggersCreated, tc.Trigger.Name)
		}
		return err
	})

	for _, h := range r.Hooks.CreatedTable {
		lc.CreatedTable(h)
	}
	for _, h := range r.Hooks.CreatedIndex {
		lc.CreatedIndex(h)
	}
	for _, h := range r.Hooks.CreatedTrigger {
		lc.CreatedTrigger(h)
	}
	for _, o := range r.Hooks.Observers {
		lc.Observe(o)
	}

	if err := lc.Run(ctx); err != nil {
		logger.Error("migration failed", "error", err)
		return result, fmt.Errorf("migrate: %w", err)
	}

	if r.Seeder != nil {
		seeded, err := r.Seeder.Run(ctx, conn, logger)
		result.SeededTables = seeded
		if err != nil {
			return result, fmt.Errorf("migrate: %w", err)
		}
	}

	logger.Info("migration finished", "changed", result.Changed())
	return result, nil
}
