package migrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// CreateTrigger creates trg on table unless a trigger of that name exists.
// A trigger declared for a different table is skipped with a warning. It
// reports whether the trigger was created.
func CreateTrigger(ctx context.Context, conn Conn, table string, trg types.TriggerDefinition, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if trg.Table != table {
		logger.Warn("trigger table does not match owning table, skipping",
			"trigger", trg.Name, "trigger_table", trg.Table, "table", table)
		return false, nil
	}
	exists, err := conn.ObjectExists(ctx, KindTrigger, trg.Name)
	if err != nil {
		return false, fmt.Errorf("check trigger %s: %w", trg.Name, err)
	}
	if exists {
		return false, nil
	}
	if err := conn.Exec(ctx, CreateTriggerSQL(table, trg)); err != nil {
		return false, fmt.Errorf("create trigger %s: %w", trg.Name, err)
	}
	return true, nil
}
