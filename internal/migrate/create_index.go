package migrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// CreateIndex creates idx on table unless an index of that name exists. An
// index declared for a different table is skipped with a warning. It reports
// whether the index was created.
func CreateIndex(ctx context.Context, conn Conn, table string, idx types.IndexDefinition, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if idx.Table != table {
		logger.Warn("index table does not match owning table, skipping",
			"index", idx.Name, "index_table", idx.Table, "table", table)
		return false, nil
	}
	exists, err := conn.ObjectExists(ctx, KindIndex, idx.Name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", idx.Name, err)
	}
	if exists {
		return false, nil
	}
	if err := conn.Exec(ctx, CreateIndexSQL(table, idx)); err != nil {
		return false, fmt.Errorf("create index %s: %w", idx.Name, err)
	}
	return true, nil
}
