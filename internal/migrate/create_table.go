package migrate

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// CreateTable creates table with every column and its full constraints when
// no table of that name exists. It reports whether the table was created.
// Foreign keys may name tables that do not exist yet.
func CreateTable(ctx context.Context, conn Conn, table string, columns []types.ColumnDefinition) (bool, error) {
	exists, err := conn.ObjectExists(ctx, KindTable, table)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	if exists {
		return false, nil
	}
	if len(columns) == 0 {
		return false, fmt.Errorf("create table %s: %w", table, types.ErrNoColumns)
	}
	if err := conn.Exec(ctx, CreateTableSQL(table, columns)); err != nil {
		return false, fmt.Errorf("create table %s: %w", table, err)
	}
	return true, nil
}
