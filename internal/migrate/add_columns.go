package migrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// AddColumnsReport lists the columns added to and skipped for one table.
type AddColumnsReport struct {
	Added   []string
	Skipped []string
}

// AddMissingColumns adds every declared column that the live table lacks.
// A missing table is a silent no-op. Columns that cannot be added by ALTER
// TABLE are downgraded with a warning: primary key and autoincrement columns
// are skipped, UNIQUE and REFERENCES are dropped, and a NOT NULL column
// without a default gets the zero value of its type. An expression default
// is emitted verbatim while the table is empty; SQLite rejects non-constant
// defaults on a populated table, so there the column is added without it and
// the expression is evaluated once over the existing rows.
func AddMissingColumns(ctx context.Context, conn Conn, table string, columns []types.ColumnDefinition, logger *slog.Logger) (AddColumnsReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var report AddColumnsReport

	exists, err := conn.ObjectExists(ctx, KindTable, table)
	if err != nil {
		return report, fmt.Errorf("check table %s: %w", table, err)
	}
	if !exists {
		return report, nil
	}

	live, err := conn.ColumnNames(ctx, table)
	if err != nil {
		return report, fmt.Errorf("read columns of %s: %w", table, err)
	}
	present := make(map[string]bool, len(live))
	for _, name := range live {
		present[name] = true
	}

	// Only looked up once an expression default needs it.
	var populated *bool
	hasRows := func() (bool, error) {
		if populated == nil {
			ok, err := conn.HasRows(ctx, table)
			if err != nil {
				return false, fmt.Errorf("check rows of %s: %w", table, err)
			}
			populated = &ok
		}
		return *populated, nil
	}

	for _, col := range columns {
		if present[col.Name] {
			continue
		}
		log := logger.With("table", table, "column", col.Name)

		if col.PrimaryKey {
			log.Warn("cannot add primary key column to existing table, skipping")
			report.Skipped = append(report.Skipped, col.Name)
			continue
		}
		if col.AutoIncrement {
			log.Warn("cannot add autoincrement column to existing table, skipping")
			report.Skipped = append(report.Skipped, col.Name)
			continue
		}

		add := col
		if add.Unique {
			log.Warn("adding column without UNIQUE; create a unique index to enforce it")
			add.Unique = false
		}
		if add.ForeignKey != nil {
			log.Warn("adding column without foreign key constraint", "references", add.ForeignKey.Table)
			add.ForeignKey = nil
		}
		var backfill *types.Default
		if add.Default != nil && add.Default.IsExpression() {
			rows, err := hasRows()
			if err != nil {
				return report, err
			}
			if rows {
				log.Warn("cannot add column with expression default to populated table, backfilling existing rows instead",
					"default", add.Default.Expression())
				backfill = add.Default
				add.Default = nil
			}
		}
		if add.NotNull && add.Default == nil {
			add.Default = zeroDefault(add.Type)
			log.Warn("NOT NULL column has no default, using zero value", "default", RenderDefault(add.Default))
		}

		if err := conn.Exec(ctx, AddColumnSQL(table, add)); err != nil {
			return report, fmt.Errorf("add column %s.%s: %w", table, col.Name, err)
		}
		if backfill != nil {
			if err := conn.Exec(ctx, BackfillSQL(table, col.Name, backfill)); err != nil {
				return report, fmt.Errorf("backfill column %s.%s: %w", table, col.Name, err)
			}
		}
		log.Info("added column")
		report.Added = append(report.Added, col.Name)
	}
	return report, nil
}
