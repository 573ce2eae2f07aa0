package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pantry/internal/migrate"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB is the single owned connection to one SQLite database file. It
// satisfies migrate.SeedConn.
type DB struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ migrate.SeedConn = (*DB)(nil)

// Open opens the database at path with foreign keys enabled. The pool is
// limited to one connection so every statement sees the same session. A nil
// logger uses slog.Default().
func Open(ctx context.Context, path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dsn := path
	if path != MemoryPath {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == MemoryPath {
		if _, err := sqlDB.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	logger.Debug("opened database", "path", path)
	return &DB{db: sqlDB, path: path, logger: logger}, nil
}

// Path returns the file path the database was opened with.
func (d *DB) Path() string { return d.path }

// SQL returns the underlying handle.
func (d *DB) SQL() *sql.DB { return d.db }

// Close closes the connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// ObjectExists reports whether sqlite_master lists an object of kind named
// name.
func (d *DB) ObjectExists(ctx context.Context, kind migrate.ObjectKind, name string) (bool, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?", string(kind), name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query sqlite_master: %w", err)
	}
	return n > 0, nil
}

// ColumnNames returns the live columns of table in table order. A missing
// table yields no columns.
func (d *DB) ColumnNames(ctx context.Context, table string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table info %s: %w", table, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// HasRows reports whether table holds at least one row.
func (d *DB) HasRows(ctx context.Context, table string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM " + migrate.QuoteIdent(table) + ")"
	if err := d.db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("check rows of %s: %w", table, err)
	}
	return exists, nil
}

// Exec runs a single statement.
func (d *DB) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return nil
}

// RowExists reports whether table has a row with keyColumn equal to key.
func (d *DB) RowExists(ctx context.Context, table, keyColumn string, key any) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ?)",
		migrate.QuoteIdent(table), migrate.QuoteIdent(keyColumn))
	var exists bool
	if err := d.db.QueryRowContext(ctx, query, key).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Insert adds row to table. Columns are bound in name order.
func (d *DB) Insert(ctx context.Context, table string, row migrate.Row) error {
	if len(row) == 0 {
		return fmt.Errorf("insert into %s: empty row", table)
	}
	cols := slices.Sorted(maps.Keys(row))
	quoted := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		quoted[i] = migrate.QuoteIdent(c)
		args[i] = row[c]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		migrate.QuoteIdent(table), strings.Join(quoted, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	return d.Exec(ctx, query, args...)
}
