package migrate

import "context"

// ObjectKind is the sqlite_master type of a schema object.
type ObjectKind string

// Catalog object kinds.
const (
	KindTable   ObjectKind = "table"
	KindIndex   ObjectKind = "index"
	KindTrigger ObjectKind = "trigger"
)

// Catalog answers existence questions about the live schema.
type Catalog interface {
	// ObjectExists reports whether an object of the given kind and name is
	// listed in the engine catalog.
	ObjectExists(ctx context.Context, kind ObjectKind, name string) (bool, error)

	// ColumnNames returns the live column names of table, in table order.
	ColumnNames(ctx context.Context, table string) ([]string, error)

	// HasRows reports whether table holds at least one row.
	HasRows(ctx context.Context, table string) (bool, error)
}

// Executor runs a single statement.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) error
}

// Conn is what the object appliers need from a database handle.
type Conn interface {
	Catalog
	Executor
}

// Row is one seed row keyed by column name.
type Row map[string]any

// SeedConn extends Conn with the row-level operations seeding needs.
type SeedConn interface {
	Conn

	// RowExists reports whether table has a row whose keyColumn equals key.
	RowExists(ctx context.Context, table, keyColumn string, key any) (bool, error)

	// Insert adds row to table.
	Insert(ctx context.Context, table string, row Row) error
}
