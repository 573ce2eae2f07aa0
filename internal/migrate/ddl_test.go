package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

func TestQuoting(t *testing.T) {
	assert.Equal(t, "[config]", QuoteIdent("config"))
	assert.Equal(t, "[odd]]name]", QuoteIdent("odd]name"))
	assert.Equal(t, "'it''s'", QuoteLiteral("it's"))
}

func TestRenderDefault(t *testing.T) {
	tests := []struct {
		name string
		def  *types.Default
		want string
	}{
		{"nil", nil, "NULL"},
		{"expression", types.ExprDefault("(strftime('%s','now'))"), "(strftime('%s','now'))"},
		{"parsed expression", types.ParseDefault(" (1 + 1) "), "(1 + 1)"},
		{"parsed literal", types.ParseDefault("hello"), "'hello'"},
		{"quoted string", types.LiteralDefault("it's"), "'it''s'"},
		{"integer", types.LiteralDefault(42), "42"},
		{"negative", types.LiteralDefault(int64(-3)), "-3"},
		{"real", types.LiteralDefault(1.5), "1.5"},
		{"whole real", types.LiteralDefault(2.0), "2.0"},
		{"bool", types.LiteralDefault(true), "1"},
		{"uint", types.LiteralDefault(uint(7)), "7"},
		{"large uint64", types.LiteralDefault(uint64(18446744073709551615)), "18446744073709551615"},
		{"blob", types.LiteralDefault([]byte{0xde, 0xad}), "X'DEAD'"},
		{"empty blob", types.LiteralDefault([]byte{}), "X''"},
		{"null literal", types.LiteralDefault(nil), "NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderDefault(tt.def))
		})
	}
}

func TestColumnSQL(t *testing.T) {
	tests := []struct {
		name string
		col  types.ColumnDefinition
		want string
	}{
		{
			name: "autoincrement primary key",
			col:  types.ColumnDefinition{Name: "id", Type: types.Integer, PrimaryKey: true, AutoIncrement: true},
			want: "[id] INTEGER PRIMARY KEY AUTOINCREMENT",
		},
		{
			name: "not null unique",
			col:  types.ColumnDefinition{Name: "key", Type: types.Text, NotNull: true, Unique: true},
			want: "[key] TEXT NOT NULL UNIQUE",
		},
		{
			name: "default",
			col:  types.ColumnDefinition{Name: "n", Type: types.Real, Default: types.LiteralDefault(0.5)},
			want: "[n] REAL DEFAULT 0.5",
		},
		{
			name: "foreign key defaults",
			col:  types.ColumnDefinition{Name: "owner", Type: types.Integer, ForeignKey: &types.ForeignKeyDefinition{Table: "users"}},
			want: "[owner] INTEGER REFERENCES [users]([id]) ON DELETE RESTRICT ON UPDATE RESTRICT",
		},
		{
			name: "foreign key actions",
			col: types.ColumnDefinition{Name: "p", Type: types.Integer, ForeignKey: &types.ForeignKeyDefinition{
				Table: "parent", Column: "pid", OnDelete: types.Cascade, OnUpdate: types.SetNull,
			}},
			want: "[p] INTEGER REFERENCES [parent]([pid]) ON DELETE CASCADE ON UPDATE SET NULL",
		},
		{
			name: "no action renders restrict",
			col: types.ColumnDefinition{Name: "p", Type: types.Integer, ForeignKey: &types.ForeignKeyDefinition{
				Table: "parent", OnDelete: types.NoAction,
			}},
			want: "[p] INTEGER REFERENCES [parent]([id]) ON DELETE RESTRICT ON UPDATE RESTRICT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnSQL(tt.col))
		})
	}
}

func TestCreateTableSQL(t *testing.T) {
	got := CreateTableSQL("t", []types.ColumnDefinition{
		{Name: "id", Type: types.Integer, PrimaryKey: true},
		{Name: "name", Type: types.Text},
	})
	assert.Equal(t, "CREATE TABLE [t] (\n  [id] INTEGER PRIMARY KEY,\n  [name] TEXT\n)", got)
}

func TestAddColumnSQLDropsConstraints(t *testing.T) {
	got := AddColumnSQL("t", types.ColumnDefinition{
		Name: "c", Type: types.Text, NotNull: true, Unique: true,
		Default:    types.LiteralDefault("x"),
		ForeignKey: &types.ForeignKeyDefinition{Table: "other"},
	})
	assert.Equal(t, "ALTER TABLE [t] ADD COLUMN [c] TEXT NOT NULL DEFAULT 'x'", got)
}

func TestCreateIndexSQL(t *testing.T) {
	assert.Equal(t, "CREATE INDEX [idx] ON [t] ([a])",
		CreateIndexSQL("t", types.IndexDefinition{Name: "idx", Table: "t", Columns: []string{"a"}}))
	assert.Equal(t, "CREATE UNIQUE INDEX [idx] ON [t] ([a], [b])",
		CreateIndexSQL("t", types.IndexDefinition{Name: "idx", Table: "t", Columns: []string{"a", "b"}, Unique: true}))
}

func TestCreateTriggerSQL(t *testing.T) {
	trg := types.TriggerDefinition{
		Name: "trg", Table: "t", Timing: types.After, Event: types.OnUpdate,
		SQL: "UPDATE t SET n = n + 1 WHERE rowid = NEW.rowid",
	}
	want := "CREATE TRIGGER [trg] AFTER UPDATE ON [t] FOR EACH ROW\nBEGIN\n  UPDATE t SET n = n + 1 WHERE rowid = NEW.rowid;\nEND"
	assert.Equal(t, want, CreateTriggerSQL("t", trg))

	trg.SQL = "SELECT 1;"
	assert.Contains(t, CreateTriggerSQL("t", trg), "SELECT 1;\nEND")
}
