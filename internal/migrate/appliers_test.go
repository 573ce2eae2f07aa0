package migrate

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

func TestCreateTableApplier(t *testing.T) {
	ctx := context.Background()
	cols := []types.ColumnDefinition{{Name: "id", Type: types.Integer, PrimaryKey: true}}

	t.Run("absent table is created", func(t *testing.T) {
		conn := newFakeConn()
		created, err := CreateTable(ctx, conn, "t", cols)
		require.NoError(t, err)
		assert.True(t, created)
		require.Len(t, conn.execs, 1)
		assert.Contains(t, conn.execs[0], "CREATE TABLE [t]")
	})

	t.Run("existing table is left alone", func(t *testing.T) {
		conn := newFakeConn().withTable("t", "id")
		created, err := CreateTable(ctx, conn, "t", cols)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Empty(t, conn.execs)
	})

	t.Run("exec failure is wrapped", func(t *testing.T) {
		conn := newFakeConn()
		conn.failOn = "CREATE TABLE"
		_, err := CreateTable(ctx, conn, "t", cols)
		assert.ErrorIs(t, err, errFake)
		assert.Contains(t, err.Error(), "create table t")
	})
}

func TestAddMissingColumns(t *testing.T) {
	ctx := context.Background()

	t.Run("absent table is a no-op", func(t *testing.T) {
		conn := newFakeConn()
		report, err := AddMissingColumns(ctx, conn, "t", []types.ColumnDefinition{{Name: "a", Type: types.Text}}, nil)
		require.NoError(t, err)
		assert.Empty(t, report.Added)
		assert.Empty(t, conn.execs)
	})

	t.Run("present columns are not re-added", func(t *testing.T) {
		conn := newFakeConn().withTable("t", "id", "a")
		report, err := AddMissingColumns(ctx, conn, "t", []types.ColumnDefinition{
			{Name: "id", Type: types.Integer, PrimaryKey: true},
			{Name: "a", Type: types.Text},
		}, nil)
		require.NoError(t, err)
		assert.Empty(t, report.Added)
		assert.Empty(t, conn.execs)
	})

	t.Run("constraints are downgraded", func(t *testing.T) {
		conn := newFakeConn().withTable("t", "id")
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		report, err := AddMissingColumns(ctx, conn, "t", []types.ColumnDefinition{
			{Name: "id", Type: types.Integer, PrimaryKey: true},
			{Name: "pk2", Type: types.Integer, PrimaryKey: true},
			{Name: "seq", Type: types.Integer, AutoIncrement: true},
			{Name: "email", Type: types.Text, Unique: true},
			{Name: "owner", Type: types.Integer, ForeignKey: &types.ForeignKeyDefinition{Table: "users"}},
			{Name: "count", Type: types.Integer, NotNull: true},
			{Name: "ratio", Type: types.Real, NotNull: true},
			{Name: "label", Type: types.Text, NotNull: true},
			{Name: "data", Type: types.Blob, NotNull: true},
			{Name: "note", Type: types.Text, NotNull: true, Default: types.LiteralDefault("n/a")},
		}, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"pk2", "seq"}, report.Skipped)
		assert.Equal(t, []string{"email", "owner", "count", "ratio", "label", "data", "note"}, report.Added)
		assert.Equal(t, []string{
			"ALTER TABLE [t] ADD COLUMN [email] TEXT",
			"ALTER TABLE [t] ADD COLUMN [owner] INTEGER",
			"ALTER TABLE [t] ADD COLUMN [count] INTEGER NOT NULL DEFAULT 0",
			"ALTER TABLE [t] ADD COLUMN [ratio] REAL NOT NULL DEFAULT 0.0",
			"ALTER TABLE [t] ADD COLUMN [label] TEXT NOT NULL DEFAULT ''",
			"ALTER TABLE [t] ADD COLUMN [data] BLOB NOT NULL DEFAULT X''",
			"ALTER TABLE [t] ADD COLUMN [note] TEXT NOT NULL DEFAULT 'n/a'",
		}, conn.execs)

		warnings := map[string]string{}
		for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
			if !strings.Contains(line, "level=WARN") {
				continue
			}
			for _, field := range strings.Fields(line) {
				if col, ok := strings.CutPrefix(field, "column="); ok {
					warnings[col] += line
				}
			}
		}
		assert.Contains(t, warnings["pk2"], "primary key")
		assert.Contains(t, warnings["seq"], "autoincrement")
		assert.Contains(t, warnings["email"], "UNIQUE")
		assert.Contains(t, warnings["owner"], "foreign key")
		assert.Contains(t, warnings["owner"], "references=users")
		for _, col := range []string{"count", "ratio", "label", "data"} {
			assert.Contains(t, warnings[col], "zero value", col)
		}
		assert.NotContains(t, warnings, "note")
	})

	t.Run("expression default is kept on an empty table", func(t *testing.T) {
		conn := newFakeConn().withTable("t", "id")
		report, err := AddMissingColumns(ctx, conn, "t", []types.ColumnDefinition{
			{Name: "stamp", Type: types.Integer, NotNull: true, Default: types.ExprDefault("(unixepoch())")},
			{Name: "seen", Type: types.Text, Default: types.ParseDefault("(CURRENT_TIMESTAMP)")},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"stamp", "seen"}, report.Added)
		assert.Equal(t, []string{
			"ALTER TABLE [t] ADD COLUMN [stamp] INTEGER NOT NULL DEFAULT (unixepoch())",
			"ALTER TABLE [t] ADD COLUMN [seen] TEXT DEFAULT (CURRENT_TIMESTAMP)",
		}, conn.execs)
	})

	t.Run("expression default is backfilled on a populated table", func(t *testing.T) {
		conn := newFakeConn().withTable("t", "id")
		conn.filled["t"] = true
		report, err := AddMissingColumns(ctx, conn, "t", []types.ColumnDefinition{
			{Name: "stamp", Type: types.Integer, NotNull: true, Default: types.ExprDefault("(unixepoch())")},
			{Name: "seen", Type: types.Text, Default: types.ExprDefault("CURRENT_TIMESTAMP")},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"stamp", "seen"}, report.Added)
		assert.Equal(t, []string{
			"ALTER TABLE [t] ADD COLUMN [stamp] INTEGER NOT NULL DEFAULT 0",
			"UPDATE [t] SET [stamp] = (unixepoch())",
			"ALTER TABLE [t] ADD COLUMN [seen] TEXT",
			"UPDATE [t] SET [seen] = CURRENT_TIMESTAMP",
		}, conn.execs)
	})

	t.Run("exec failure stops and reports partial progress", func(t *testing.T) {
		conn := newFakeConn().withTable("t", "id")
		conn.failOn = "[b]"
		report, err := AddMissingColumns(ctx, conn, "t", []types.ColumnDefinition{
			{Name: "a", Type: types.Text},
			{Name: "b", Type: types.Text},
			{Name: "c", Type: types.Text},
		}, nil)
		assert.ErrorIs(t, err, errFake)
		assert.Equal(t, []string{"a"}, report.Added)
	})
}

func TestCreateIndexApplier(t *testing.T) {
	ctx := context.Background()
	idx := types.IndexDefinition{Name: "idx_t_a", Table: "t", Columns: []string{"a"}}

	conn := newFakeConn()
	created, err := CreateIndex(ctx, conn, "t", idx, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"CREATE INDEX [idx_t_a] ON [t] ([a])"}, conn.execs)

	conn = newFakeConn()
	conn.objects[KindIndex]["idx_t_a"] = true
	created, err = CreateIndex(ctx, conn, "t", idx, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, conn.execs)

	conn = newFakeConn()
	created, err = CreateIndex(ctx, conn, "other", idx, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, conn.execs)
}

func TestCreateTriggerApplier(t *testing.T) {
	ctx := context.Background()
	trg := types.TriggerDefinition{Name: "trg", Table: "t", Timing: types.After, Event: types.OnDelete, SQL: "SELECT 1"}

	conn := newFakeConn()
	created, err := CreateTrigger(ctx, conn, "t", trg, nil)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, conn.execs, 1)
	assert.Contains(t, conn.execs[0], "CREATE TRIGGER [trg] AFTER DELETE ON [t]")

	conn = newFakeConn()
	conn.objects[KindTrigger]["trg"] = true
	created, err = CreateTrigger(ctx, conn, "t", trg, nil)
	require.NoError(t, err)
	assert.False(t, created)

	conn = newFakeConn()
	created, err = CreateTrigger(ctx, conn, "other", trg, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, conn.execs)
}
