package migrate

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// QuoteIdent wraps an identifier in brackets, doubling any "]" so the name
// cannot close the quote early.
func QuoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// QuoteLiteral renders s as a single-quoted SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// RenderDefault renders a default for a DEFAULT clause. Expressions are
// emitted verbatim.
func RenderDefault(d *types.Default) string {
	if d == nil {
		return "NULL"
	}
	if d.IsExpression() {
		return d.Expression()
	}
	return renderLiteral(d.Value())
}

func renderLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return QuoteLiteral(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return s
	case []byte:
		return "X'" + strings.ToUpper(hex.EncodeToString(x)) + "'"
	default:
		return QuoteLiteral(fmt.Sprint(x))
	}
}

// zeroDefault is the default substituted for a NOT NULL column added to a
// populated table without one. SQLite rejects NOT NULL with a NULL default,
// so blobs get an empty blob.
func zeroDefault(t types.ColumnType) *types.Default {
	switch t {
	case types.Integer:
		return types.LiteralDefault(int64(0))
	case types.Real:
		return types.LiteralDefault(0.0)
	case types.Blob:
		return types.LiteralDefault([]byte{})
	default:
		return types.LiteralDefault("")
	}
}

// fkAction maps a foreign key action to its SQL keyword. "no action" is
// emitted as RESTRICT.
func fkAction(a types.ForeignKeyAction) string {
	switch a {
	case types.Cascade:
		return "CASCADE"
	case types.SetNull:
		return "SET NULL"
	default:
		return "RESTRICT"
	}
}

// ColumnSQL renders a full column definition for CREATE TABLE.
func ColumnSQL(c types.ColumnDefinition) string {
	var b strings.Builder
	b.WriteString(QuoteIdent(c.Name))
	b.WriteString(" ")
	b.WriteString(c.Type.SQL())
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
		if c.AutoIncrement && c.Type == types.Integer {
			b.WriteString(" AUTOINCREMENT")
		}
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(RenderDefault(c.Default))
	}
	if fk := c.ForeignKey; fk != nil {
		fmt.Fprintf(&b, " REFERENCES %s(%s) ON DELETE %s ON UPDATE %s",
			QuoteIdent(fk.Table), QuoteIdent(fk.ReferencedColumn()),
			fkAction(fk.DeleteAction()), fkAction(fk.UpdateAction()))
	}
	return b.String()
}

// CreateTableSQL renders CREATE TABLE for table with the given columns.
func CreateTableSQL(table string, columns []types.ColumnDefinition) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = ColumnSQL(c)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", QuoteIdent(table), strings.Join(parts, ",\n  "))
}

// AddColumnSQL renders ALTER TABLE ... ADD COLUMN. Only the type, NOT NULL,
// and DEFAULT are emitted; SQLite cannot add the other constraints to an
// existing table.
func AddColumnSQL(table string, c types.ColumnDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ADD COLUMN %s %s", QuoteIdent(table), QuoteIdent(c.Name), c.Type.SQL())
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(RenderDefault(c.Default))
	}
	return b.String()
}

// BackfillSQL renders an UPDATE setting column to the default for every row.
func BackfillSQL(table, column string, d *types.Default) string {
	return fmt.Sprintf("UPDATE %s SET %s = %s", QuoteIdent(table), QuoteIdent(column), RenderDefault(d))
}

// CreateIndexSQL renders CREATE [UNIQUE] INDEX.
func CreateIndexSQL(table string, idx types.IndexDefinition) string {
	cols := make([]string, len(idx.Columns))
	for i, c := range idx.Columns {
		cols[i] = QuoteIdent(c)
	}
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)", unique, QuoteIdent(idx.Name), QuoteIdent(table), strings.Join(cols, ", "))
}

// CreateTriggerSQL renders CREATE TRIGGER with the body verbatim. A trailing
// semicolon is added when the body lacks one.
func CreateTriggerSQL(table string, trg types.TriggerDefinition) string {
	body := strings.TrimSpace(trg.SQL)
	if !strings.HasSuffix(body, ";") {
		body += ";"
	}
	return fmt.Sprintf("CREATE TRIGGER %s %s %s ON %s FOR EACH ROW\nBEGIN\n  %s\nEND",
		QuoteIdent(trg.Name), strings.ToUpper(string(trg.Timing)), strings.ToUpper(string(trg.Event)),
		QuoteIdent(table), body)
}
