package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// DefaultKind tells a literal default from a raw SQL expression.
type DefaultKind int

const (
	// DefaultLiteral is a constant value, quoted or passed through as needed
	// when rendered into DDL.
	DefaultLiteral DefaultKind = iota
	// DefaultExpression is raw SQL evaluated by the engine at write time.
	DefaultExpression
)

// Default is a column default value. It is either a literal or a raw SQL
// expression, decided when the schema is written rather than guessed when
// DDL is rendered.
type Default struct {
	kind  DefaultKind
	value any
	expr  string
}

// LiteralDefault returns a literal default. Integer kinds are normalized to
// int64 (unsigned values above math.MaxInt64 stay uint64), floats to
// float64, and bools to 0/1.
func LiteralDefault(v any) *Default {
	return &Default{kind: DefaultLiteral, value: normalizeLiteral(v)}
}

// ExprDefault returns a raw expression default. The text is emitted verbatim,
// so expressions other than bare keywords (CURRENT_TIMESTAMP and friends)
// must carry their own parentheses, as SQLite requires.
func ExprDefault(sql string) *Default {
	return &Default{kind: DefaultExpression, expr: strings.TrimSpace(sql)}
}

// ParseDefault applies the textual convention used by schema files: a string
// that, after trimming, starts with "(" and ends with ")" is an expression;
// anything else is a text literal. A literal string that itself looks like
// "(...)" cannot be expressed this way; use LiteralDefault for it.
func ParseDefault(s string) *Default {
	if IsExpressionText(s) {
		return ExprDefault(s)
	}
	return LiteralDefault(s)
}

// IsExpressionText reports whether s follows the parenthesized expression
// convention.
func IsExpressionText(s string) bool {
	trimmed := strings.TrimSpace(s)
	return len(trimmed) >= 2 && strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")")
}

// Kind returns the default's kind.
func (d *Default) Kind() DefaultKind { return d.kind }

// IsExpression reports whether d is a raw expression.
func (d *Default) IsExpression() bool { return d.kind == DefaultExpression }

// Value returns the literal value; nil for expressions.
func (d *Default) Value() any { return d.value }

// Expression returns the raw SQL text; empty for literals.
func (d *Default) Expression() string { return d.expr }

// String renders d for diagnostics.
func (d *Default) String() string {
	if d.IsExpression() {
		return d.expr
	}
	return fmt.Sprintf("%v", d.value)
}

// MarshalJSON encodes d as {"expr": "..."} or {"literal": value}.
func (d Default) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.encoded())
}

// MarshalYAML encodes d the same way as MarshalJSON.
func (d Default) MarshalYAML() (any, error) {
	return d.encoded(), nil
}

func (d Default) encoded() map[string]any {
	if d.kind == DefaultExpression {
		return map[string]any{"expr": d.expr}
	}
	return map[string]any{"literal": d.value}
}

// validateFor checks that a literal's Go type matches the column type.
// Expressions are not checked.
func (d *Default) validateFor(t ColumnType) error {
	if d.IsExpression() {
		if d.expr == "" {
			return fmt.Errorf("%w: empty expression", ErrInvalidDefault)
		}
		return nil
	}
	if d.value == nil {
		return nil
	}
	ok := false
	switch v := d.value.(type) {
	case int64, uint64:
		ok = t == Integer || t == Real
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v is not a finite number", ErrInvalidDefault, v)
		}
		ok = t == Real || t == Integer
	case string:
		ok = t == Text
	case []byte:
		ok = t == Blob
	}
	if !ok {
		return fmt.Errorf("%w: %T for %s column", ErrInvalidDefault, d.value, t)
	}
	return nil
}

func normalizeLiteral(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint:
		return normalizeUnsigned(uint64(n))
	case uint64:
		return normalizeUnsigned(n)
	case float32:
		return float64(n)
	case bool:
		if n {
			return int64(1)
		}
		return int64(0)
	default:
		return v
	}
}

func normalizeUnsigned(n uint64) any {
	if n > math.MaxInt64 {
		return n
	}
	return int64(n)
}
