package types

import (
	"fmt"
	"strings"
)

// ColumnType is the storage class of a column.
type ColumnType string

// Supported column types.
const (
	Integer ColumnType = "integer"
	Text    ColumnType = "text"
	Real    ColumnType = "real"
	Blob    ColumnType = "blob"
)

// validColumnTypes is the set of recognized column types.
var validColumnTypes = map[ColumnType]bool{
	Integer: true,
	Text:    true,
	Real:    true,
	Blob:    true,
}

// IsValid reports whether t is a recognized column type.
func (t ColumnType) IsValid() bool {
	return validColumnTypes[t]
}

// SQL returns the SQLite type keyword for t.
func (t ColumnType) SQL() string {
	return strings.ToUpper(string(t))
}

// ForeignKeyAction is the referential action applied on delete or update of
// the referenced row.
type ForeignKeyAction string

// Foreign key actions.
const (
	Cascade  ForeignKeyAction = "cascade"
	SetNull  ForeignKeyAction = "set null"
	Restrict ForeignKeyAction = "restrict"
	NoAction ForeignKeyAction = "no action"
)

// DefaultForeignKeyColumn is the referenced column when none is given.
const DefaultForeignKeyColumn = "id"

// ForeignKeyDefinition describes a column-level reference to another table.
type ForeignKeyDefinition struct {
	Table    string           `json:"table" yaml:"table"`
	Column   string           `json:"column,omitempty" yaml:"column,omitempty"`
	OnDelete ForeignKeyAction `json:"on_delete,omitempty" yaml:"on_delete,omitempty"`
	OnUpdate ForeignKeyAction `json:"on_update,omitempty" yaml:"on_update,omitempty"`
}

// ReferencedColumn returns the referenced column, defaulting to "id".
func (fk ForeignKeyDefinition) ReferencedColumn() string {
	if fk.Column == "" {
		return DefaultForeignKeyColumn
	}
	return fk.Column
}

// DeleteAction returns the on-delete action, defaulting to restrict.
func (fk ForeignKeyDefinition) DeleteAction() ForeignKeyAction {
	return actionOrDefault(fk.OnDelete)
}

// UpdateAction returns the on-update action, defaulting to restrict.
func (fk ForeignKeyDefinition) UpdateAction() ForeignKeyAction {
	return actionOrDefault(fk.OnUpdate)
}

func actionOrDefault(a ForeignKeyAction) ForeignKeyAction {
	if a == "" {
		return Restrict
	}
	return a
}

// Validate checks the referenced table and both actions.
func (fk ForeignKeyDefinition) Validate() error {
	if fk.Table == "" {
		return fmt.Errorf("foreign key: %w", ErrEmptyName)
	}
	for _, a := range []ForeignKeyAction{fk.DeleteAction(), fk.UpdateAction()} {
		switch a {
		case Cascade, SetNull, Restrict, NoAction:
		default:
			return fmt.Errorf("foreign key to %s: %w: %q", fk.Table, ErrUnknownForeignKeyAction, a)
		}
	}
	return nil
}

// ColumnDefinition describes one column of a table.
type ColumnDefinition struct {
	Name          string                `json:"name" yaml:"name"`
	Type          ColumnType            `json:"type" yaml:"type"`
	PrimaryKey    bool                  `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	AutoIncrement bool                  `json:"auto_increment,omitempty" yaml:"auto_increment,omitempty"`
	NotNull       bool                  `json:"not_null,omitempty" yaml:"not_null,omitempty"`
	Unique        bool                  `json:"unique,omitempty" yaml:"unique,omitempty"`
	Default       *Default              `json:"default,omitempty" yaml:"default,omitempty"`
	ForeignKey    *ForeignKeyDefinition `json:"foreign_key,omitempty" yaml:"foreign_key,omitempty"`
}

// HasDefault reports whether the column declares a default value.
func (c ColumnDefinition) HasDefault() bool {
	return c.Default != nil
}

// Validate checks the column name, type, autoincrement usage, default value
// type, and foreign key.
func (c ColumnDefinition) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("column: %w", ErrEmptyName)
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("column %s: %w: %q", c.Name, ErrUnknownColumnType, c.Type)
	}
	if c.AutoIncrement && (c.Type != Integer || !c.PrimaryKey) {
		return fmt.Errorf("column %s: %w", c.Name, ErrInvalidAutoIncrement)
	}
	if c.Default != nil {
		if err := c.Default.validateFor(c.Type); err != nil {
			return fmt.Errorf("column %s: %w", c.Name, err)
		}
	}
	if c.ForeignKey != nil {
		if err := c.ForeignKey.Validate(); err != nil {
			return fmt.Errorf("column %s: %w", c.Name, err)
		}
	}
	return nil
}
