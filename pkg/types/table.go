package types

import "fmt"

// TableDefinition is the complete declaration of one table.
type TableDefinition struct {
	Name     string              `json:"name" yaml:"name"`
	Columns  []ColumnDefinition  `json:"columns" yaml:"columns"`
	Indexes  []IndexDefinition   `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Triggers []TriggerDefinition `json:"triggers,omitempty" yaml:"triggers,omitempty"`
}

// Column returns the named column definition, or nil.
func (t *TableDefinition) Column(name string) *ColumnDefinition {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Validate checks the table and every object it declares. Column names must
// be unique within the table.
func (t *TableDefinition) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("table: %w", ErrEmptyName)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s: %w", t.Name, ErrNoColumns)
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		if seen[c.Name] {
			return fmt.Errorf("table %s column %s: %w", t.Name, c.Name, ErrDuplicateName)
		}
		seen[c.Name] = true
	}
	for _, idx := range t.Indexes {
		if err := idx.Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	for _, trg := range t.Triggers {
		if err := trg.Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	return nil
}

// ValidateSchema validates every table and checks that table, index, and
// trigger names are unique within their namespaces. Errors wrap
// ErrInvalidSchema.
func ValidateSchema(tables []TableDefinition) error {
	tableNames := make(map[string]bool, len(tables))
	indexNames := make(map[string]bool)
	triggerNames := make(map[string]bool)

	for i := range tables {
		t := &tables[i]
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
		if tableNames[t.Name] {
			return fmt.Errorf("%w: table %s: %w", ErrInvalidSchema, t.Name, ErrDuplicateName)
		}
		tableNames[t.Name] = true
		for _, idx := range t.Indexes {
			if indexNames[idx.Name] {
				return fmt.Errorf("%w: index %s: %w", ErrInvalidSchema, idx.Name, ErrDuplicateName)
			}
			indexNames[idx.Name] = true
		}
		for _, trg := range t.Triggers {
			if triggerNames[trg.Name] {
				return fmt.Errorf("%w: trigger %s: %w", ErrInvalidSchema, trg.Name, ErrDuplicateName)
			}
			triggerNames[trg.Name] = true
		}
	}
	return nil
}
