package types

import "fmt"

// IndexDefinition describes an index. Name is unique across the schema.
// Table must match the table the index is grouped under; a mismatch is
// skipped with a warning when the index is applied.
type IndexDefinition struct {
	Name    string   `json:"name" yaml:"name"`
	Table   string   `json:"table" yaml:"table"`
	Columns []string `json:"columns" yaml:"columns"`
	Unique  bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
}

// Validate checks that the index has a name and at least one named column.
func (i IndexDefinition) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("index: %w", ErrEmptyName)
	}
	if len(i.Columns) == 0 {
		return fmt.Errorf("index %s: %w", i.Name, ErrNoColumns)
	}
	for _, c := range i.Columns {
		if c == "" {
			return fmt.Errorf("index %s column: %w", i.Name, ErrEmptyName)
		}
	}
	return nil
}
