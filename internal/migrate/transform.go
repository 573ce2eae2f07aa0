package migrate

import "github.com/mesh-intelligence/pantry/pkg/types"

// ColumnWithTable is a column paired with the table it belongs to.
type ColumnWithTable struct {
	TableName string
	Column    types.ColumnDefinition
	Table     *types.TableDefinition
}

// IndexWithTable is an index paired with the table it was declared under.
type IndexWithTable struct {
	TableName string
	Index     types.IndexDefinition
	Table     *types.TableDefinition
}

// TriggerWithTable is a trigger paired with the table it was declared under.
type TriggerWithTable struct {
	TableName string
	Trigger   types.TriggerDefinition
	Table     *types.TableDefinition
}

// MigrationData holds the flattened work-lists: every column of every table,
// then every index, then every trigger, each in declaration order.
type MigrationData struct {
	Columns  []ColumnWithTable
	Indexes  []IndexWithTable
	Triggers []TriggerWithTable
}

// Transform flattens table definitions into ordered work-lists. It performs
// no I/O and does not validate its input.
func Transform(tables []types.TableDefinition) MigrationData {
	var data MigrationData
	for i := range tables {
		td := &tables[i]
		for _, c := range td.Columns {
			data.Columns = append(data.Columns, ColumnWithTable{TableName: td.Name, Column: c, Table: td})
		}
		for _, idx := range td.Indexes {
			data.Indexes = append(data.Indexes, IndexWithTable{TableName: td.Name, Index: idx, Table: td})
		}
		for _, trg := range td.Triggers {
			data.Triggers = append(data.Triggers, TriggerWithTable{TableName: td.Name, Trigger: trg, Table: td})
		}
	}
	return data
}

// Tables returns the distinct table definitions in first-seen order of the
// column work-list. Tables without columns do not appear.
func (d MigrationData) Tables() []*types.TableDefinition {
	seen := make(map[string]bool)
	var out []*types.TableDefinition
	for _, c := range d.Columns {
		if seen[c.TableName] {
			continue
		}
		seen[c.TableName] = true
		out = append(out, c.Table)
	}
	return out
}
