package sqlite

import "github.com/mesh-intelligence/pantry/pkg/types"

// Table names.
const (
	TableConfig = "config"
)

// nowEpoch is the SQL for the current Unix time in seconds.
const nowEpoch = "CAST(strftime('%s', 'now') AS INTEGER)"

// Schema returns the application schema in creation order. Each call
// returns a fresh copy.
func Schema() []types.TableDefinition {
	return []types.TableDefinition{configTable()}
}

func configTable() types.TableDefinition {
	return types.TableDefinition{
		Name: TableConfig,
		Columns: []types.ColumnDefinition{
			{Name: "id", Type: types.Integer, PrimaryKey: true, AutoIncrement: true},
			{Name: "key", Type: types.Text, NotNull: true, Unique: true},
			{Name: "value", Type: types.Text, NotNull: true},
			{Name: "description", Type: types.Text},
			{Name: "created_at", Type: types.Integer, NotNull: true, Default: types.ExprDefault("(" + nowEpoch + ")")},
			{Name: "updated_at", Type: types.Integer, NotNull: true, Default: types.ExprDefault("(" + nowEpoch + ")")},
		},
		Indexes: []types.IndexDefinition{
			{Name: "idx_config_created_at", Table: TableConfig, Columns: []string{"created_at"}},
		},
		Triggers: []types.TriggerDefinition{
			{
				// Column defaults stamp new rows; this fills rows inserted
				// with explicit zero timestamps.
				Name:   "trigger_config_insert_timestamps",
				Table:  TableConfig,
				Timing: types.After,
				Event:  types.OnInsert,
				SQL: `UPDATE config SET
    created_at = CASE WHEN NEW.created_at = 0 THEN ` + nowEpoch + ` ELSE NEW.created_at END,
    updated_at = CASE WHEN NEW.updated_at = 0 THEN ` + nowEpoch + ` ELSE NEW.updated_at END
  WHERE id = NEW.id AND (NEW.created_at = 0 OR NEW.updated_at = 0)`,
			},
			{
				Name:   "trigger_config_update_timestamp",
				Table:  TableConfig,
				Timing: types.After,
				Event:  types.OnUpdate,
				SQL: `UPDATE config SET updated_at = ` + nowEpoch + `
  WHERE id = NEW.id`,
			},
		},
	}
}
