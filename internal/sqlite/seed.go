package sqlite

import "github.com/mesh-intelligence/pantry/internal/migrate"

// Config keys seeded on first startup.
const (
	KeyAppSettings = "app.settings"
	KeyAppTheme    = "app.theme"
)

// defaultConfigRows are inserted once by key and never overwritten, so user
// changes survive restarts.
var defaultConfigRows = []migrate.Row{
	{
		"key":         KeyAppSettings,
		"value":       `{"language":"zh-CN","autoCheckUpdate":true,"autoStart":false,"showTray":true}`,
		"description": "Application settings",
	},
	{
		"key":         KeyAppTheme,
		"value":       `{"mode":"auto","primaryColor":"#007bff","fontSize":14,"enableAnimation":true}`,
		"description": "Theme settings",
	},
}

// NewSeeder returns the seeder for the application schema.
func NewSeeder(policy migrate.SeedPolicy) *migrate.Seeder {
	return migrate.NewSeeder(policy).
		Register(TableConfig, migrate.SeedRows(TableConfig, "key", defaultConfigRows))
}
