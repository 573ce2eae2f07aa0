package types

import "errors"

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend    string          `json:"backend" yaml:"backend"`
	DataDir    string          `json:"data_dir" yaml:"data_dir"`
	Database   string          `json:"database,omitempty" yaml:"database,omitempty"`
	Migrations MigrationConfig `json:"migrations" yaml:"migrations"`
}

// MigrationConfig controls how the startup migration is run.
type MigrationConfig struct {
	// Blocking makes Attach wait for the migration and fail if it fails.
	// When false the migration runs in the background and failures are
	// only logged.
	Blocking bool `json:"blocking" yaml:"blocking"`

	// SeedPolicy is SeedContinue or SeedStop. Empty means SeedContinue.
	SeedPolicy string `json:"seed_policy,omitempty" yaml:"seed_policy,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultDatabaseFile is the database file name inside DataDir.
const DefaultDatabaseFile = "app.db"

// Seed failure policies.
const (
	// SeedContinue seeds every table and reports all failures together.
	SeedContinue = "continue"
	// SeedStop aborts seeding at the first failing table.
	SeedStop = "stop"
)

// Config validation errors.
var (
	ErrBackendEmpty      = errors.New("backend must not be empty")
	ErrBackendUnknown    = errors.New("unknown backend")
	ErrSeedPolicyUnknown = errors.New("unknown seed policy")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Migrations.SeedPolicy {
	case "", SeedContinue, SeedStop:
	default:
		return ErrSeedPolicyUnknown
	}
	return nil
}

// DatabaseFile returns the configured database file name or the default.
func (c Config) DatabaseFile() string {
	if c.Database == "" {
		return DefaultDatabaseFile
	}
	return c.Database
}

// StopSeedingOnError reports whether the seed policy is SeedStop.
func (c MigrationConfig) StopSeedingOnError() bool {
	return c.SeedPolicy == SeedStop
}
