package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// SeedFunc populates one table. It must be safe to call on every startup.
type SeedFunc func(ctx context.Context, conn SeedConn) error

// SeedPolicy decides what happens after a table fails to seed.
type SeedPolicy int

const (
	// ContinueOnError logs the failure, seeds the remaining tables, and
	// returns every failure joined.
	ContinueOnError SeedPolicy = iota
	// StopOnError returns the first failure without seeding later tables.
	StopOnError
)

type seedEntry struct {
	table string
	fn    SeedFunc
}

// Seeder runs registered seed functions in registration order.
type Seeder struct {
	Policy  SeedPolicy
	entries []seedEntry
}

// NewSeeder returns an empty Seeder with the given policy.
func NewSeeder(policy SeedPolicy) *Seeder {
	return &Seeder{Policy: policy}
}

// Register appends a seed function for table.
func (s *Seeder) Register(table string, fn SeedFunc) *Seeder {
	s.entries = append(s.entries, seedEntry{table: table, fn: fn})
	return s
}

// Tables returns the registered table names in run order.
func (s *Seeder) Tables() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.table
	}
	return out
}

// Run executes every seed function and returns the tables that seeded
// without error.
func (s *Seeder) Run(ctx context.Context, conn SeedConn, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		seeded []string
		errs   []error
	)
	for _, e := range s.entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := e.fn(ctx, conn); err != nil {
			err = fmt.Errorf("seed %s: %w", e.table, err)
			logger.Error("seeding failed", "table", e.table, "error", err)
			if s.Policy == StopOnError {
				return seeded, err
			}
			errs = append(errs, err)
			continue
		}
		logger.Info("seeded table", "table", e.table)
		seeded = append(seeded, e.table)
	}
	return seeded, errors.Join(errs...)
}

// SeedRows returns a SeedFunc that inserts each row whose keyColumn value is
// not already present in table. Existing rows are left untouched.
func SeedRows(table, keyColumn string, rows []Row) SeedFunc {
	return func(ctx context.Context, conn SeedConn) error {
		for _, row := range rows {
			key, ok := row[keyColumn]
			if !ok {
				return fmt.Errorf("row missing key column %s", keyColumn)
			}
			exists, err := conn.RowExists(ctx, table, keyColumn, key)
			if err != nil {
				return fmt.Errorf("check %s=%v: %w", keyColumn, key, err)
			}
			if exists {
				continue
			}
			if err := conn.Insert(ctx, table, row); err != nil {
				return fmt.Errorf("insert %s=%v: %w", keyColumn, key, err)
			}
		}
		return nil
	}
}
