package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

const configColumns = "id, key, value, description, created_at, updated_at"

// ConfigTable reads and writes rows of the config table.
type ConfigTable struct {
	db *DB
}

// NewConfigTable returns a ConfigTable over db.
func NewConfigTable(db *DB) *ConfigTable {
	return &ConfigTable{db: db}
}

// BatchCreate inserts every input in one transaction and returns the stored
// rows. Nothing is inserted if any row fails.
func (t *ConfigTable) BatchCreate(ctx context.Context, inputs []types.ConfigInput) ([]types.ConfigRecord, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	tx, err := t.db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	keys := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in.Key == "" {
			return nil, fmt.Errorf("config key: %w", types.ErrEmptyName)
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO config (key, value, description) VALUES (?, ?, ?)",
			in.Key, in.Value, nullString(in.Description))
		if err != nil {
			return nil, fmt.Errorf("insert config %s: %w", in.Key, err)
		}
		keys = append(keys, in.Key)
	}

	records := make([]types.ConfigRecord, 0, len(keys))
	for _, key := range keys {
		rec, err := scanConfig(tx.QueryRowContext(ctx,
			"SELECT "+configColumns+" FROM config WHERE key = ?", key))
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", key, err)
		}
		records = append(records, rec)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return records, nil
}

// GetAll returns every config row ordered by id.
func (t *ConfigTable) GetAll(ctx context.Context) ([]types.ConfigRecord, error) {
	rows, err := t.db.db.QueryContext(ctx, "SELECT "+configColumns+" FROM config ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query config: %w", err)
	}
	defer rows.Close()

	var out []types.ConfigRecord
	for rows.Next() {
		rec, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetByKey returns the row for key, or ErrNotFound.
func (t *ConfigTable) GetByKey(ctx context.Context, key string) (types.ConfigRecord, error) {
	rec, err := scanConfig(t.db.db.QueryRowContext(ctx,
		"SELECT "+configColumns+" FROM config WHERE key = ?", key))
	if errors.Is(err, sql.ErrNoRows) {
		return types.ConfigRecord{}, fmt.Errorf("config %s: %w", key, types.ErrNotFound)
	}
	if err != nil {
		return types.ConfigRecord{}, fmt.Errorf("get config %s: %w", key, err)
	}
	return rec, nil
}

// DeleteByKey removes the row for key. Returns ErrNotFound if there is none.
func (t *ConfigTable) DeleteByKey(ctx context.Context, key string) error {
	res, err := t.db.db.ExecContext(ctx, "DELETE FROM config WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete config %s: %w", key, err)
	}
	return requireAffected(res, key)
}

// UpdateValueByKey replaces the value of key. Returns ErrNotFound if there
// is no such row. The update trigger refreshes updated_at.
func (t *ConfigTable) UpdateValueByKey(ctx context.Context, key, value string) error {
	res, err := t.db.db.ExecContext(ctx, "UPDATE config SET value = ? WHERE key = ?", value, key)
	if err != nil {
		return fmt.Errorf("update config %s: %w", key, err)
	}
	return requireAffected(res, key)
}

// UpdateByKey applies the non-nil fields of u to the row for key. Returns
// ErrInvalidData for an empty update and ErrNotFound if there is no row.
func (t *ConfigTable) UpdateByKey(ctx context.Context, key string, u types.ConfigUpdate) error {
	if u.IsEmpty() {
		return fmt.Errorf("update config %s: %w: no fields", key, types.ErrInvalidData)
	}
	var (
		sets []string
		args []any
	)
	if u.Value != nil {
		sets = append(sets, "value = ?")
		args = append(args, *u.Value)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.CreatedAt != nil {
		sets = append(sets, "created_at = ?")
		args = append(args, *u.CreatedAt)
	}
	if u.UpdatedAt != nil {
		sets = append(sets, "updated_at = ?")
		args = append(args, *u.UpdatedAt)
	}
	args = append(args, key)

	res, err := t.db.db.ExecContext(ctx,
		"UPDATE config SET "+strings.Join(sets, ", ")+" WHERE key = ?", args...)
	if err != nil {
		return fmt.Errorf("update config %s: %w", key, err)
	}
	return requireAffected(res, key)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfig(s rowScanner) (types.ConfigRecord, error) {
	var (
		rec  types.ConfigRecord
		desc sql.NullString
	)
	if err := s.Scan(&rec.ID, &rec.Key, &rec.Value, &desc, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return types.ConfigRecord{}, err
	}
	if desc.Valid {
		rec.Description = &desc.String
	}
	return rec, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func requireAffected(res sql.Result, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("config %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("config %s: %w", key, types.ErrNotFound)
	}
	return nil
}
