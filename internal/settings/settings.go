// Package settings reads and writes typed application settings stored as
// JSON values in the config table.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/pantry/internal/sqlite"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Well-known keys.
const (
	KeyAppSettings = sqlite.KeyAppSettings
	KeyTheme       = sqlite.KeyAppTheme
)

// AppSettings is the value stored under KeyAppSettings.
type AppSettings struct {
	Language        string `json:"language"`
	AutoCheckUpdate bool   `json:"autoCheckUpdate"`
	AutoStart       bool   `json:"autoStart"`
	ShowTray        bool   `json:"showTray"`
}

// ThemeSettings is the value stored under KeyTheme.
type ThemeSettings struct {
	Mode            string `json:"mode"`
	PrimaryColor    string `json:"primaryColor"`
	FontSize        int    `json:"fontSize"`
	EnableAnimation bool   `json:"enableAnimation"`
}

// Repository is the subset of the config table the service uses.
type Repository interface {
	GetAll(ctx context.Context) ([]types.ConfigRecord, error)
	GetByKey(ctx context.Context, key string) (types.ConfigRecord, error)
	UpdateValueByKey(ctx context.Context, key, value string) error
	DeleteByKey(ctx context.Context, key string) error
}

// Service decodes and encodes config values.
type Service struct {
	repo Repository
}

// NewService returns a Service over repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Entry is a config row with its value decoded.
type Entry struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description,omitempty"`
	UpdatedAt   int64           `json:"updated_at"`
}

// Get decodes the value stored under key into out.
// Returns ErrNotFound if the key does not exist and ErrInvalidData if the
// stored value is not valid JSON for out.
func (s *Service) Get(ctx context.Context, key string, out any) error {
	rec, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(rec.Value), out); err != nil {
		return fmt.Errorf("config %s: %w: %v", key, types.ErrInvalidData, err)
	}
	return nil
}

// GetRaw returns the stored JSON text for key.
func (s *Service) GetRaw(ctx context.Context, key string) (json.RawMessage, error) {
	rec, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(rec.Value)) {
		return nil, fmt.Errorf("config %s: %w: stored value is not JSON", key, types.ErrInvalidData)
	}
	return json.RawMessage(rec.Value), nil
}

// GetAll returns every entry. Rows whose value is not valid JSON are
// returned with the value encoded as a JSON string.
func (s *Service) GetAll(ctx context.Context) ([]Entry, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		e := Entry{Key: r.Key, UpdatedAt: r.UpdatedAt}
		if r.Description != nil {
			e.Description = *r.Description
		}
		if json.Valid([]byte(r.Value)) {
			e.Value = json.RawMessage(r.Value)
		} else {
			quoted, _ := json.Marshal(r.Value)
			e.Value = quoted
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Update encodes value as JSON and stores it under an existing key.
// Returns ErrNotFound if the key does not exist; new keys are only created
// by seeding.
func (s *Service) Update(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode config %s: %w", key, err)
	}
	return s.UpdateRaw(ctx, key, encoded)
}

// UpdateRaw stores already-encoded JSON under an existing key.
func (s *Service) UpdateRaw(ctx context.Context, key string, raw []byte) error {
	if !json.Valid(raw) {
		return fmt.Errorf("config %s: %w: value is not JSON", key, types.ErrInvalidData)
	}
	if err := s.repo.UpdateValueByKey(ctx, key, string(raw)); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("update config: %w", err)
		}
		return err
	}
	return nil
}

// Delete removes key.
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.repo.DeleteByKey(ctx, key)
}

// AppSettings returns the decoded application settings.
func (s *Service) AppSettings(ctx context.Context) (AppSettings, error) {
	var v AppSettings
	err := s.Get(ctx, KeyAppSettings, &v)
	return v, err
}

// Theme returns the decoded theme settings.
func (s *Service) Theme(ctx context.Context) (ThemeSettings, error) {
	var v ThemeSettings
	err := s.Get(ctx, KeyTheme, &v)
	return v, err
}
