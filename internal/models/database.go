package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// PreferenceThemeMode is the key of the persisted light/dark choice
const PreferenceThemeMode = "theme_mode"

// Preference is a single persisted key/value setting
type Preference struct {
	Key       string `boltholdKey:"Key"`
	Value     string
	UpdatedAt time.Time
}

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// OpenReadOnly opens an existing database without taking the write lock
func OpenReadOnly(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout:  1 * time.Second,
			ReadOnly: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database read-only: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// GetPreference returns the stored value and whether it exists
func (db *Database) GetPreference(key string) (string, bool, error) {
	var pref Preference
	err := db.store.Get(key, &pref)
	if errors.Is(err, bolthold.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return pref.Value, true, nil
}

// SetPreference inserts or replaces a preference
func (db *Database) SetPreference(key, value string) error {
	pref := &Preference{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	if err := db.store.Upsert(key, pref); err != nil {
		return fmt.Errorf("failed to write preference %q: %w", key, err)
	}
	return nil
}

// GetThemeMode returns the persisted theme, falling back to light
func (db *Database) GetThemeMode() (ThemeMode, error) {
	value, ok, err := db.GetPreference(PreferenceThemeMode)
	if err != nil {
		return ThemeLight, err
	}
	mode := ThemeMode(value)
	if !ok || (mode != ThemeLight && mode != ThemeDark) {
		return ThemeLight, nil
	}
	return mode, nil
}

// SaveThemeMode persists the theme
func (db *Database) SaveThemeMode(mode ThemeMode) error {
	return db.SetPreference(PreferenceThemeMode, string(mode))
}
