package kvrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/gradecalc/core"
	"github.com/trezcool/gradecalc/storage/kvstore"
)

// Preference defaults
const (
	DefaultTheme         = "light"
	DefaultHistoryLayout = "list"
)

// Preferences are display settings stored as plain strings. They are read straight from the store.
type Preferences struct {
	db *DB
}

type preferences struct {
	Theme         string `json:"theme" validate:"omitempty,oneof=light dark"`
	HistoryLayout string `json:"historyLayout" validate:"omitempty,oneof=list grid"`
}

func NewPreferences(db *DB) *Preferences {
	return &Preferences{db: db}
}

// PreferenceKeys lists the keys accepted by Get and Set.
func PreferenceKeys() []string {
	return []string{kvstore.KeyTheme, kvstore.KeyHistoryLayout}
}

func defaultPreference(key string) (string, bool) {
	switch key {
	case kvstore.KeyTheme:
		return DefaultTheme, true
	case kvstore.KeyHistoryLayout:
		return DefaultHistoryLayout, true
	}
	return "", false
}

// Get returns the stored value of key, or its default when unset.
func (p *Preferences) Get(ctx context.Context, key string) (string, error) {
	def, ok := defaultPreference(key)
	if !ok {
		return "", errors.Errorf("unknown preference %q", key)
	}
	b, found, err := p.db.Store.Get(ctx, key)
	if err != nil {
		return "", errors.Wrapf(err, "loading %s", key)
	}
	if !found || len(b) == 0 {
		return def, nil
	}
	return string(b), nil
}

// Set validates and stores value under key.
func (p *Preferences) Set(ctx context.Context, key, value string) error {
	value = core.CleanString(value)
	var prefs preferences
	switch key {
	case kvstore.KeyTheme:
		prefs.Theme = value
	case kvstore.KeyHistoryLayout:
		prefs.HistoryLayout = value
	default:
		return errors.Errorf("unknown preference %q", key)
	}
	if value == "" {
		return core.NewValidationError(core.ErrInvalidInput, core.FieldError{Field: key, Error: "this field is required"})
	}
	if err := core.ValidateStruct(prefs); err != nil {
		return err
	}
	if err := p.db.Store.Set(ctx, key, []byte(value)); err != nil {
		return errors.Wrapf(err, "saving %s", key)
	}
	return nil
}
