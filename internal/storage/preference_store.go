// internal/storage/preference_store.go
package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/Corphon/HookForge/internal/models"
)

// Stable preference keys. Each is stored as <key>.json in the preferences directory.
const (
	KeyBookAngles = "bookAngles"
	KeyTheme      = "theme"

	preferencesDir = "preferences"
)

// PreferenceStore persists the wizard data that survives restarts.
type PreferenceStore struct {
	files *FileStorage
}

// NewPreferenceStore wraps files.
func NewPreferenceStore(files *FileStorage) *PreferenceStore {
	return &PreferenceStore{files: files}
}

func fileFor(key string) string {
	return key + ".json"
}

// LoadAngles returns the stored angle set, or nil when none is stored.
func (p *PreferenceStore) LoadAngles() (models.AngleSet, error) {
	var angles models.AngleSet
	if err := p.files.LoadJSONFile(preferencesDir, fileFor(KeyBookAngles), &angles); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", KeyBookAngles, err)
	}
	return angles, nil
}

// SaveAngles stores angles; nil removes the stored value.
func (p *PreferenceStore) SaveAngles(angles models.AngleSet) error {
	if angles == nil {
		return p.files.DeleteFile(preferencesDir, fileFor(KeyBookAngles))
	}
	return p.files.SaveJSONFile(preferencesDir, fileFor(KeyBookAngles), angles)
}

// LoadTheme returns the stored theme, or "" when none is stored.
func (p *PreferenceStore) LoadTheme() (models.Theme, error) {
	var theme models.Theme
	if err := p.files.LoadJSONFile(preferencesDir, fileFor(KeyTheme), &theme); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("load %s: %w", KeyTheme, err)
	}
	if !theme.Valid() {
		return "", nil
	}
	return theme, nil
}

// SaveTheme stores theme.
func (p *PreferenceStore) SaveTheme(theme models.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return p.files.SaveJSONFile(preferencesDir, fileFor(KeyTheme), theme)
}
