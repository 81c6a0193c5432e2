package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Preferences are operator defaults stored in ~/.crow/preferences.json
type Preferences struct {
	// Start system used when --start is omitted
	DefaultStart string `json:"default_start,omitempty" validate:"omitempty,systemname"`

	// Station types used when discovering refuel targets and no --station-type is given
	StationTypes []string `json:"station_types,omitempty" validate:"dive,systemname"`
}

// PreferencesHandler manages loading and saving operator preferences
type PreferencesHandler struct {
	path string
}

// NewPreferencesHandler creates a handler rooted at the user's home directory
func NewPreferencesHandler() (*PreferencesHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewPreferencesHandlerAt(filepath.Join(homeDir, ".crow", "preferences.json"))
}

// NewPreferencesHandlerAt creates a handler for an explicit file path
func NewPreferencesHandlerAt(path string) (*PreferencesHandler, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	return &PreferencesHandler{path: path}, nil
}

// Load reads preferences from disk; a missing file yields empty preferences
func (h *PreferencesHandler) Load() (*Preferences, error) {
	data, err := os.ReadFile(h.path)
	if os.IsNotExist(err) {
		return &Preferences{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return &prefs, nil
}

// Save validates and writes preferences to disk
func (h *PreferencesHandler) Save(prefs *Preferences) error {
	if err := NewValidator().Validate(prefs); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// SetDefaultStart stores the default start system
func (h *PreferencesHandler) SetDefaultStart(name string) error {
	prefs, err := h.Load()
	if err != nil {
		return err
	}
	prefs.DefaultStart = name
	return h.Save(prefs)
}

// SetStationTypes stores the preferred station types
func (h *PreferencesHandler) SetStationTypes(types []string) error {
	prefs, err := h.Load()
	if err != nil {
		return err
	}
	prefs.StationTypes = types
	return h.Save(prefs)
}

// Clear removes every stored preference
func (h *PreferencesHandler) Clear() error {
	return h.Save(&Preferences{})
}

// Path returns the preferences file location
func (h *PreferencesHandler) Path() string {
	return h.path
}
