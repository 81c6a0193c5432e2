package cli

import (
	"fmt"
	"strings"

	"github.com/crow-router/crow/internal/infrastructure/config"
)

// resolveStart picks the start system from the flag, then the saved preference
func resolveStart(flag string, prefs *config.Preferences) (string, error) {
	if s := strings.TrimSpace(flag); s != "" {
		return s, nil
	}
	if prefs != nil && prefs.DefaultStart != "" {
		return prefs.DefaultStart, nil
	}
	return "", fmt.Errorf("no start system: use --start or set a default with 'crow config set-start'")
}

// resolveStationTypes picks station types from the flag, then preferences, then config
func resolveStationTypes(flag []string, prefs *config.Preferences, cfg *config.Config) []string {
	if len(flag) > 0 {
		return flag
	}
	if prefs != nil && len(prefs.StationTypes) > 0 {
		return prefs.StationTypes
	}
	return cfg.Routing.StationTypes
}
