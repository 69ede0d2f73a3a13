package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables read by LoadSettings.
const (
	EnvConfigPath = "CONFIG_FILE_PATH"
	EnvOutputDir  = "OUTPUT_DIR"
	EnvLogFile    = "SAVESYNC_LOG_FILE"
)

const (
	defaultConfigDir  = "config"
	defaultConfigFile = "config.json"
	defaultOutputDir  = "output"
)

// Settings holds the per-run locations. It is built once at startup.
type Settings struct {
	// ConfigPath is the catalog file.
	ConfigPath string

	// OutputDir is the backup root. Entries live at OutputDir/tag[/subdir].
	OutputDir string

	// LogFile enables the operation log when non-empty.
	LogFile string
}

// LoadSettings reads settings from the environment, falling back to
// defaults relative to the working directory for unset or empty variables.
func LoadSettings() (Settings, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Settings{}, fmt.Errorf("resolving working directory: %w", err)
	}
	return SettingsFrom(cwd, os.Getenv), nil
}

// SettingsFrom builds Settings from a working directory and an env lookup.
func SettingsFrom(cwd string, getenv func(string) string) Settings {
	return Settings{
		ConfigPath: envOr(getenv, EnvConfigPath, filepath.Join(cwd, defaultConfigDir, defaultConfigFile)),
		OutputDir:  envOr(getenv, EnvOutputDir, filepath.Join(cwd, defaultOutputDir)),
		LogFile:    envOr(getenv, EnvLogFile, ""),
	}
}

// envOr returns the trimmed value of key, or fallback when it is empty.
func envOr(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}
