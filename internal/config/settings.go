package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the weatherctl configuration loaded from YAML files.
type Settings struct {
	// Worker is the worker command; Args are passed to it.
	Worker string   `yaml:"worker,omitempty"`
	Args   []string `yaml:"args,omitempty"`

	// ForecastDays is the default day count for forecast requests (1-16).
	ForecastDays int `yaml:"forecast_days,omitempty"`

	// TimeoutSeconds bounds each request/response exchange.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// Verbose enables debug logging to stderr.
	Verbose bool `yaml:"verbose,omitempty"`
}

// GlobalSettingsFile returns the per-user settings path.
func GlobalSettingsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "weatherctl", "config.yaml")
}

// ProjectSettingsFile returns the per-directory settings path.
func ProjectSettingsFile(root string) string {
	return filepath.Join(root, "weatherctl.yaml")
}

// LoadSettings reads and merges global and project-local settings.
// Project settings override global settings. Missing files are not errors.
func LoadSettings(projectRoot string) (*Settings, error) {
	global, err := loadSettingsFile(GlobalSettingsFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global settings: %w", err)
	}

	project, err := loadSettingsFile(ProjectSettingsFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project settings: %w", err)
	}

	return mergeSettings(global, project), nil
}

// loadSettingsFile reads Settings from a YAML file. Returns zero Settings
// alongside the error when the file does not exist.
func loadSettingsFile(path string) (*Settings, error) {
	if path == "" {
		return &Settings{}, os.ErrNotExist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &s, nil
}

// mergeSettings overlays non-zero project values onto global values.
func mergeSettings(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}

	if project == nil {
		return global
	}

	result := *global

	if project.Worker != "" {
		result.Worker = project.Worker
		result.Args = project.Args
	}

	if project.ForecastDays != 0 {
		result.ForecastDays = project.ForecastDays
	}

	if project.TimeoutSeconds != 0 {
		result.TimeoutSeconds = project.TimeoutSeconds
	}

	if project.Verbose {
		result.Verbose = true
	}

	return &result
}
