package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "weatherctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return dir
}

func TestLoadSettings_ProjectFile(t *testing.T) {
	root := writeSettings(t, t.TempDir(), "worker: ./weather-worker\nforecast_days: 5\nverbose: true\n")

	s, err := LoadSettings(root)
	require.NoError(t, err)
	require.Equal(t, "./weather-worker", s.Worker)
	require.Equal(t, 5, s.ForecastDays)
	require.True(t, s.Verbose)
}

func TestLoadSettings_MissingFilesAreNotErrors(t *testing.T) {
	s, err := LoadSettings(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, &Settings{}, s)
}

func TestLoadSettings_MalformedYAML(t *testing.T) {
	root := writeSettings(t, t.TempDir(), "worker: [unclosed\n")

	_, err := LoadSettings(root)
	require.Error(t, err)
}

func TestMergeSettings_ProjectOverridesGlobal(t *testing.T) {
	global := &Settings{Worker: "global-worker", ForecastDays: 7, TimeoutSeconds: 30}
	project := &Settings{Worker: "project-worker", Args: []string{"--fast"}}

	merged := mergeSettings(global, project)
	require.Equal(t, "project-worker", merged.Worker)
	require.Equal(t, []string{"--fast"}, merged.Args)
	require.Equal(t, 7, merged.ForecastDays)
	require.Equal(t, 30, merged.TimeoutSeconds)
}

func TestMergeSettings_NilProject(t *testing.T) {
	global := &Settings{Worker: "w"}
	require.Equal(t, global, mergeSettings(global, nil))
}
