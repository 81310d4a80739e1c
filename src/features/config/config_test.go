package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	manager, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, manager.Get().Monitor.PollInterval)
	assert.Equal(t, path, manager.Path())

	// The written file loads back to the same values.
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, manager.Get(), again.Get())
}

func TestLoad_ParsesDurationsAndDocuments(t *testing.T) {
	path := writeConfig(t, `
logger:
  enabled: true
  level: debug
  format: json
monitor:
  poll_interval: 250ms
  documents:
    - name: rules
      path: ./rules.yaml
server:
  enabled: false
`)
	manager, err := Load(path)
	require.NoError(t, err)

	cfg := manager.Get()
	assert.Equal(t, 250*time.Millisecond, cfg.Monitor.PollInterval)
	require.Len(t, cfg.Monitor.Documents, 1)
	assert.Equal(t, "rules", cfg.Monitor.Documents[0].Name)
	assert.False(t, cfg.Monitor.Documents[0].Create)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := map[string]string{
		"missing poll interval": "monitor: {documents: []}\n",
		"bad log level":         "logger: {level: loud}\nmonitor: {poll_interval: 1s}\n",
		"document without path": "monitor: {poll_interval: 1s, documents: [{name: a}]}\n",
		"server without port":   "monitor: {poll_interval: 1s}\nserver: {enabled: true}\n",
		"not yaml":              "monitor: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("STRUCTWATCH_LOG_LEVEL", "warn")
	manager, err := Load(writeConfig(t, "logger: {level: info}\nmonitor: {poll_interval: 1s}\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", manager.Get().Logger.Level)
}

func TestManager_Reload(t *testing.T) {
	path := writeConfig(t, "monitor: {poll_interval: 1s}\n")
	manager, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("monitor: {poll_interval: 5s}\n"), 0o644))
	require.NoError(t, manager.Reload())
	assert.Equal(t, 5*time.Second, manager.Get().Monitor.PollInterval)

	// An invalid file keeps the previous configuration.
	require.NoError(t, os.WriteFile(path, []byte("monitor: {poll_interval: 0s}\n"), 0o644))
	assert.Error(t, manager.Reload())
	assert.Equal(t, 5*time.Second, manager.Get().Monitor.PollInterval)
}

func TestManager_SaveAndRender(t *testing.T) {
	manager := NewManager(createDefaultConfig(), "")
	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, manager.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, manager.Get(), loaded.Get())

	assert.Contains(t, manager.GetYAML(), "poll_interval: 1s")
	assert.Contains(t, manager.GetJSON(), `"Documents"`)
}
