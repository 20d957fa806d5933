package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(ConfigEnv, "/tmp/custom/dolist.yaml")
	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom/dolist.yaml", path)
}

func TestLoadConfigFile_MissingFileUsesDefaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	config, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config/dolist/data"), config.DataDir)
	assert.Equal(t, []int{15, 60, 1440}, config.Notifications.ReminderMinutes)
	assert.Equal(t, model.DefaultCapacityBytes, config.Storage.CapacityBytes)
	assert.Equal(t, "active", config.DefaultFilter)
}

func TestLoadConfigFile_OverridesAndFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_dir: /var/lib/dolist
default_filter: bogus
notifications:
  enable: false
  backend: terminal
  reminder_minutes: [5, 30]
  check_interval_seconds: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/dolist", config.DataDir)
	assert.False(t, config.Notifications.Enable)
	assert.Equal(t, "terminal", config.Notifications.Backend)
	assert.Equal(t, []int{5, 30}, config.Notifications.ReminderMinutes)
	assert.Equal(t, 60, config.Notifications.CheckIntervalSeconds)
	assert.Equal(t, "active", config.DefaultFilter)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notifications: [unclosed"), 0o644))

	_, err := LoadConfigFile(path)
	assert.Error(t, err)
}

func TestSaveConfigFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	config := model.DefaultConfig()
	config.DataDir = "/data/dolist"
	config.Sync.Bucket = "my-bucket"

	require.NoError(t, SaveConfigFile(config, path))

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/dolist", loaded.DataDir)
	assert.Equal(t, "my-bucket", loaded.Sync.Bucket)
}
