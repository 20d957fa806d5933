package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nakachan-ing/dolist/internal/model"
	"gopkg.in/yaml.v3"
)

const ConfigEnv = "DOLIST_CONFIG"

func GetConfigPath() (string, error) {
	if customConfig := os.Getenv(ConfigEnv); customConfig != "" {
		return customConfig, nil
	}

	var configPath string

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			configPath = filepath.Join(appData, "dolist", "config.yaml")
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to determine home directory: %w", err)
			}
			configPath = filepath.Join(homeDir, "AppData", "Roaming", "dolist", "config.yaml")
		}

	default: // macOS / Linux
		configDir, err := os.UserConfigDir()
		if err != nil {
			homeDir, homeErr := os.UserHomeDir()
			if homeErr != nil {
				return "", fmt.Errorf("failed to determine home directory: %w", homeErr)
			}
			configPath = filepath.Join(homeDir, ".dolist", "config.yaml")
			log.Printf("⚠️ Failed to get user config directory, using fallback: %s", configPath)
		} else {
			configPath = filepath.Join(configDir, "dolist", "config.yaml")
		}
	}

	return configPath, nil
}

// Expand `~` to the home directory (Windows included)
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("⚠️ Failed to get home directory: %v", err)
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// LoadConfig reads config.yaml on top of the defaults. A missing file is not
// an error: the defaults are used as they are.
func LoadConfig() (*model.Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFile(configPath)
}

func LoadConfigFile(configPath string) (*model.Config, error) {
	config := model.DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file (%s): %w", configPath, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if len(config.Notifications.ReminderMinutes) == 0 {
		config.Notifications.ReminderMinutes = append([]int(nil), model.DefaultReminderMinutes...)
	}
	if config.Notifications.CheckIntervalSeconds <= 0 {
		config.Notifications.CheckIntervalSeconds = 60
	}
	if config.Storage.CapacityBytes <= 0 {
		config.Storage.CapacityBytes = model.DefaultCapacityBytes
	}
	if _, err := model.ParseFilter(config.DefaultFilter); err != nil {
		log.Printf("⚠️ %v, using %q", err, model.FilterActive)
		config.DefaultFilter = string(model.FilterActive)
	}

	config.DataDir = expandHomeDir(config.DataDir)
	config.ExportDir = expandHomeDir(config.ExportDir)

	return &config, nil
}

func SaveConfig(config model.Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveConfigFile(config, configPath)
}

func SaveConfigFile(config model.Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to convert config to YAML: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file (%s): %w", configPath, err)
	}
	return nil
}
