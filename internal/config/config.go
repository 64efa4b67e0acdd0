package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton
// Should be called once at application startup
func Initialize() error {
	v = viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config search paths, in order of precedence:
	// 1. Walk up from CWD to find a project .plank/ directory, so commands
	//    work from subdirectories of the project.
	cwd, err := os.Getwd()
	if err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			plankDir := filepath.Join(dir, ".plank")
			if info, err := os.Stat(plankDir); err == nil && info.IsDir() {
				v.AddConfigPath(plankDir)
				break
			}
		}
		v.AddConfigPath(filepath.Join(cwd, ".plank"))
	}

	// 2. User config directory (~/.config/plank/)
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "plank"))
	}

	// 3. Home directory (~/.plank/)
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".plank"))
	}

	// Environment variables take precedence over config file
	// E.g., PLANK_SERVER, PLANK_BOARD, PLANK_NO_REALTIME
	v.SetEnvPrefix("PLANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("server", "http://localhost:3000")
	v.SetDefault("json", false)
	v.SetDefault("board", "")
	v.SetDefault("project", "")
	v.SetDefault("no-realtime", false)
	v.SetDefault("session-dir", "")
	v.SetDefault("watch-log", "")
	v.SetDefault("request-timeout", "30s")

	// Read config file if it exists (don't error if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetDuration retrieves a duration configuration value
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set sets a configuration value
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// SessionDir resolves the directory for on-device session state. Explicit
// config wins; otherwise it lives next to the user config.
func SessionDir() string {
	if dir := GetString("session-dir"); dir != "" {
		return dir
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "plank", "session")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".plank", "session")
}

// AllSettings returns all configuration settings as a map
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}
