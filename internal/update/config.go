package update

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type RuntimeConfig struct {
	DatabasePath         string `toml:"database_path"`
	SyncIntervalSeconds  int    `toml:"sync_interval_seconds"`
	DuePollSeconds       int    `toml:"due_poll_seconds"`
	SnoozeMinutes        int    `toml:"snooze_minutes"`
	DesktopNotifications bool   `toml:"desktop_notifications"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DatabasePath:         defaultDatabasePath(),
		SyncIntervalSeconds:  30,
		DuePollSeconds:       30,
		SnoozeMinutes:        15,
		DesktopNotifications: false,
	}
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "remindd.db"
	}
	return filepath.Join(home, ".remindd", "remindd.db")
}

// LoadRuntimeConfig layers the TOML file over the defaults. A missing file
// is not an error; a malformed one is.
func LoadRuntimeConfig(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// RuntimeConfigFromEnv applies REMINDD_* overrides on top of base. Env wins
// over file, file wins over defaults.
func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("REMINDD_DATABASE_PATH")); v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := getEnvInt("REMINDD_SYNC_INTERVAL_SECONDS"); ok && v > 0 {
		cfg.SyncIntervalSeconds = v
	}
	if v, ok := getEnvInt("REMINDD_DUE_POLL_SECONDS"); ok && v > 0 {
		cfg.DuePollSeconds = v
	}
	if v, ok := getEnvInt("REMINDD_SNOOZE_MINUTES"); ok && v > 0 {
		cfg.SnoozeMinutes = v
	}
	if v, ok := getEnvBool("REMINDD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	return cfg
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "remindd.toml"
	}
	return filepath.Join(home, ".config", "remindd", "config.toml")
}

func (c RuntimeConfig) SyncInterval() time.Duration {
	return time.Duration(c.SyncIntervalSeconds) * time.Second
}

func (c RuntimeConfig) DuePollInterval() time.Duration {
	return time.Duration(c.DuePollSeconds) * time.Second
}

func (c RuntimeConfig) SnoozeDuration() time.Duration {
	return time.Duration(c.SnoozeMinutes) * time.Minute
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
