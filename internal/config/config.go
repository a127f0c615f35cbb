// Package config loads runtime settings from an optional YAML file and
// RADAR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix   = "RADAR"
	AppName     = "radar"
	defaultDB   = "radar.db"
	defaultLogs = "radar.log"
)

type RuntimeConfig struct {
	DBPath         string        `mapstructure:"db_path"`
	LogFile        string        `mapstructure:"log_file"`
	LogLevel       string        `mapstructure:"log_level"`
	Debug          bool          `mapstructure:"debug"`
	PrefsSaveDelay time.Duration `mapstructure:"prefs_save_delay"`
	ActivityFlash  time.Duration `mapstructure:"activity_flash"`
	RefocusDelay   time.Duration `mapstructure:"refocus_delay"`
	WatchStore     bool          `mapstructure:"watch_store"`
	EventBuffer    int           `mapstructure:"event_buffer"`
	LoginItemName  string        `mapstructure:"login_item_name"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:         filepath.Join(DataDir(), defaultDB),
		LogLevel:       "info",
		PrefsSaveDelay: 500 * time.Millisecond,
		ActivityFlash:  100 * time.Millisecond,
		RefocusDelay:   500 * time.Millisecond,
		WatchStore:     true,
		EventBuffer:    64,
		LoginItemName:  AppName,
	}
}

// DataDir is where the database lives unless db_path says otherwise.
func DataDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/radar/config.yaml or its
// platform equivalent.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "config.yaml")
}

// Load merges defaults, the YAML file at path (or the default location when
// path is empty) and the environment. A missing default file is not an
// error; a missing explicit file is.
func Load(path string) (RuntimeConfig, error) {
	base := DefaultRuntimeConfig()
	v := viper.New()
	v.SetDefault("db_path", base.DBPath)
	v.SetDefault("log_file", base.LogFile)
	v.SetDefault("log_level", base.LogLevel)
	v.SetDefault("debug", base.Debug)
	v.SetDefault("prefs_save_delay", base.PrefsSaveDelay)
	v.SetDefault("activity_flash", base.ActivityFlash)
	v.SetDefault("refocus_delay", base.RefocusDelay)
	v.SetDefault("watch_store", base.WatchStore)
	v.SetDefault("event_buffer", base.EventBuffer)
	v.SetDefault("login_item_name", base.LoginItemName)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return RuntimeConfig{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return RuntimeConfig{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg.withFallbacks(base), nil
}

func (c RuntimeConfig) withFallbacks(base RuntimeConfig) RuntimeConfig {
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = base.DBPath
	}
	if strings.TrimSpace(c.LogFile) == "" {
		c.LogFile = filepath.Join(filepath.Dir(c.DBPath), defaultLogs)
	}
	if c.Debug {
		c.LogLevel = "debug"
	}
	if c.PrefsSaveDelay <= 0 {
		c.PrefsSaveDelay = base.PrefsSaveDelay
	}
	if c.ActivityFlash <= 0 {
		c.ActivityFlash = base.ActivityFlash
	}
	if c.RefocusDelay <= 0 {
		c.RefocusDelay = base.RefocusDelay
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = base.EventBuffer
	}
	if strings.TrimSpace(c.LoginItemName) == "" {
		c.LoginItemName = base.LoginItemName
	}
	return c
}
