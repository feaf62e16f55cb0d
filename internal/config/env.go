package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of environment variables that override the config file.
const EnvPrefix = "SHIRUSHI"

// EnvConfig holds the environment overrides. Unset variables leave the file value alone.
// Env: SHIRUSHI_<NAME>, e.g. SHIRUSHI_SERVER_PORT.
type EnvConfig struct {
	Debug *bool `envconfig:"DEBUG"`

	ServerHost        string   `envconfig:"SERVER_HOST"`
	ServerPort        int      `envconfig:"SERVER_PORT"`
	ServerCORSOrigins []string `envconfig:"SERVER_CORS_ORIGINS"`

	StorageDatabasePath   string `envconfig:"STORAGE_DATABASE_PATH"`
	StorageBleveIndexPath string `envconfig:"STORAGE_BLEVE_INDEX_PATH"`

	SearchDefaultLimit int     `envconfig:"SEARCH_DEFAULT_LIMIT"`
	SearchMaxLimit     int     `envconfig:"SEARCH_MAX_LIMIT"`
	SearchTitleBoost   float64 `envconfig:"SEARCH_TITLE_BOOST"`

	// WatchDirectories is a comma-separated list of directories.
	WatchDirectories []string `envconfig:"WATCH_DIRECTORIES"`
	WatchRecursive   *bool    `envconfig:"WATCH_RECURSIVE"`

	BackupDirectory string        `envconfig:"BACKUP_DIRECTORY"`
	BackupKeep      int           `envconfig:"BACKUP_KEEP"`
	BackupInterval  time.Duration `envconfig:"BACKUP_INTERVAL"`
}

// LoadEnv reads SHIRUSHI_* environment variables.
func LoadEnv() (EnvConfig, error) {
	var env EnvConfig
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to load environment config: %w", err)
	}
	return env, nil
}

// ApplyEnv overrides cfg with the environment variables that are set.
func ApplyEnv(cfg *Config) error {
	env, err := LoadEnv()
	if err != nil {
		return err
	}
	env.apply(cfg)
	return nil
}

func (e EnvConfig) apply(cfg *Config) {
	if e.Debug != nil {
		cfg.Debug = *e.Debug
	}
	if e.ServerHost != "" {
		cfg.Server.Host = e.ServerHost
	}
	if e.ServerPort != 0 {
		cfg.Server.Port = e.ServerPort
	}
	if len(e.ServerCORSOrigins) > 0 {
		cfg.Server.CORSOrigins = e.ServerCORSOrigins
	}
	if e.StorageDatabasePath != "" {
		cfg.Storage.DatabasePath = e.StorageDatabasePath
	}
	if e.StorageBleveIndexPath != "" {
		cfg.Storage.BleveIndexPath = e.StorageBleveIndexPath
	}
	if e.SearchDefaultLimit != 0 {
		cfg.Search.DefaultLimit = e.SearchDefaultLimit
	}
	if e.SearchMaxLimit != 0 {
		cfg.Search.MaxLimit = e.SearchMaxLimit
	}
	if e.SearchTitleBoost != 0 {
		cfg.Search.TitleBoost = e.SearchTitleBoost
	}
	if len(e.WatchDirectories) > 0 {
		cfg.Watch.Directories = e.WatchDirectories
	}
	if e.WatchRecursive != nil {
		cfg.Watch.Recursive = e.WatchRecursive
	}
	if e.BackupDirectory != "" {
		cfg.Backup.Directory = e.BackupDirectory
	}
	if e.BackupKeep != 0 {
		cfg.Backup.Keep = e.BackupKeep
	}
	if e.BackupInterval != 0 {
		cfg.Backup.Interval = e.BackupInterval
	}
}
