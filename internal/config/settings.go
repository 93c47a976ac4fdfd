package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/handiism/beatmap-downloader/internal/logger"
)

// Environment variables that override values from the settings file.
const (
	EnvContentPath    = "BEATMAP_CONTENT_PATH"
	EnvCatalogURL     = "BEATMAP_CATALOG_URL"
	EnvUserAgent      = "BEATMAP_USER_AGENT"
	EnvRequestTimeout = "BEATMAP_REQUEST_TIMEOUT"
	EnvMaxConcurrent  = "BEATMAP_MAX_CONCURRENT"
	EnvLogLevel       = "BEATMAP_LOG_LEVEL"
	EnvLogFile        = "BEATMAP_LOG_FILE"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	ContentPath            string `json:"content_path"`
	CatalogURL             string `json:"catalog_url"`
	UserAgent              string `json:"user_agent"`
	RequestTimeoutSeconds  int    `json:"request_timeout_seconds"`
	MaxConcurrentDownloads int    `json:"max_concurrent_downloads"`
	OverwriteExisting      bool   `json:"overwrite_existing"`

	// Index settings
	WatchContentPath bool `json:"watch_content_path"`

	// Log settings
	LogLevel      string `json:"log_level"`
	LogFile       string `json:"log_file"`
	LogMaxSizeMB  int    `json:"log_max_size_mb"`
	LogMaxBackups int    `json:"log_max_backups"`
	LogMaxAgeDays int    `json:"log_max_age_days"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		ContentPath:            filepath.Join(homeDir, "BeatSaber", "Beat Saber_Data", "CustomLevels"),
		CatalogURL:             "https://api.beatsaver.com",
		UserAgent:              "beatmap-downloader/1.0",
		RequestTimeoutSeconds:  60,
		MaxConcurrentDownloads: 4,
		OverwriteExisting:      false,

		WatchContentPath: false,

		LogLevel:      "info",
		LogFile:       "",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error; defaults are returned instead. Environment
// overrides are not applied; see ApplyEnv.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, errors.Wrapf(err, "read settings %s", path)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrapf(err, "parse settings %s", path)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from the environment.
//
// envFiles are loaded first with godotenv; variables already set in the
// process environment win over values from those files. Missing env files
// are ignored. Malformed numeric values are reported as errors.
func (s *Settings) ApplyEnv(envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return errors.Wrapf(err, "load env file %s", f)
		}
	}

	if v, ok := os.LookupEnv(EnvContentPath); ok {
		s.ContentPath = v
	}
	if v, ok := os.LookupEnv(EnvCatalogURL); ok {
		s.CatalogURL = v
	}
	if v, ok := os.LookupEnv(EnvUserAgent); ok {
		s.UserAgent = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		s.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		s.LogFile = v
	}
	if v, ok := os.LookupEnv(EnvRequestTimeout); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvRequestTimeout)
		}
		s.RequestTimeoutSeconds = n
	}
	if v, ok := os.LookupEnv(EnvMaxConcurrent); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvMaxConcurrent)
		}
		s.MaxConcurrentDownloads = n
	}

	return nil
}

// RequestTimeout returns the per-request timeout.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// ToLoggerConfig converts settings to a logger.Config.
func (s *Settings) ToLoggerConfig(console bool) logger.Config {
	return logger.Config{
		Level:      logger.Level(s.LogLevel),
		Console:    console,
		FilePath:   s.LogFile,
		MaxSize:    s.LogMaxSizeMB,
		MaxBackups: s.LogMaxBackups,
		MaxAge:     s.LogMaxAgeDays,
	}
}
