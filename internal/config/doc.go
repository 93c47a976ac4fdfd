// Package config provides configuration management for beatmap-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment overrides, optionally read from a .env file
//   - Conversion to logger.Config for the logging setup
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Installs into ~/BeatSaber/Beat Saber_Data/CustomLevels
//	// Talks to https://api.beatsaver.com
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	err = settings.ApplyEnv(".env")
//
// # Environment
//
// BEATMAP_CONTENT_PATH, BEATMAP_CATALOG_URL, BEATMAP_USER_AGENT,
// BEATMAP_REQUEST_TIMEOUT, BEATMAP_MAX_CONCURRENT, BEATMAP_LOG_LEVEL and
// BEATMAP_LOG_FILE override the matching settings.
package config
