// Package config resolves client settings from flags, environment variables,
// and an optional TOML config file, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/cruzluna/reclaim-cli/internal/clierr"
)

// ─── Defaults ────────────────────────────────────────────────────────────────

const (
	// DefaultBaseURL is the production Reclaim API root.
	DefaultBaseURL = "https://api.app.reclaim.ai/api"

	// DefaultTimeoutSecs bounds one HTTP exchange.
	DefaultTimeoutSecs uint64 = 15
)

// Environment variables consulted when the matching flag is absent.
const (
	EnvAPIKey      = "RECLAIM_API_KEY"
	EnvBaseURL     = "RECLAIM_BASE_URL"
	EnvTimeoutSecs = "RECLAIM_TIMEOUT_SECS"
)

// ─── Settings ────────────────────────────────────────────────────────────────

// Settings holds the fully resolved client configuration for one invocation.
type Settings struct {
	// APIKey authenticates requests. May be empty here; the API client
	// rejects an empty key before any request is made.
	APIKey string

	// BaseURL is the API root every request path is joined onto.
	BaseURL string

	// TimeoutSecs bounds one HTTP exchange, in seconds.
	TimeoutSecs uint64
}

// fileConfig mirrors the optional ~/.config/reclaim/config.toml layout.
type fileConfig struct {
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url"`
	TimeoutSecs uint64 `toml:"timeout_secs"`
}

// Resolve builds Settings from the given flag overrides, the environment,
// and the config file. Zero values in overrides mean "flag not set".
func Resolve(overrides Settings) (Settings, error) {
	path, err := Path()
	if err != nil {
		// No resolvable home directory: flags, env, and defaults still work.
		path = ""
	}
	return resolveWithPath(overrides, path)
}

func resolveWithPath(overrides Settings, path string) (Settings, error) {
	file, err := loadFile(path)
	if err != nil {
		return Settings{}, err
	}

	settings := Settings{
		APIKey:      firstNonEmpty(overrides.APIKey, os.Getenv(EnvAPIKey), file.APIKey),
		BaseURL:     firstNonEmpty(overrides.BaseURL, os.Getenv(EnvBaseURL), file.BaseURL, DefaultBaseURL),
		TimeoutSecs: overrides.TimeoutSecs,
	}

	if settings.TimeoutSecs == 0 {
		if raw := os.Getenv(EnvTimeoutSecs); raw != "" {
			secs, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return Settings{}, &clierr.UsageError{
					Message: fmt.Sprintf("Invalid %s value %q: expected a whole number of seconds.", EnvTimeoutSecs, raw),
					Hint:    "Example: RECLAIM_TIMEOUT_SECS=30",
				}
			}
			settings.TimeoutSecs = secs
		}
	}
	if settings.TimeoutSecs == 0 {
		settings.TimeoutSecs = file.TimeoutSecs
	}
	if settings.TimeoutSecs == 0 {
		settings.TimeoutSecs = DefaultTimeoutSecs
	}

	return settings, nil
}

// loadFile reads the TOML config at path. A missing or unset path yields an
// empty config; a present but malformed file is a usage error so typos do
// not silently fall back to defaults.
func loadFile(path string) (fileConfig, error) {
	var file fileConfig
	if path == "" {
		return file, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, nil
		}
		return fileConfig{}, &clierr.UsageError{
			Message: fmt.Sprintf("Could not read config file %s: %v", path, err),
			Hint:    "Fix the file permissions or remove the file.",
		}
	}

	if err := toml.Unmarshal(data, &file); err != nil {
		return fileConfig{}, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid config file %s: %v", path, err),
			Hint:    "Expected TOML with optional keys api_key, base_url, timeout_secs.",
		}
	}

	return file, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
