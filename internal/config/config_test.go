package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cruzluna/reclaim-cli/internal/clierr"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvTimeoutSecs, "")
	os.Unsetenv(EnvAPIKey)
	os.Unsetenv(EnvBaseURL)
	os.Unsetenv(EnvTimeoutSecs)
}

func TestResolveDefaults(t *testing.T) {
	clearEnv(t)

	settings, err := resolveWithPath(Settings{}, "")
	if err != nil {
		t.Fatalf("resolveWithPath: %v", err)
	}

	if settings.APIKey != "" {
		t.Fatalf("APIKey = %q, want empty", settings.APIKey)
	}
	if settings.BaseURL != DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", settings.BaseURL, DefaultBaseURL)
	}
	if settings.TimeoutSecs != DefaultTimeoutSecs {
		t.Fatalf("TimeoutSecs = %d, want %d", settings.TimeoutSecs, DefaultTimeoutSecs)
	}
}

func TestResolveFlagBeatsEnvAndFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "env-key")
	path := writeConfigFile(t, `api_key = "file-key"`)

	settings, err := resolveWithPath(Settings{APIKey: "flag-key"}, path)
	if err != nil {
		t.Fatalf("resolveWithPath: %v", err)
	}
	if settings.APIKey != "flag-key" {
		t.Fatalf("APIKey = %q, want flag-key", settings.APIKey)
	}
}

func TestResolveEnvBeatsFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "https://env.example.test/api")
	path := writeConfigFile(t, `base_url = "https://file.example.test/api"`)

	settings, err := resolveWithPath(Settings{}, path)
	if err != nil {
		t.Fatalf("resolveWithPath: %v", err)
	}
	if settings.BaseURL != "https://env.example.test/api" {
		t.Fatalf("BaseURL = %q, want env value", settings.BaseURL)
	}
}

func TestResolveReadsFileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
api_key = "file-key"
base_url = "https://file.example.test/api"
timeout_secs = 42
`)

	settings, err := resolveWithPath(Settings{}, path)
	if err != nil {
		t.Fatalf("resolveWithPath: %v", err)
	}

	if settings.APIKey != "file-key" {
		t.Fatalf("APIKey = %q, want file-key", settings.APIKey)
	}
	if settings.BaseURL != "https://file.example.test/api" {
		t.Fatalf("BaseURL = %q, want file value", settings.BaseURL)
	}
	if settings.TimeoutSecs != 42 {
		t.Fatalf("TimeoutSecs = %d, want 42", settings.TimeoutSecs)
	}
}

func TestResolveMissingFileIsNotAnError(t *testing.T) {
	clearEnv(t)

	settings, err := resolveWithPath(Settings{}, filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("resolveWithPath: %v", err)
	}
	if settings.BaseURL != DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want default", settings.BaseURL)
	}
}

func TestResolveMalformedFileIsUsageError(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `api_key = `)

	_, err := resolveWithPath(Settings{}, path)
	var usage *clierr.UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("resolveWithPath error = %v, want *clierr.UsageError", err)
	}
}

func TestResolveTimeoutEnvParse(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeoutSecs, "30")

	settings, err := resolveWithPath(Settings{}, "")
	if err != nil {
		t.Fatalf("resolveWithPath: %v", err)
	}
	if settings.TimeoutSecs != 30 {
		t.Fatalf("TimeoutSecs = %d, want 30", settings.TimeoutSecs)
	}
}

func TestResolveTimeoutEnvRejectsGarbage(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeoutSecs, "soon")

	_, err := resolveWithPath(Settings{}, "")
	var usage *clierr.UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("resolveWithPath error = %v, want *clierr.UsageError", err)
	}
}

func TestResolveFlagTimeoutBeatsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeoutSecs, "30")

	settings, err := resolveWithPath(Settings{TimeoutSecs: 5}, "")
	if err != nil {
		t.Fatalf("resolveWithPath: %v", err)
	}
	if settings.TimeoutSecs != 5 {
		t.Fatalf("TimeoutSecs = %d, want 5", settings.TimeoutSecs)
	}
}

func TestPathUsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	want := filepath.Join("/tmp/xdg-test", "reclaim", "config.toml")
	if path != want {
		t.Fatalf("Path = %q, want %q", path, want)
	}
}
