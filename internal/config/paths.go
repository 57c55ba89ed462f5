package config

import (
	"os"
	"path/filepath"
)

// configHome returns the base directory for user configuration files.
// Honors $XDG_CONFIG_HOME and falls back to ~/.config.
func configHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// Path returns the location of the reclaim config file. The file is
// optional; callers treat a missing file as an empty configuration.
func Path() (string, error) {
	base, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "reclaim", "config.toml"), nil
}
