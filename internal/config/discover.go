package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "seekarr", "config.toml")
}

// Discover finds the config file. Search order:
//  1. SEEKARR_CONFIG environment variable
//  2. ./config.toml
//  3. $XDG_CONFIG_HOME/seekarr/config.toml
//  4. /etc/seekarr/config.toml
//
// No file is not an error: the bot can run on environment variables alone,
// so an empty path is returned.
func Discover() (string, error) {
	if envPath := os.Getenv("SEEKARR_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("SEEKARR_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	for _, p := range []string{"./config.toml", DefaultPath(), "/etc/seekarr/config.toml"} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}
