// Package config loads the bot configuration from an optional TOML file and
// the environment.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Discord DiscordConfig  `toml:"discord"`
	Radarr  *BackendConfig `toml:"radarr"`
	Sonarr  *BackendConfig `toml:"sonarr"`
	Poll    PollConfig     `toml:"poll"`
	Gateway GatewayConfig  `toml:"gateway"`
	History HistoryConfig  `toml:"history"`
	Metrics MetricsConfig  `toml:"metrics"`
	Log     LogConfig      `toml:"log"`
}

type DiscordConfig struct {
	Token   string `toml:"token"`
	GuildID string `toml:"guild_id"` // empty registers commands globally
}

// BackendConfig is a Radarr or Sonarr instance and the slash commands that
// request from it.
type BackendConfig struct {
	URL      string    `toml:"url"`
	APIKey   string    `toml:"api_key"`
	Commands []Command `toml:"commands"`
}

// Command is one slash command: its name and where requests made with it
// are downloaded.
type Command struct {
	Name           string `toml:"name"`
	RootFolder     string `toml:"root_folder"`
	QualityProfile string `toml:"quality_profile"`
}

type PollConfig struct {
	Interval time.Duration `toml:"interval"`
}

type GatewayConfig struct {
	Timeout   time.Duration `toml:"timeout"`
	RateLimit float64       `toml:"rate_limit"` // requests per second, per backend
	Burst     int           `toml:"burst"`
}

type HistoryConfig struct {
	Path      string        `toml:"path"`
	Retention time.Duration `toml:"retention"`
}

type MetricsConfig struct {
	Addr string `toml:"addr"` // empty disables the metrics listener
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Defaults
const (
	DefaultPollInterval     = 5 * time.Second
	DefaultGatewayTimeout   = 30 * time.Second
	DefaultGatewayRateLimit = 5
	DefaultGatewayBurst     = 10
	DefaultHistoryPath      = "./data/seekarr.db"
	DefaultHistoryRetention = 30 * 24 * time.Hour
	DefaultLogLevel         = "info"
)

// Load reads the configuration file at path (optional, may be empty),
// overlays the process environment and validates the result.
func Load(path string) (*Config, error) {
	return LoadEnv(path, os.Environ())
}

// LoadEnv is Load with an explicit environment in os.Environ form.
func LoadEnv(path string, environ []string) (*Config, error) {
	env := envMap(environ)
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := &Config{}
	cfgErr := &ConfigError{Path: path}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		content, missing := substituteEnvVars(string(data), lookup)
		cfgErr.Missing = missing
		if _, err := toml.Decode(content, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfgErr.Errors = append(cfgErr.Errors, applyEnv(cfg, env)...)
	cfg.applyDefaults()
	cfgErr.Errors = append(cfgErr.Errors, cfg.Validate()...)

	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Poll.Interval == 0 {
		c.Poll.Interval = DefaultPollInterval
	}
	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = DefaultGatewayTimeout
	}
	if c.Gateway.RateLimit == 0 {
		c.Gateway.RateLimit = DefaultGatewayRateLimit
	}
	if c.Gateway.Burst == 0 {
		c.Gateway.Burst = DefaultGatewayBurst
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
	if c.History.Retention == 0 {
		c.History.Retention = DefaultHistoryRetention
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)

// substituteEnvVars replaces environment references in content. Unresolved
// references are left in place and reported in missing.
func substituteEnvVars(content string, lookup func(string) (string, bool)) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]

		value, ok := lookup(name)
		switch op {
		case "-":
			if !ok || value == "" {
				return arg
			}
		case "?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
		}
		return value
	})
	return result, missing
}

func envMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
