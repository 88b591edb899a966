package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// applyEnv overlays environment variables on cfg. A backend counts as
// configured as soon as any RADARR_* or SONARR_* variable is set.
//
// Commands come from <BACKEND>_COMMAND_<ANY> = "name,root folder,quality
// profile" and replace commands from the file.
func applyEnv(cfg *Config, env map[string]string) []string {
	var errs []string

	if v, ok := env["DISCORD_TOKEN"]; ok {
		cfg.Discord.Token = v
	}
	if v, ok := env["GUILD_ID"]; ok {
		cfg.Discord.GuildID = v
	}

	cfg.Radarr, errs = applyBackendEnv("RADARR", cfg.Radarr, env, errs)
	cfg.Sonarr, errs = applyBackendEnv("SONARR", cfg.Sonarr, env, errs)

	if v, ok := env["SEEKARR_POLL_INTERVAL"]; ok {
		errs = parseDuration("SEEKARR_POLL_INTERVAL", v, &cfg.Poll.Interval, errs)
	}
	if v, ok := env["SEEKARR_GATEWAY_TIMEOUT"]; ok {
		errs = parseDuration("SEEKARR_GATEWAY_TIMEOUT", v, &cfg.Gateway.Timeout, errs)
	}
	if v, ok := env["SEEKARR_HISTORY_RETENTION"]; ok {
		errs = parseDuration("SEEKARR_HISTORY_RETENTION", v, &cfg.History.Retention, errs)
	}
	if v, ok := env["SEEKARR_HISTORY_PATH"]; ok {
		cfg.History.Path = v
	}
	if v, ok := env["SEEKARR_METRICS_ADDR"]; ok {
		cfg.Metrics.Addr = v
	}
	if v, ok := env["SEEKARR_LOG_LEVEL"]; ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	return errs
}

func applyBackendEnv(prefix string, backend *BackendConfig, env map[string]string, errs []string) (*BackendConfig, []string) {
	var commandKeys []string
	present := false
	for k := range env {
		if !strings.HasPrefix(k, prefix+"_") {
			continue
		}
		present = true
		if strings.HasPrefix(k, prefix+"_COMMAND_") {
			commandKeys = append(commandKeys, k)
		}
	}
	if !present {
		return backend, errs
	}
	if backend == nil {
		backend = &BackendConfig{}
	}

	if v, ok := env[prefix+"_URL"]; ok {
		backend.URL = v
	}
	if v, ok := env[prefix+"_API_KEY"]; ok {
		backend.APIKey = v
	}

	if len(commandKeys) > 0 {
		slices.Sort(commandKeys)
		backend.Commands = nil
		for _, k := range commandKeys {
			cmd, err := ParseCommand(env[k])
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", k, err))
				continue
			}
			backend.Commands = append(backend.Commands, cmd)
		}
	}
	return backend, errs
}

// ParseCommand parses "name,root folder,quality profile".
func ParseCommand(s string) (Command, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return Command{}, fmt.Errorf("expected \"name,root folder,quality profile\", got %q", s)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return Command{Name: fields[0], RootFolder: fields[1], QualityProfile: fields[2]}, nil
}

func parseDuration(key, value string, dst *time.Duration, errs []string) []string {
	// Bare numbers are seconds.
	if n, err := strconv.Atoi(value); err == nil {
		*dst = time.Duration(n) * time.Second
		return errs
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return append(errs, fmt.Sprintf("%s: invalid duration %q", key, value))
	}
	*dst = d
	return errs
}
