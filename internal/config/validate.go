package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// commandNamePattern is Discord's rule for slash command names, restricted
// to ASCII.
var commandNamePattern = regexp.MustCompile(`^[-_a-z0-9]{1,32}$`)

// reservedCommands are registered by the bot itself.
var reservedCommands = map[string]bool{"ping": true, "version": true}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Discord.Token == "" {
		errs = append(errs, "discord.token: required, set DISCORD_TOKEN to your Discord bot token")
	}
	if c.Discord.GuildID != "" {
		if _, err := strconv.ParseUint(c.Discord.GuildID, 10, 64); err != nil {
			errs = append(errs, fmt.Sprintf("discord.guild_id: must be a numeric id, got %q", c.Discord.GuildID))
		}
	}

	if c.Radarr == nil && c.Sonarr == nil {
		errs = append(errs, "at least one of radarr or sonarr must be configured")
	}

	seen := make(map[string]string)
	errs = validateBackend("radarr", "MOVIES request-movie,/movies,Any", c.Radarr, seen, errs)
	errs = validateBackend("sonarr", "TV request-tv,/tv,Any", c.Sonarr, seen, errs)

	if c.Poll.Interval < 0 {
		errs = append(errs, fmt.Sprintf("poll.interval: must be positive, got %s", c.Poll.Interval))
	}
	if c.Gateway.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("gateway.timeout: must be positive, got %s", c.Gateway.Timeout))
	}
	if c.Gateway.RateLimit < 0 || c.Gateway.Burst < 0 {
		errs = append(errs, "gateway.rate_limit, gateway.burst: must not be negative")
	}
	if c.History.Retention < 0 {
		errs = append(errs, fmt.Sprintf("history.retention: must not be negative, got %s", c.History.Retention))
	}
	if c.Log.Level != "" && !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}

func validateBackend(name, example string, b *BackendConfig, seen map[string]string, errs []string) []string {
	if b == nil {
		return errs
	}
	if b.URL == "" {
		errs = append(errs, fmt.Sprintf("%s.url: required when %s is configured", name, name))
	}
	if b.APIKey == "" {
		errs = append(errs, fmt.Sprintf("%s.api_key: required when %s is configured", name, name))
	}

	env := strings.ToUpper(name)
	if len(b.Commands) == 0 {
		errs = append(errs, fmt.Sprintf("%s.commands: no %s commands found, set at least one (example: %s_COMMAND_%s)", name, env, env, example))
	}
	for i, cmd := range b.Commands {
		field := fmt.Sprintf("%s.commands[%d]", name, i)
		switch {
		case !commandNamePattern.MatchString(cmd.Name):
			errs = append(errs, fmt.Sprintf("%s.name: %q must be 1-32 lowercase letters, digits, '-' or '_'", field, cmd.Name))
		case reservedCommands[cmd.Name]:
			errs = append(errs, fmt.Sprintf("%s.name: %q is a built-in command", field, cmd.Name))
		case seen[cmd.Name] != "":
			errs = append(errs, fmt.Sprintf("%s.name: %q already used by %s", field, cmd.Name, seen[cmd.Name]))
		default:
			seen[cmd.Name] = name
		}
		if cmd.RootFolder == "" {
			errs = append(errs, fmt.Sprintf("%s.root_folder: required", field))
		}
		if cmd.QualityProfile == "" {
			errs = append(errs, fmt.Sprintf("%s.quality_profile: required", field))
		}
	}
	return errs
}
