package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadEnv_EnvironmentOnly(t *testing.T) {
	cfg, err := LoadEnv("", []string{
		"DISCORD_TOKEN=tok",
		"RADARR_URL=http://radarr:7878",
		"RADARR_API_KEY=rk",
		"RADARR_COMMAND_MOVIES=request-movie,/movies,HD-1080p",
		"RADARR_COMMAND_KIDS=request-kids, /kids , Any",
	})
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.Discord.Token)
	assert.Nil(t, cfg.Sonarr)
	require.NotNil(t, cfg.Radarr)
	assert.Equal(t, "http://radarr:7878", cfg.Radarr.URL)
	assert.Equal(t, []Command{
		{Name: "request-kids", RootFolder: "/kids", QualityProfile: "Any"},
		{Name: "request-movie", RootFolder: "/movies", QualityProfile: "HD-1080p"},
	}, cfg.Radarr.Commands)

	assert.Equal(t, DefaultPollInterval, cfg.Poll.Interval)
	assert.Equal(t, DefaultGatewayTimeout, cfg.Gateway.Timeout)
	assert.Equal(t, DefaultHistoryPath, cfg.History.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnv_File(t *testing.T) {
	path := writeConfig(t, `
[discord]
token = "${DISCORD_TOKEN}"
guild_id = "123456789"

[sonarr]
url = "http://sonarr:8989"
api_key = "sk"

[[sonarr.commands]]
name = "request-tv"
root_folder = "/tv"
quality_profile = "Any"

[poll]
interval = "10s"

[history]
path = "${DATA:-/var/lib/seekarr}/history.db"
`)

	cfg, err := LoadEnv(path, []string{"DISCORD_TOKEN=tok"})
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.Discord.Token)
	assert.Equal(t, "123456789", cfg.Discord.GuildID)
	assert.Nil(t, cfg.Radarr)
	require.NotNil(t, cfg.Sonarr)
	assert.Equal(t, "request-tv", cfg.Sonarr.Commands[0].Name)
	assert.Equal(t, 10*time.Second, cfg.Poll.Interval)
	assert.Equal(t, "/var/lib/seekarr/history.db", cfg.History.Path)
}

func TestLoadEnv_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[discord]
token = "file-token"

[radarr]
url = "http://file:7878"
api_key = "rk"

[[radarr.commands]]
name = "from-file"
root_folder = "/movies"
quality_profile = "Any"
`)

	cfg, err := LoadEnv(path, []string{
		"DISCORD_TOKEN=env-token",
		"RADARR_URL=http://env:7878",
		"SEEKARR_POLL_INTERVAL=2",
		"SEEKARR_LOG_LEVEL=DEBUG",
	})
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, "http://env:7878", cfg.Radarr.URL)
	assert.Equal(t, "from-file", cfg.Radarr.Commands[0].Name, "file commands kept without env commands")
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnv_MissingVariable(t *testing.T) {
	path := writeConfig(t, `
[discord]
token = "${DISCORD_TOKEN:?create a bot at discord.com/developers}"
`)

	_, err := LoadEnv(path, []string{"RADARR_URL=http://r", "RADARR_API_KEY=k", "RADARR_COMMAND_A=movies,/m,Any"})
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"DISCORD_TOKEN: create a bot at discord.com/developers"}, cfgErr.Missing)
}

func TestLoadEnv_BadCommand(t *testing.T) {
	_, err := LoadEnv("", []string{
		"DISCORD_TOKEN=tok",
		"SONARR_URL=http://s",
		"SONARR_API_KEY=k",
		"SONARR_COMMAND_TV=request-tv,/tv",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SONARR_COMMAND_TV")
	assert.Contains(t, err.Error(), "no SONARR commands found")
}

func TestLoadEnv_BadDuration(t *testing.T) {
	_, err := LoadEnv("", []string{
		"DISCORD_TOKEN=tok",
		"RADARR_URL=http://r",
		"RADARR_API_KEY=k",
		"RADARR_COMMAND_A=movies,/m,Any",
		"SEEKARR_POLL_INTERVAL=soon",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `SEEKARR_POLL_INTERVAL: invalid duration "soon"`)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("request-4k , /movies/4k, Ultra-HD")
	require.NoError(t, err)
	assert.Equal(t, Command{Name: "request-4k", RootFolder: "/movies/4k", QualityProfile: "Ultra-HD"}, cmd)

	_, err = ParseCommand("only-name")
	assert.Error(t, err)
}
