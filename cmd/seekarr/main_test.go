package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/seekarr/internal/events"
	"github.com/vmunix/seekarr/internal/server"
	"github.com/vmunix/seekarr/pkg/arr"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, jsonOutput = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

// isolateEnv points config discovery at an empty directory.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SEEKARR_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, "RADARR_") || strings.HasPrefix(k, "SONARR_") {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "seekarr dev\n", out)
}

func TestConfigTest_Valid(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("SONARR_URL", "http://sonarr:8989")
	t.Setenv("SONARR_API_KEY", "sk")
	t.Setenv("SONARR_COMMAND_TV", "request-tv,/tv,Any")

	out, err := execute(t, "config", "test")
	require.NoError(t, err)
	assert.Contains(t, out, "Radarr:     disabled")
	assert.Contains(t, out, "/request-tv -> /tv (Any)")
	assert.Contains(t, out, "Configuration valid!")
}

func TestConfigTest_Invalid(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DISCORD_TOKEN", "")

	out, err := execute(t, "config", "test")
	require.Error(t, err)
	assert.Contains(t, out, "Validation errors:")
	assert.Contains(t, out, "discord.token: required")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init", path)
	assert.ErrorContains(t, err, "already exists")
}

func TestSearchCommand(t *testing.T) {
	isolateEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"title":"The Matrix Reloaded","year":2003,"tmdbId":604},
			{"id":1,"title":"The Matrix","year":1999,"tmdbId":603,"monitored":true,"hasFile":true}
		]`))
	}))
	defer server.Close()

	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("RADARR_URL", server.URL)
	t.Setenv("RADARR_API_KEY", "rk")
	t.Setenv("RADARR_COMMAND_MOVIES", "request-movie,/movies,Any")

	out, err := execute(t, "search", "movie", "the", "matrix")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 5)
	assert.Contains(t, lines[4], "The Matrix ")
	assert.Contains(t, lines[4], "available")
	assert.Contains(t, lines[5], "The Matrix Reloaded")

	_, err = execute(t, "search", "series", "anything")
	assert.ErrorContains(t, err, "Sonarr is not configured")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "-", movieStatus(arr.Movie{}))
	assert.Equal(t, "requested", movieStatus(arr.Movie{ID: 1, Monitored: true}))
	assert.Equal(t, "unmonitored", seriesStatus(arr.Series{ID: 1}))
}

func TestPrintHistory(t *testing.T) {
	now := time.Now()
	var buf bytes.Buffer
	printHistory(&buf, []events.RawEvent{
		{
			EventType:  events.EventAgentResolved,
			EntityType: events.EntitySeries,
			EntityID:   7,
			Payload:    `{"type":"agent.resolved","title":"Show","season":2,"channels":1,"watchers":3,"pending_for":"2h0m0s"}`,
			OccurredAt: now.Add(-2 * time.Hour),
		},
		{EventType: "unknown.type", EntityType: events.EntityMovie, EntityID: 1, Payload: `{}`, OccurredAt: now},
	}, now)
	assert.Contains(t, buf.String(), "2h ago")
	assert.Contains(t, buf.String(), "series/7")
	assert.Contains(t, buf.String(), "Show S2 sent to 3 watcher(s) after 2h0m0s")
	assert.Contains(t, buf.String(), "movie/1")

	buf.Reset()
	printHistory(&buf, nil, now)
	assert.Equal(t, "No events\n", buf.String())
}

func TestDescribeEvent(t *testing.T) {
	registry := events.DefaultRegistry()
	tests := []struct {
		name string
		raw  events.RawEvent
		want string
	}{
		{
			name: "request",
			raw: events.RawEvent{EventType: events.EventRequestSubmitted,
				Payload: `{"title":"Show","seasons":[1,3],"user_id":"U1","quality_profile":"Any"}`},
			want: "Show S1,3 requested by U1 (Any)",
		},
		{
			name: "watcher",
			raw:  events.RawEvent{EventType: events.EventWatcherAdded, Payload: `{"title":"The Matrix","user_id":"U2"}`},
			want: "The Matrix watched by U2",
		},
		{
			name: "failed notification",
			raw: events.RawEvent{EventType: events.EventNotificationFailed,
				Payload: `{"title":"Show","season":1,"channel_id":"C1","error":"forbidden"}`},
			want: "Show S1 to channel C1: forbidden",
		},
		{
			name: "bad payload",
			raw:  events.RawEvent{EventType: events.EventWatcherAdded, Payload: `not json`},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeEvent(registry, tt.raw))
		})
	}
}

func TestHistoryCommand_ForEntity(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("RADARR_URL", "http://radarr:7878")
	t.Setenv("RADARR_API_KEY", "rk")
	t.Setenv("RADARR_COMMAND_MOVIES", "request-movie,/movies,Any")
	t.Setenv("SEEKARR_HISTORY_PATH", dbPath)

	db, err := server.OpenHistory(dbPath)
	require.NoError(t, err)
	eventLog := events.NewEventLog(db)
	ctx := context.Background()
	_, err = eventLog.Append(ctx, &events.WatcherAdded{
		BaseEvent: events.NewBaseEvent(events.EventWatcherAdded, events.EntityMovie, 42),
		Title:     "The Matrix",
		UserID:    "U1",
	})
	require.NoError(t, err)
	_, err = eventLog.Append(ctx, &events.WatcherAdded{
		BaseEvent: events.NewBaseEvent(events.EventWatcherAdded, events.EntitySeries, 7),
		Title:     "Show",
		Season:    1,
		UserID:    "U2",
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := execute(t, "history", "--movie", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Recent Events (1)")
	assert.Contains(t, out, "The Matrix watched by U1")
	assert.NotContains(t, out, "Show")
}

func TestFormatTimeAgo(t *testing.T) {
	assert.Equal(t, "just now", formatTimeAgo(10*time.Second))
	assert.Equal(t, "5m ago", formatTimeAgo(5*time.Minute))
	assert.Equal(t, "3d ago", formatTimeAgo(72*time.Hour))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
