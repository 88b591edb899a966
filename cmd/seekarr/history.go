package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/seekarr/internal/events"
	"github.com/vmunix/seekarr/internal/server"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent requests and notifications",
	Long: `Show recorded events, newest first.

With --movie or --series, show the full history of one title (oldest first)
by its TMDB or TVDB ID.`,
	Args: cobra.NoArgs,
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	historyCmd.Flags().String("type", "", "Only show one event type (e.g. request.submitted)")
	historyCmd.Flags().Int64("movie", 0, "Show every event for a movie by TMDB ID")
	historyCmd.Flags().Int64("series", 0, "Show every event for a series by TVDB ID")
	historyCmd.MarkFlagsMutuallyExclusive("movie", "series")
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	eventType, _ := cmd.Flags().GetString("type")
	movieID, _ := cmd.Flags().GetInt64("movie")
	seriesID, _ := cmd.Flags().GetInt64("series")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := server.OpenHistory(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	eventLog := events.NewEventLog(db)
	var recent []events.RawEvent
	switch {
	case movieID != 0:
		recent, err = eventLog.ForEntity(cmd.Context(), events.EntityMovie, movieID)
	case seriesID != 0:
		recent, err = eventLog.ForEntity(cmd.Context(), events.EntitySeries, seriesID)
	default:
		recent, err = eventLog.Recent(cmd.Context(), limit, eventType)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, recent)
	}
	printHistory(out, recent, time.Now())
	return nil
}

func printHistory(w io.Writer, recent []events.RawEvent, now time.Time) {
	if len(recent) == 0 {
		_, _ = fmt.Fprintln(w, "No events")
		return
	}

	registry := events.DefaultRegistry()
	_, _ = fmt.Fprintf(w, "Recent Events (%d):\n\n", len(recent))
	_, _ = fmt.Fprintf(w, "  %-12s %-22s %-15s %s\n", "TIME", "TYPE", "ENTITY", "DETAILS")
	_, _ = fmt.Fprintln(w, "  "+strings.Repeat("-", 80))
	for _, e := range recent {
		entity := fmt.Sprintf("%s/%d", e.EntityType, e.EntityID)
		_, _ = fmt.Fprintf(w, "  %-12s %-22s %-15s %s\n",
			formatTimeAgo(now.Sub(e.OccurredAt)), e.EventType, entity, describeEvent(registry, e))
	}
}

// describeEvent summarizes an event payload. Events that cannot be decoded
// are shown without details.
func describeEvent(registry *events.Registry, raw events.RawEvent) string {
	event, err := registry.Unmarshal(raw)
	if err != nil {
		return ""
	}

	switch e := event.(type) {
	case *events.RequestSubmitted:
		return fmt.Sprintf("%s%s requested by %s (%s)", e.Title, seasonList(e.Seasons), e.UserID, e.QualityProfile)
	case *events.WatcherAdded:
		return fmt.Sprintf("%s%s watched by %s", e.Title, seasonSuffix(e.Season), e.UserID)
	case *events.AgentResolved:
		return fmt.Sprintf("%s%s sent to %d watcher(s) after %s", e.Title, seasonSuffix(e.Season), e.Watchers, e.Pending)
	case *events.NotificationFailed:
		return fmt.Sprintf("%s%s to channel %s: %s", e.Title, seasonSuffix(e.Season), e.ChannelID, e.Error)
	default:
		return ""
	}
}

func seasonSuffix(season int) string {
	if season == 0 {
		return ""
	}
	return " S" + strconv.Itoa(season)
}

func seasonList(seasons []int) string {
	if len(seasons) == 0 {
		return ""
	}
	parts := make([]string, len(seasons))
	for i, s := range seasons {
		parts[i] = strconv.Itoa(s)
	}
	return " S" + strings.Join(parts, ",")
}

func formatTimeAgo(ago time.Duration) string {
	switch {
	case ago < time.Minute:
		return "just now"
	case ago < time.Hour:
		return fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(ago.Hours()/24))
	}
}
