package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/seekarr/internal/catalog"
	"github.com/vmunix/seekarr/internal/server"
	"github.com/vmunix/seekarr/pkg/arr"
)

var searchCmd = &cobra.Command{
	Use:   "search <movie|series> <title>...",
	Short: "Search Radarr or Sonarr the way the bot does",
	Long: `Search Radarr or Sonarr the way the bot does.

Examples:
  seekarr search movie "The Matrix"
  seekarr search series Severance`,
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: []string{"movie", "series"},
	RunE:      runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

// searchResult is one row of search output.
type searchResult struct {
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	kind := args[0]
	query := strings.Join(args[1:], " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	radarr, sonarr := server.Backends(cfg, nil, newLogger(os.Stderr, "error"))
	gw := catalog.New(radarr, sonarr, nil)

	results, err := search(cmd.Context(), gw, kind, query)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, results)
	}
	printSearchResults(out, query, results)
	return nil
}

func search(ctx context.Context, gw *catalog.Gateway, kind, query string) ([]searchResult, error) {
	var results []searchResult
	switch kind {
	case "movie", "movies":
		movies, err := gw.SearchMovies(ctx, query)
		if err != nil {
			return nil, searchError("Radarr", err)
		}
		for _, m := range movies {
			results = append(results, searchResult{Title: m.Title, Year: m.Year, ID: m.TMDBID, Status: movieStatus(m)})
		}
	case "series", "tv":
		series, err := gw.SearchSeries(ctx, query)
		if err != nil {
			return nil, searchError("Sonarr", err)
		}
		for _, s := range series {
			results = append(results, searchResult{Title: s.Title, Year: s.Year, ID: s.TVDBID, Status: seriesStatus(s)})
		}
	default:
		return nil, fmt.Errorf("unknown kind %q, expected movie or series", kind)
	}
	return results, nil
}

func searchError(backend string, err error) error {
	if errors.Is(err, catalog.ErrBackendDisabled) {
		return fmt.Errorf("%s is not configured", backend)
	}
	return fmt.Errorf("search failed: %w", err)
}

func movieStatus(m arr.Movie) string {
	switch {
	case m.ID == 0:
		return "-"
	case m.HasFile:
		return "available"
	case m.Monitored:
		return "requested"
	default:
		return "unmonitored"
	}
}

func seriesStatus(s arr.Series) string {
	if s.ID == 0 {
		return "-"
	}
	if s.Monitored {
		return "monitored"
	}
	return "unmonitored"
}

func printSearchResults(w io.Writer, query string, results []searchResult) {
	if len(results) == 0 {
		_, _ = fmt.Fprintf(w, "No item found with the name %q\n", query)
		return
	}

	_, _ = fmt.Fprintf(w, "Results for %q (%d):\n\n", query, len(results))
	_, _ = fmt.Fprintf(w, "  %-3s %-44s %-6s %-10s %s\n", "#", "TITLE", "YEAR", "ID", "STATUS")
	_, _ = fmt.Fprintln(w, "  "+strings.Repeat("-", 76))
	for i, r := range results {
		year := ""
		if r.Year > 0 {
			year = fmt.Sprint(r.Year)
		}
		_, _ = fmt.Fprintf(w, "  %-3d %-44s %-6s %-10d %s\n", i+1, truncate(r.Title, 44), year, r.ID, r.Status)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
