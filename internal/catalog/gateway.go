// Package catalog is the bot's view of Radarr and Sonarr: ranked search,
// current library state, acquisition requests and completion checks.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/seekarr/internal/notify"
	"github.com/vmunix/seekarr/pkg/arr"
	"github.com/vmunix/seekarr/pkg/title"
)

// MaxResults is the most search results shown to a user.
const MaxResults = 25

// Gateway wraps the configured backends. Either may be nil.
type Gateway struct {
	radarr *arr.Radarr
	sonarr *arr.Sonarr
	logger *slog.Logger
}

// New creates a gateway. Pass nil for a backend that is not configured.
func New(radarr *arr.Radarr, sonarr *arr.Sonarr, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		radarr: radarr,
		sonarr: sonarr,
		logger: logger.With("component", "catalog"),
	}
}

var _ notify.Checker = (*Gateway)(nil)

// SearchMovies looks up movies by title, best matches first.
func (g *Gateway) SearchMovies(ctx context.Context, term string) ([]arr.Movie, error) {
	if g.radarr == nil {
		return nil, fmt.Errorf("search movies: %w", ErrBackendDisabled)
	}
	movies, err := g.radarr.LookupMovies(ctx, title.Query(term))
	if err != nil {
		return nil, err
	}
	return title.Rank(term, movies, func(m arr.Movie) string { return m.Title }, MaxResults), nil
}

// SearchSeries looks up series by title, best matches first.
func (g *Gateway) SearchSeries(ctx context.Context, term string) ([]arr.Series, error) {
	if g.sonarr == nil {
		return nil, fmt.Errorf("search series: %w", ErrBackendDisabled)
	}
	series, err := g.sonarr.LookupSeries(ctx, title.Query(term))
	if err != nil {
		return nil, err
	}
	return title.Rank(term, series, func(s arr.Series) string { return s.Title }, MaxResults), nil
}

// MovieByTMDB returns the library record of a movie, or arr.ErrNotFound.
func (g *Gateway) MovieByTMDB(ctx context.Context, tmdbID int64) (*arr.Movie, error) {
	if g.radarr == nil {
		return nil, fmt.Errorf("get movie: %w", ErrBackendDisabled)
	}
	return g.radarr.MovieByTMDB(ctx, tmdbID)
}

// SeriesByTVDB returns the library record of a series, or arr.ErrNotFound.
func (g *Gateway) SeriesByTVDB(ctx context.Context, tvdbID int64) (*arr.Series, error) {
	if g.sonarr == nil {
		return nil, fmt.Errorf("get series: %w", ErrBackendDisabled)
	}
	return g.sonarr.SeriesByTVDB(ctx, tvdbID)
}

// QualityProfiles lists the quality profiles of the backend for src.
func (g *Gateway) QualityProfiles(ctx context.Context, src notify.Source) ([]arr.QualityProfile, error) {
	switch {
	case src == notify.SourceMovie && g.radarr != nil:
		return g.radarr.QualityProfiles(ctx)
	case src == notify.SourceSeries && g.sonarr != nil:
		return g.sonarr.QualityProfiles(ctx)
	default:
		return nil, fmt.Errorf("quality profiles for %s: %w", src, ErrBackendDisabled)
	}
}

// RequestMovie makes Radarr fetch a movie: a movie not yet in the library is
// added and searched; an existing one is switched to monitored and searched.
func (g *Gateway) RequestMovie(ctx context.Context, movie arr.Movie, qualityProfileID int, rootFolder string) error {
	if g.radarr == nil {
		return fmt.Errorf("request movie: %w", ErrBackendDisabled)
	}

	existing, err := g.radarr.MovieByTMDB(ctx, movie.TMDBID)
	switch {
	case errors.Is(err, arr.ErrNotFound):
		added, err := g.radarr.AddMovie(ctx, movie, qualityProfileID, rootFolder)
		if err != nil {
			return err
		}
		g.logger.Info("movie added", "title", added.Title, "tmdb_id", added.TMDBID, "root", rootFolder)
		return nil
	case err != nil:
		return err
	}

	if err := g.radarr.MonitorMovie(ctx, existing.ID); err != nil {
		return err
	}
	// Once monitored the movie counts as requested; search errors are logged.
	if err := g.radarr.SearchMovie(ctx, existing.ID); err != nil {
		g.logger.Warn("movie search failed", "title", existing.Title, "tmdb_id", existing.TMDBID, "error", err)
	}
	g.logger.Info("movie monitored", "title", existing.Title, "tmdb_id", existing.TMDBID)
	return nil
}

// RequestSeries makes Sonarr fetch the given seasons with one request: a
// series not yet in the library is added with only those seasons monitored;
// an existing one has them switched on and searched.
func (g *Gateway) RequestSeries(ctx context.Context, series arr.Series, qualityProfileID int, rootFolder string, seasons []int) error {
	if g.sonarr == nil {
		return fmt.Errorf("request series: %w", ErrBackendDisabled)
	}

	existing, err := g.sonarr.SeriesByTVDB(ctx, series.TVDBID)
	switch {
	case errors.Is(err, arr.ErrNotFound):
		added, err := g.sonarr.AddSeries(ctx, series, qualityProfileID, rootFolder, seasons)
		if err != nil {
			return err
		}
		g.logger.Info("series added", "title", added.Title, "tvdb_id", added.TVDBID, "seasons", seasons)
		return nil
	case err != nil:
		return err
	}

	if err := g.sonarr.MonitorSeasons(ctx, existing.ID, seasons); err != nil {
		return err
	}
	// Once monitored the seasons count as requested; search errors are logged.
	for _, season := range seasons {
		if err := g.sonarr.SearchSeason(ctx, existing.ID, season); err != nil {
			g.logger.Warn("season search failed", "title", existing.Title, "tvdb_id", existing.TVDBID, "season", season, "error", err)
		}
	}
	g.logger.Info("series updated", "title", existing.Title, "tvdb_id", existing.TVDBID, "seasons", seasons)
	return nil
}

// MovieHasFile reports whether Radarr has a file for the movie. A movie that
// is not in the library is not complete.
func (g *Gateway) MovieHasFile(ctx context.Context, tmdbID int64) (bool, error) {
	movie, err := g.MovieByTMDB(ctx, tmdbID)
	if errors.Is(err, arr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return movie.HasFile, nil
}

// SeasonComplete reports whether every episode of the season has a file.
// Missing statistics count as incomplete.
func (g *Gateway) SeasonComplete(ctx context.Context, tvdbID int64, season int) (bool, error) {
	series, err := g.SeriesByTVDB(ctx, tvdbID)
	if errors.Is(err, arr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s := series.Season(season)
	return s != nil && s.Complete(), nil
}
