package arr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Radarr is a client for the Radarr v3 API.
type Radarr struct {
	*Client
}

// NewRadarr creates a Radarr client.
func NewRadarr(baseURL, apiKey string, opts ...Option) *Radarr {
	return &Radarr{Client: NewClient("radarr", baseURL, apiKey, opts...)}
}

// LookupMovies searches TMDB through Radarr. Movies already in the library
// come back with a non-zero ID and their library state.
func (r *Radarr) LookupMovies(ctx context.Context, term string) ([]Movie, error) {
	var movies []Movie
	if err := r.get(ctx, "/api/v3/movie/lookup", url.Values{"term": {term}}, &movies); err != nil {
		return nil, fmt.Errorf("lookup movies: %w", err)
	}
	return movies, nil
}

// MovieByTMDB returns the library record for a TMDB ID.
// Returns ErrNotFound if the movie has not been added.
func (r *Radarr) MovieByTMDB(ctx context.Context, tmdbID int64) (*Movie, error) {
	var movies []Movie
	query := url.Values{"tmdbId": {strconv.FormatInt(tmdbID, 10)}}
	if err := r.get(ctx, "/api/v3/movie", query, &movies); err != nil {
		return nil, fmt.Errorf("get movie %d: %w", tmdbID, err)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("get movie %d: %w", tmdbID, ErrNotFound)
	}
	return &movies[0], nil
}

// QualityProfiles lists the configured quality profiles.
func (r *Radarr) QualityProfiles(ctx context.Context) ([]QualityProfile, error) {
	var profiles []QualityProfile
	if err := r.get(ctx, "/api/v3/qualityprofile", nil, &profiles); err != nil {
		return nil, fmt.Errorf("list quality profiles: %w", err)
	}
	return profiles, nil
}

// AddMovie adds a movie to the library, monitors it and starts a search.
func (r *Radarr) AddMovie(ctx context.Context, movie Movie, qualityProfileID int, rootFolder string) (*Movie, error) {
	movie.ID = 0
	movie.Monitored = true
	movie.QualityProfileID = qualityProfileID
	movie.RootFolderPath = rootFolder
	if movie.MinimumAvailability == "" {
		movie.MinimumAvailability = "announced"
	}
	movie.AddOptions = &MovieAddOptions{Monitor: "movieOnly", SearchForMovie: true}

	var added Movie
	if err := r.do(ctx, http.MethodPost, "/api/v3/movie", nil, movie, &added); err != nil {
		return nil, fmt.Errorf("add movie %q: %w", movie.Title, err)
	}
	return &added, nil
}

// MonitorMovie turns on monitoring for a movie already in the library. The
// resource is round-tripped as a raw document so fields this package does not
// model survive the update.
func (r *Radarr) MonitorMovie(ctx context.Context, movieID int64) error {
	path := "/api/v3/movie/" + strconv.FormatInt(movieID, 10)

	var doc map[string]any
	if err := r.get(ctx, path, nil, &doc); err != nil {
		return fmt.Errorf("get movie %d: %w", movieID, err)
	}
	doc["monitored"] = true

	if err := r.do(ctx, http.MethodPut, path, nil, doc, nil); err != nil {
		return fmt.Errorf("update movie %d: %w", movieID, err)
	}
	return nil
}

// SearchMovie queues a search for a movie in the library.
func (r *Radarr) SearchMovie(ctx context.Context, movieID int64) error {
	cmd := map[string]any{
		"name":     "MoviesSearch",
		"movieIds": []int64{movieID},
	}
	if err := r.do(ctx, http.MethodPost, "/api/v3/command", nil, cmd, nil); err != nil {
		return fmt.Errorf("search movie %d: %w", movieID, err)
	}
	return nil
}
