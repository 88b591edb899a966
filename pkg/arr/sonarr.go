package arr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
)

// defaultLanguageProfileID is the "English" profile every Sonarr v3 install ships with.
const defaultLanguageProfileID = 1

// Sonarr is a client for the Sonarr v3 API.
type Sonarr struct {
	*Client
}

// NewSonarr creates a Sonarr client.
func NewSonarr(baseURL, apiKey string, opts ...Option) *Sonarr {
	return &Sonarr{Client: NewClient("sonarr", baseURL, apiKey, opts...)}
}

// LookupSeries searches TVDB through Sonarr.
func (s *Sonarr) LookupSeries(ctx context.Context, term string) ([]Series, error) {
	var series []Series
	if err := s.get(ctx, "/api/v3/series/lookup", url.Values{"term": {term}}, &series); err != nil {
		return nil, fmt.Errorf("lookup series: %w", err)
	}
	return series, nil
}

// SeriesByTVDB returns the library record for a TVDB ID, including
// per-season statistics. Returns ErrNotFound if the series has not been added.
func (s *Sonarr) SeriesByTVDB(ctx context.Context, tvdbID int64) (*Series, error) {
	var series []Series
	query := url.Values{"tvdbId": {strconv.FormatInt(tvdbID, 10)}}
	if err := s.get(ctx, "/api/v3/series", query, &series); err != nil {
		return nil, fmt.Errorf("get series %d: %w", tvdbID, err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("get series %d: %w", tvdbID, ErrNotFound)
	}
	return &series[0], nil
}

// QualityProfiles lists the configured quality profiles.
func (s *Sonarr) QualityProfiles(ctx context.Context) ([]QualityProfile, error) {
	var profiles []QualityProfile
	if err := s.get(ctx, "/api/v3/qualityprofile", nil, &profiles); err != nil {
		return nil, fmt.Errorf("list quality profiles: %w", err)
	}
	return profiles, nil
}

// AddSeries adds a series with only the given seasons monitored and starts
// a search for their missing episodes.
func (s *Sonarr) AddSeries(ctx context.Context, series Series, qualityProfileID int, rootFolder string, seasons []int) (*Series, error) {
	series.ID = 0
	series.Monitored = true
	series.SeasonFolder = true
	series.QualityProfileID = qualityProfileID
	series.LanguageProfileID = defaultLanguageProfileID
	series.RootFolderPath = rootFolder
	series.Seasons = slices.Clone(series.Seasons)
	for i := range series.Seasons {
		series.Seasons[i].Monitored = slices.Contains(seasons, series.Seasons[i].SeasonNumber)
	}
	series.AddOptions = &SeriesAddOptions{
		IgnoreEpisodesWithFiles:  true,
		SearchForMissingEpisodes: true,
	}

	var added Series
	if err := s.do(ctx, http.MethodPost, "/api/v3/series", nil, series, &added); err != nil {
		return nil, fmt.Errorf("add series %q: %w", series.Title, err)
	}
	return &added, nil
}

// MonitorSeasons turns on monitoring for the given seasons of a series that is
// already in the library. The resource is round-tripped as a raw document so
// fields this package does not model survive the update.
func (s *Sonarr) MonitorSeasons(ctx context.Context, seriesID int64, seasons []int) error {
	path := "/api/v3/series/" + strconv.FormatInt(seriesID, 10)

	var doc map[string]any
	if err := s.get(ctx, path, nil, &doc); err != nil {
		return fmt.Errorf("get series %d: %w", seriesID, err)
	}

	doc["monitored"] = true
	if list, ok := doc["seasons"].([]any); ok {
		for _, entry := range list {
			season, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			number, ok := season["seasonNumber"].(float64)
			if ok && slices.Contains(seasons, int(number)) {
				season["monitored"] = true
			}
		}
	}

	if err := s.do(ctx, http.MethodPut, path, nil, doc, nil); err != nil {
		return fmt.Errorf("update series %d: %w", seriesID, err)
	}
	return nil
}

// SearchSeason queues a search for the missing episodes of one season.
func (s *Sonarr) SearchSeason(ctx context.Context, seriesID int64, season int) error {
	cmd := map[string]any{
		"name":         "SeasonSearch",
		"seriesId":     seriesID,
		"seasonNumber": season,
	}
	if err := s.do(ctx, http.MethodPost, "/api/v3/command", nil, cmd, nil); err != nil {
		return fmt.Errorf("search season %d of series %d: %w", season, seriesID, err)
	}
	return nil
}
