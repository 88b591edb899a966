// Package arr provides clients for the Radarr and Sonarr v3 REST APIs.
package arr

// Image is a poster, fanart or banner reference.
type Image struct {
	CoverType string `json:"coverType"`
	URL       string `json:"url,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}

// Movie is a Radarr movie resource, either from lookup or from the library.
// A zero ID means the movie is not in the library yet.
type Movie struct {
	ID                  int64            `json:"id,omitempty"`
	Title               string           `json:"title"`
	Year                int              `json:"year,omitempty"`
	Overview            string           `json:"overview,omitempty"`
	TMDBID              int64            `json:"tmdbId"`
	IMDBID              string           `json:"imdbId,omitempty"`
	TitleSlug           string           `json:"titleSlug,omitempty"`
	Images              []Image          `json:"images,omitempty"`
	RemotePoster        string           `json:"remotePoster,omitempty"`
	Monitored           bool             `json:"monitored"`
	HasFile             bool             `json:"hasFile"`
	QualityProfileID    int              `json:"qualityProfileId,omitempty"`
	RootFolderPath      string           `json:"rootFolderPath,omitempty"`
	MinimumAvailability string           `json:"minimumAvailability,omitempty"`
	AddOptions          *MovieAddOptions `json:"addOptions,omitempty"`
}

// MovieAddOptions controls what Radarr does after adding a movie.
type MovieAddOptions struct {
	Monitor        string `json:"monitor,omitempty"` // "movieOnly"
	SearchForMovie bool   `json:"searchForMovie"`
}

// Series is a Sonarr series resource, either from lookup or from the library.
type Series struct {
	ID                int64             `json:"id,omitempty"`
	Title             string            `json:"title"`
	Year              int               `json:"year,omitempty"`
	Overview          string            `json:"overview,omitempty"`
	TVDBID            int64             `json:"tvdbId"`
	TitleSlug         string            `json:"titleSlug,omitempty"`
	Images            []Image           `json:"images,omitempty"`
	RemotePoster      string            `json:"remotePoster,omitempty"`
	Monitored         bool              `json:"monitored"`
	SeasonFolder      bool              `json:"seasonFolder"`
	Seasons           []Season          `json:"seasons"`
	QualityProfileID  int               `json:"qualityProfileId,omitempty"`
	LanguageProfileID int               `json:"languageProfileId,omitempty"`
	RootFolderPath    string            `json:"rootFolderPath,omitempty"`
	AddOptions        *SeriesAddOptions `json:"addOptions,omitempty"`
}

// Season is one season entry of a series.
type Season struct {
	SeasonNumber int               `json:"seasonNumber"`
	Monitored    bool              `json:"monitored"`
	Statistics   *SeasonStatistics `json:"statistics,omitempty"`
}

// SeasonStatistics summarizes episode file coverage for a season.
type SeasonStatistics struct {
	EpisodeFileCount  int     `json:"episodeFileCount"`
	EpisodeCount      int     `json:"episodeCount"`
	TotalEpisodeCount int     `json:"totalEpisodeCount"`
	PercentOfEpisodes float64 `json:"percentOfEpisodes"`
}

// SeriesAddOptions controls what Sonarr does after adding a series.
type SeriesAddOptions struct {
	IgnoreEpisodesWithFiles    bool `json:"ignoreEpisodesWithFiles"`
	IgnoreEpisodesWithoutFiles bool `json:"ignoreEpisodesWithoutFiles"`
	SearchForMissingEpisodes   bool `json:"searchForMissingEpisodes"`
}

// QualityProfile is a named quality profile.
type QualityProfile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Season returns the season with the given number, or nil.
func (s *Series) Season(number int) *Season {
	for i := range s.Seasons {
		if s.Seasons[i].SeasonNumber == number {
			return &s.Seasons[i]
		}
	}
	return nil
}

// Complete reports whether every episode of the season has a file.
// Missing statistics count as incomplete.
func (s Season) Complete() bool {
	return s.Statistics != nil && s.Statistics.PercentOfEpisodes >= 100
}

// Poster returns the best poster URL available for the movie.
func (m *Movie) Poster() string {
	return posterURL(m.RemotePoster, m.Images)
}

// Poster returns the best poster URL available for the series.
func (s *Series) Poster() string {
	return posterURL(s.RemotePoster, s.Images)
}

func posterURL(remote string, images []Image) string {
	if remote != "" {
		return remote
	}
	for _, img := range images {
		if img.CoverType == "poster" && img.RemoteURL != "" {
			return img.RemoteURL
		}
	}
	return ""
}
