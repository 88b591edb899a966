// Package notify tracks pending requests and tells users when the content
// they asked for has finished downloading.
//
// A Registry holds one Agent per requested item. The Poller checks every
// agent against the catalog on a fixed interval and, once an item is
// complete, pings each watching user and drops the agent.
package notify

import (
	"context"
	"fmt"
)

// Source identifies the backend that owns an item.
type Source int

const (
	SourceMovie Source = iota + 1
	SourceSeries
)

func (s Source) String() string {
	switch s {
	case SourceMovie:
		return "movie"
	case SourceSeries:
		return "series"
	default:
		return "unknown"
	}
}

// Key identifies an Agent: a movie by TMDB id, or one season of a series by
// TVDB id and season number. Keys are comparable; build them with MovieKey
// or SeasonKey.
type Key struct {
	Source Source
	ID     int64
	Season int
}

// MovieKey returns the key for a movie.
func MovieKey(tmdbID int64) Key {
	return Key{Source: SourceMovie, ID: tmdbID}
}

// SeasonKey returns the key for one season of a series.
func SeasonKey(tvdbID int64, season int) Key {
	return Key{Source: SourceSeries, ID: tvdbID, Season: season}
}

func (k Key) String() string {
	if k.Source == SourceSeries {
		return fmt.Sprintf("series:%d:s%d", k.ID, k.Season)
	}
	return fmt.Sprintf("%s:%d", k.Source, k.ID)
}

// Valid reports whether k names a real item.
func (k Key) Valid() bool {
	switch k.Source {
	case SourceMovie:
		return k.ID > 0 && k.Season == 0
	case SourceSeries:
		return k.ID > 0 && k.Season >= 0
	default:
		return false
	}
}

// Checker answers completion questions against the catalog.
type Checker interface {
	// MovieHasFile reports whether a file has been imported for the movie.
	MovieHasFile(ctx context.Context, tmdbID int64) (bool, error)
	// SeasonComplete reports whether every episode of the season has a file.
	SeasonComplete(ctx context.Context, tvdbID int64, season int) (bool, error)
}

// Check asks c whether the item behind k is complete.
func (k Key) Check(ctx context.Context, c Checker) (bool, error) {
	switch k.Source {
	case SourceMovie:
		return c.MovieHasFile(ctx, k.ID)
	case SourceSeries:
		return c.SeasonComplete(ctx, k.ID, k.Season)
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidKey, k)
	}
}
