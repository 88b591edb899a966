// Package request decides what happens when a user picks a title: report it
// as available, add the user to an existing watch, or submit a new
// acquisition request and start watching it.
package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vmunix/seekarr/internal/events"
	"github.com/vmunix/seekarr/internal/notify"
	"github.com/vmunix/seekarr/pkg/arr"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Gateway

// Gateway is the part of the catalog the resolver drives.
type Gateway interface {
	MovieByTMDB(ctx context.Context, tmdbID int64) (*arr.Movie, error)
	SeriesByTVDB(ctx context.Context, tvdbID int64) (*arr.Series, error)
	QualityProfiles(ctx context.Context, src notify.Source) ([]arr.QualityProfile, error)
	RequestMovie(ctx context.Context, movie arr.Movie, qualityProfileID int, rootFolder string) error
	RequestSeries(ctx context.Context, series arr.Series, qualityProfileID int, rootFolder string, seasons []int) error
}

// Profile is where and in which quality a request is downloaded.
type Profile struct {
	QualityProfile string
	RootFolder     string
}

// State is the result of resolving a selection.
type State int

const (
	// StateNeedsConfirmation means the item is neither available nor
	// requested; the user must confirm before anything is submitted.
	StateNeedsConfirmation State = iota
	// StateAvailable means the content is already downloaded.
	StateAvailable
	// StateAlreadyRequested means the user joined an existing watch.
	StateAlreadyRequested
	// StateResumed means the item was monitored but nobody was watching it,
	// so a watch was created without a new request.
	StateResumed
	// StateRequested means a request was submitted and a watch created.
	StateRequested
	// StateFailed means the request could not be submitted.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNeedsConfirmation:
		return "needs_confirmation"
	case StateAvailable:
		return "available"
	case StateAlreadyRequested:
		return "already_requested"
	case StateResumed:
		return "resumed"
	case StateRequested:
		return "requested"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome describes what a resolver call did.
type Outcome struct {
	State   State
	Display notify.Display
	// Seasons are the seasons now being watched, for series.
	Seasons []int
	// Available are requested seasons that are already complete.
	Available []int
}

// SeasonOption is one selectable season of a series.
type SeasonOption struct {
	Number    int
	Monitored bool
	Complete  bool
}

// Resolver applies user selections to the catalog and the registry.
type Resolver struct {
	gateway  Gateway
	registry *notify.Registry
	events   notify.Publisher
	logger   *slog.Logger
}

// NewResolver creates a resolver. events may be nil.
func NewResolver(gateway Gateway, registry *notify.Registry, events notify.Publisher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		gateway:  gateway,
		registry: registry,
		events:   events,
		logger:   logger.With("component", "resolver"),
	}
}

// SelectMovie resolves a movie picked from search results.
func (r *Resolver) SelectMovie(ctx context.Context, movie arr.Movie, w notify.Watcher) (Outcome, error) {
	out := Outcome{Display: MovieDisplay(movie)}

	current, err := r.gateway.MovieByTMDB(ctx, movie.TMDBID)
	switch {
	case errors.Is(err, arr.ErrNotFound):
		out.State = StateNeedsConfirmation
		return out, nil
	case err != nil:
		out.State = StateFailed
		return out, fmt.Errorf("get movie state: %w", err)
	}

	switch {
	case current.HasFile:
		out.State = StateAvailable
	case current.Monitored:
		created, err := r.watch(ctx, notify.MovieKey(movie.TMDBID), w, out.Display)
		if err != nil {
			out.State = StateFailed
			return out, err
		}
		out.State = StateAlreadyRequested
		if created {
			out.State = StateResumed
		}
	default:
		out.State = StateNeedsConfirmation
	}
	return out, nil
}

// ConfirmMovie submits a movie request and starts watching it. If someone
// else already requested the movie the user joins their watch instead.
// On any gateway failure no watch is created.
func (r *Resolver) ConfirmMovie(ctx context.Context, movie arr.Movie, w notify.Watcher, p Profile) (Outcome, error) {
	key := notify.MovieKey(movie.TMDBID)
	out := Outcome{Display: MovieDisplay(movie)}

	if _, ok := r.registry.Find(key); ok {
		if _, err := r.watch(ctx, key, w, out.Display); err != nil {
			out.State = StateFailed
			return out, err
		}
		out.State = StateAlreadyRequested
		return out, nil
	}

	profileID, err := r.qualityProfileID(ctx, notify.SourceMovie, p.QualityProfile)
	if err != nil {
		out.State = StateFailed
		return out, err
	}
	if err := r.gateway.RequestMovie(ctx, movie, profileID, p.RootFolder); err != nil {
		out.State = StateFailed
		return out, fmt.Errorf("request movie: %w", err)
	}

	r.publish(ctx, &events.RequestSubmitted{
		BaseEvent:      events.NewBaseEvent(events.EventRequestSubmitted, events.EntityMovie, movie.TMDBID),
		Title:          movie.Title,
		QualityProfile: p.QualityProfile,
		RootFolder:     p.RootFolder,
		UserID:         w.UserID,
		ChannelID:      w.ChannelID,
	})
	r.logger.Info("movie requested", "title", movie.Title, "tmdb_id", movie.TMDBID, "user", w.UserID)

	if _, err := r.watch(ctx, key, w, out.Display); err != nil {
		out.State = StateFailed
		return out, err
	}
	out.State = StateRequested
	return out, nil
}

// SelectSeries returns the seasons a user can pick for a series, specials
// excluded. Seasons are flagged monitored and complete from the library
// record when the series is already in Sonarr.
func (r *Resolver) SelectSeries(ctx context.Context, series arr.Series) ([]SeasonOption, error) {
	seasons := series.Seasons
	current, err := r.gateway.SeriesByTVDB(ctx, series.TVDBID)
	switch {
	case errors.Is(err, arr.ErrNotFound):
		current = nil
	case err != nil:
		return nil, fmt.Errorf("get series state: %w", err)
	default:
		seasons = current.Seasons
	}

	options := make([]SeasonOption, 0, len(seasons))
	for _, s := range seasons {
		if s.SeasonNumber == 0 {
			continue
		}
		options = append(options, SeasonOption{
			Number:    s.SeasonNumber,
			Monitored: current != nil && s.Monitored,
			Complete:  current != nil && s.Complete(),
		})
	}
	slices.SortFunc(options, func(a, b SeasonOption) int { return a.Number - b.Number })
	return options, nil
}

// ConfirmSeasons requests the given seasons of a series and watches each one
// separately.
//
// Seasons that are already complete are reported in Outcome.Available and
// not watched. Seasons not yet monitored are requested with a single
// gateway call; if that call fails no watch is created at all.
func (r *Resolver) ConfirmSeasons(ctx context.Context, series arr.Series, seasons []int, w notify.Watcher, p Profile) (Outcome, error) {
	out := Outcome{Display: SeriesDisplay(series)}
	if len(seasons) == 0 {
		out.State = StateFailed
		return out, ErrNoSeasons
	}
	seasons = slices.Clone(seasons)
	slices.Sort(seasons)
	seasons = slices.Compact(seasons)

	current, err := r.gateway.SeriesByTVDB(ctx, series.TVDBID)
	switch {
	case errors.Is(err, arr.ErrNotFound):
		current = nil
	case err != nil:
		out.State = StateFailed
		return out, fmt.Errorf("get series state: %w", err)
	}

	var pending, unmonitored []int
	for _, n := range seasons {
		var s *arr.Season
		if current != nil {
			s = current.Season(n)
		}
		switch {
		case s != nil && s.Complete():
			out.Available = append(out.Available, n)
		case s != nil && s.Monitored:
			pending = append(pending, n)
		default:
			pending = append(pending, n)
			unmonitored = append(unmonitored, n)
		}
	}

	if len(pending) == 0 {
		out.State = StateAvailable
		return out, nil
	}

	if len(unmonitored) > 0 {
		profileID, err := r.qualityProfileID(ctx, notify.SourceSeries, p.QualityProfile)
		if err != nil {
			out.State = StateFailed
			return out, err
		}
		if err := r.gateway.RequestSeries(ctx, series, profileID, p.RootFolder, unmonitored); err != nil {
			out.State = StateFailed
			return out, fmt.Errorf("request series: %w", err)
		}

		r.publish(ctx, &events.RequestSubmitted{
			BaseEvent:      events.NewBaseEvent(events.EventRequestSubmitted, events.EntitySeries, series.TVDBID),
			Title:          series.Title,
			Seasons:        unmonitored,
			QualityProfile: p.QualityProfile,
			RootFolder:     p.RootFolder,
			UserID:         w.UserID,
			ChannelID:      w.ChannelID,
		})
		r.logger.Info("series requested", "title", series.Title, "tvdb_id", series.TVDBID, "seasons", unmonitored, "user", w.UserID)
	}

	anyCreated := false
	for _, n := range pending {
		created, err := r.watch(ctx, notify.SeasonKey(series.TVDBID, n), w, out.Display)
		if err != nil {
			out.State = StateFailed
			return out, err
		}
		anyCreated = anyCreated || created
	}
	out.Seasons = pending

	switch {
	case len(unmonitored) > 0:
		out.State = StateRequested
	case anyCreated:
		out.State = StateResumed
	default:
		out.State = StateAlreadyRequested
	}
	return out, nil
}

// watch registers w on key and records the event. It reports whether a new
// agent was created.
func (r *Resolver) watch(ctx context.Context, key notify.Key, w notify.Watcher, d notify.Display) (bool, error) {
	agent, created, err := r.registry.UpsertWatcher(key, w, d)
	if err != nil {
		return false, err
	}

	entity := events.EntityMovie
	if key.Source == notify.SourceSeries {
		entity = events.EntitySeries
	}
	r.publish(ctx, &events.WatcherAdded{
		BaseEvent: events.NewBaseEvent(events.EventWatcherAdded, entity, key.ID),
		Title:     d.Title,
		Season:    key.Season,
		UserID:    w.UserID,
		ChannelID: w.ChannelID,
		Created:   created,
	})
	r.logger.Debug("watcher added",
		"key", key.String(),
		"user", w.UserID,
		"channel", w.ChannelID,
		"created", created,
		"watchers", len(agent.Watchers()))
	return created, nil
}

func (r *Resolver) qualityProfileID(ctx context.Context, src notify.Source, name string) (int, error) {
	profiles, err := r.gateway.QualityProfiles(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("list quality profiles: %w", err)
	}
	for _, p := range profiles {
		if p.Name == name {
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownQualityProfile, name)
}

func (r *Resolver) publish(ctx context.Context, e events.Event) {
	if r.events == nil {
		return
	}
	if err := r.events.Publish(ctx, e); err != nil {
		r.logger.Warn("failed to publish event", "type", e.EventType(), "error", err)
	}
}
