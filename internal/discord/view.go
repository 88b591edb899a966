package discord

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/seekarr/internal/request"
	"github.com/vmunix/seekarr/pkg/arr"
)

// ViewTimeout is how long the components of a search result stay usable.
const ViewTimeout = 180 * time.Second

const customIDPrefix = "seekarr"

// Component kinds encoded in custom IDs.
const (
	kindPick    = "pick"
	kindSeasons = "seasons"
	kindRequest = "request"
)

// view is the state behind one search result message.
type view struct {
	id      string
	command Command
	movies  []arr.Movie
	series  []arr.Series

	selected   int // index into movies or series, -1 before a pick
	options    []request.SeasonOption
	seasons    []int
	allSeasons bool

	created time.Time
}

func (v view) movie() (arr.Movie, bool) {
	if v.selected < 0 || v.selected >= len(v.movies) {
		return arr.Movie{}, false
	}
	return v.movies[v.selected], true
}

func (v view) show() (arr.Series, bool) {
	if v.selected < 0 || v.selected >= len(v.series) {
		return arr.Series{}, false
	}
	return v.series[v.selected], true
}

// viewStore keeps search result state between interactions.
type viewStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	views map[string]view
}

func newViewStore(ttl time.Duration) *viewStore {
	return &viewStore{
		ttl:   ttl,
		now:   time.Now,
		views: make(map[string]view),
	}
}

// put stores v under a fresh ID and returns it. Expired views are dropped.
func (s *viewStore) put(v view) view {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, old := range s.views {
		if now.Sub(old.created) > s.ttl {
			delete(s.views, id)
		}
	}

	v.id = uuid.NewString()
	v.created = now
	s.views[v.id] = v
	return v
}

func (s *viewStore) get(id string) (view, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[id]
	if !ok || s.now().Sub(v.created) > s.ttl {
		delete(s.views, id)
		return view{}, ErrSessionExpired
	}
	return v, nil
}

// save replaces the state of an existing view. The view keeps its
// creation time.
func (s *viewStore) save(v view) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.views[v.id]; !ok {
		return ErrSessionExpired
	}
	s.views[v.id] = v
	return nil
}

func (s *viewStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func customID(kind, viewID string) string {
	return customIDPrefix + ":" + kind + ":" + viewID
}

func parseCustomID(id string) (kind, viewID string, err error) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 || parts[0] != customIDPrefix {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownComponent, id)
	}
	switch parts[1] {
	case kindPick, kindSeasons, kindRequest:
		return parts[1], parts[2], nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownComponent, id)
}
