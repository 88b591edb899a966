package notify

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"
)

// Registry is the set of pending agents, at most one per Key.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	agents map[Key]*Agent
	seq    uint64
	now    func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[Key]*Agent),
		now:    time.Now,
	}
}

// Find returns the agent for key, if any.
func (r *Registry) Find(key Key) (Agent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[key]
	if !ok {
		return Agent{}, false
	}
	return a.clone(), true
}

// UpsertWatcher adds w to the agent for key, creating the agent with display
// if none exists. Adding a watcher that is already present is a no-op.
// The returned bool reports whether a new agent was created; display is
// ignored when merging into an existing one.
func (r *Registry) UpsertWatcher(key Key, w Watcher, display Display) (Agent, bool, error) {
	if !key.Valid() {
		return Agent{}, false, fmt.Errorf("%w: %v", ErrInvalidKey, key)
	}
	if w.ChannelID == "" || w.UserID == "" {
		return Agent{}, false, fmt.Errorf("%w: channel %q user %q", ErrInvalidWatcher, w.ChannelID, w.UserID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[key]
	if !ok {
		r.seq++
		a = newAgent(key, display, r.seq, r.now())
		r.agents[key] = a
	}
	a.addWatcher(w)
	return a.clone(), !ok, nil
}

// All returns a lazy sequence over the current agents, oldest first.
//
// Each range over the sequence takes a fresh look at the registry. Agents
// removed while the range is in progress are skipped; agents added during
// it are picked up by the next range.
func (r *Registry) All() iter.Seq[Agent] {
	return func(yield func(Agent) bool) {
		for _, key := range r.keys() {
			a, ok := r.Find(key)
			if !ok {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

func (r *Registry) keys() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()

	agents := make([]*Agent, 0, len(r.agents))
	for _, a := range r.agents {
		agents = append(agents, a)
	}
	slices.SortFunc(agents, func(a, b *Agent) int { return cmp.Compare(a.seq, b.seq) })

	keys := make([]Key, len(agents))
	for i, a := range agents {
		keys[i] = a.Key
	}
	return keys
}

// Remove deletes the agent for key. It reports whether one was present;
// removing a missing key is a no-op.
func (r *Registry) Remove(key Key) bool {
	_, ok := r.Take(key)
	return ok
}

// Take removes the agent for key and returns it as it was at removal time,
// including any watchers merged in since it was last read.
func (r *Registry) Take(key Key) (Agent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[key]
	if !ok {
		return Agent{}, false
	}
	delete(r.agents, key)
	return a.clone(), true
}

// Len returns the number of pending agents.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.agents)
}
