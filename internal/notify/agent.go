package notify

import (
	"fmt"
	"slices"
	"time"
)

// Watcher is a user waiting in a channel for an item to complete.
type Watcher struct {
	ChannelID string
	UserID    string
}

// Card is a prerendered rich message.
type Card struct {
	Title        string
	URL          string
	Description  string
	ImageURL     string
	ThumbnailURL string
	Footer       string
	Color        int
}

// Display is the snapshot of an item captured when it was requested.
// It is used as-is for the completion message and never refreshed.
type Display struct {
	Title string
	Year  int
	Card  Card
}

// Agent is a pending watch entry for one Key.
//
// Values handed out by the Registry are copies; changing them does not
// affect the registry.
type Agent struct {
	Key       Key
	Display   Display
	CreatedAt time.Time

	seq      uint64
	channels []string            // insertion order
	users    map[string][]string // channel -> users, insertion order
}

func newAgent(key Key, display Display, seq uint64, now time.Time) *Agent {
	return &Agent{
		Key:       key,
		Display:   display,
		CreatedAt: now,
		seq:       seq,
		users:     make(map[string][]string),
	}
}

// addWatcher adds w and reports whether it was new.
func (a *Agent) addWatcher(w Watcher) bool {
	if a.HasWatcher(w) {
		return false
	}
	if _, ok := a.users[w.ChannelID]; !ok {
		a.channels = append(a.channels, w.ChannelID)
	}
	a.users[w.ChannelID] = append(a.users[w.ChannelID], w.UserID)
	return true
}

func (a *Agent) clone() Agent {
	c := *a
	c.channels = slices.Clone(a.channels)
	c.users = make(map[string][]string, len(a.users))
	for ch, users := range a.users {
		c.users[ch] = slices.Clone(users)
	}
	return c
}

// Channels returns the watching channels in the order they were added.
func (a Agent) Channels() []string {
	return slices.Clone(a.channels)
}

// Users returns the users waiting in channel, in the order they were added.
func (a Agent) Users(channel string) []string {
	return slices.Clone(a.users[channel])
}

// Watchers returns every (channel, user) pair, channel by channel.
func (a Agent) Watchers() []Watcher {
	var out []Watcher
	for _, ch := range a.channels {
		for _, u := range a.users[ch] {
			out = append(out, Watcher{ChannelID: ch, UserID: u})
		}
	}
	return out
}

// HasWatcher reports whether w is registered on the agent.
func (a Agent) HasWatcher(w Watcher) bool {
	return slices.Contains(a.users[w.ChannelID], w.UserID)
}

// Label is the name used in messages: the title, plus the season for series.
func (a Agent) Label() string {
	if a.Key.Source == SourceSeries {
		return fmt.Sprintf("%s Season %d", a.Display.Title, a.Key.Season)
	}
	return a.Display.Title
}
