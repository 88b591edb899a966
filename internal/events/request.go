package events

// Entity types
const (
	EntityMovie  = "movie"
	EntitySeries = "series"
)

// Event type constants
const (
	EventRequestSubmitted   = "request.submitted"
	EventWatcherAdded       = "watcher.added"
	EventAgentResolved      = "agent.resolved"
	EventNotificationFailed = "notification.failed"
)

// RequestSubmitted is emitted after the catalog accepted an acquisition request.
type RequestSubmitted struct {
	BaseEvent
	Title          string `json:"title"`
	Seasons        []int  `json:"seasons,omitempty"`
	QualityProfile string `json:"quality_profile"`
	RootFolder     string `json:"root_folder"`
	UserID         string `json:"user_id"`
	ChannelID      string `json:"channel_id"`
}

// WatcherAdded is emitted when a user starts waiting on an agent.
// Created is true when the watcher created the agent.
type WatcherAdded struct {
	BaseEvent
	Title     string `json:"title"`
	Season    int    `json:"season,omitempty"`
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Created   bool   `json:"created"`
}

// AgentResolved is emitted when the poller saw an item complete and
// removed its agent.
type AgentResolved struct {
	BaseEvent
	Title    string `json:"title"`
	Season   int    `json:"season,omitempty"`
	Channels int    `json:"channels"`
	Watchers int    `json:"watchers"`
	Pending  string `json:"pending_for"`
}

// NotificationFailed is emitted when a completion message could not be sent
// to one channel.
type NotificationFailed struct {
	BaseEvent
	Title     string `json:"title"`
	Season    int    `json:"season,omitempty"`
	ChannelID string `json:"channel_id"`
	Error     string `json:"error"`
}
