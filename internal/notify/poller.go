package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmunix/seekarr/internal/events"
	"github.com/vmunix/seekarr/internal/metrics"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Checker,Notifier,Publisher

// DefaultInterval is how often pending agents are checked.
const DefaultInterval = 5 * time.Second

// Notification is one completion message for one channel.
type Notification struct {
	ChannelID string
	UserIDs   []string
	Key       Key
	Label     string
	Display   Display
}

// Notifier delivers completion messages to the chat.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Publisher records history events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Poller periodically checks pending agents and resolves completed ones.
type Poller struct {
	registry *Registry
	checker  Checker
	notifier Notifier
	interval time.Duration
	events   Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPublisher records resolutions and failed deliveries as events.
func WithPublisher(pub Publisher) PollerOption {
	return func(p *Poller) {
		p.events = pub
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) PollerOption {
	return func(p *Poller) {
		p.metrics = m
	}
}

// NewPoller creates a poller over registry.
func NewPoller(registry *Registry, checker Checker, notifier Notifier, opts ...PollerOption) *Poller {
	p := &Poller{
		registry: registry,
		checker:  checker,
		notifier: notifier,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "poller")
	return p
}

// Run polls every interval until ctx is canceled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return nil
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll runs one cycle: every agent is checked once, and each completed one
// is removed and announced. It returns the number of agents resolved.
// Agents whose check fails or reports incomplete are left for the next cycle.
func (p *Poller) Poll(ctx context.Context) int {
	start := time.Now()
	resolved := 0

	for agent := range p.registry.All() {
		if ctx.Err() != nil {
			break
		}

		done, err := agent.Key.Check(ctx, p.checker)
		if err != nil {
			p.metrics.CheckError(agent.Key.Source.String())
			p.logger.Warn("completion check failed",
				"key", agent.Key.String(),
				"title", agent.Display.Title,
				"error", err)
			continue
		}
		if !done {
			continue
		}

		// Take rather than reuse the snapshot so watchers that joined while
		// the check was in flight are notified too.
		taken, ok := p.registry.Take(agent.Key)
		if !ok {
			continue
		}
		p.resolve(ctx, taken)
		resolved++
	}

	p.metrics.SetPending(p.registry.Len())
	p.metrics.ObservePoll(time.Since(start).Seconds())
	if resolved > 0 {
		p.logger.Debug("poll cycle finished", "resolved", resolved, "pending", p.registry.Len())
	}
	return resolved
}

// resolve sends one message per watching channel, in the order the channels
// were added. A failed send is logged and recorded; other channels still
// get their message.
func (p *Poller) resolve(ctx context.Context, a Agent) {
	label := a.Label()
	channels := a.Channels()
	watchers := 0

	for _, ch := range channels {
		users := a.Users(ch)
		watchers += len(users)

		err := p.notifier.Notify(ctx, Notification{
			ChannelID: ch,
			UserIDs:   users,
			Key:       a.Key,
			Label:     label,
			Display:   a.Display,
		})
		p.metrics.Notification(err == nil)
		if err != nil {
			p.logger.Error("failed to send notification",
				"key", a.Key.String(),
				"channel", ch,
				"error", err)
			p.publish(ctx, &events.NotificationFailed{
				BaseEvent: events.NewBaseEvent(events.EventNotificationFailed, entityType(a.Key), a.Key.ID),
				Title:     a.Display.Title,
				Season:    a.Key.Season,
				ChannelID: ch,
				Error:     err.Error(),
			})
		}
	}

	pending := time.Since(a.CreatedAt).Round(time.Second)
	p.logger.Info("request available",
		"key", a.Key.String(),
		"title", label,
		"channels", len(channels),
		"watchers", watchers,
		"pending_for", pending)

	p.publish(ctx, &events.AgentResolved{
		BaseEvent: events.NewBaseEvent(events.EventAgentResolved, entityType(a.Key), a.Key.ID),
		Title:     a.Display.Title,
		Season:    a.Key.Season,
		Channels:  len(channels),
		Watchers:  watchers,
		Pending:   pending.String(),
	})
}

func (p *Poller) publish(ctx context.Context, e events.Event) {
	if p.events == nil {
		return
	}
	if err := p.events.Publish(ctx, e); err != nil {
		p.logger.Warn("failed to publish event", "type", e.EventType(), "error", err)
	}
}

func entityType(k Key) string {
	if k.Source == SourceSeries {
		return events.EntitySeries
	}
	return events.EntityMovie
}
