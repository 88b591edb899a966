// Package server runs the bot: the chat surface, the poller, history
// pruning and the metrics endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/seekarr/internal/events"
	"github.com/vmunix/seekarr/internal/metrics"
	"github.com/vmunix/seekarr/internal/notify"
)

// DefaultPruneSchedule runs history pruning once a day.
const DefaultPruneSchedule = "@daily"

// Config for the runner.
type Config struct {
	PollInterval     time.Duration
	HistoryRetention time.Duration // 0 keeps history forever
	PruneSchedule    string
	MetricsAddr      string // empty disables the metrics listener
}

// Surface is the chat frontend. It delivers notifications and reports
// when it is ready to do so.
type Surface interface {
	notify.Notifier
	Run(ctx context.Context) error
	Ready() <-chan struct{}
}

// Deps are the components the runner drives.
type Deps struct {
	Surface  Surface
	Checker  notify.Checker
	Registry *notify.Registry
	Bus      *events.Bus
	History  *events.EventLog
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// Runner manages the lifecycle of the bot components.
type Runner struct {
	config Config
	deps   Deps
	logger *slog.Logger

	closers []func() error
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, deps Deps, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = notify.DefaultInterval
	}
	if cfg.PruneSchedule == "" {
		cfg.PruneSchedule = DefaultPruneSchedule
	}
	return &Runner{
		config: cfg,
		deps:   deps,
		logger: logger.With("component", "runner"),
	}
}

// Run starts all components.
// It blocks until the context is canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if r.deps.Bus != nil {
		all := r.deps.Bus.SubscribeAll(100)
		g.Go(func() error {
			defer r.deps.Bus.Unsubscribe(all)
			r.countEvents(ctx, all)
			return nil
		})
	}

	g.Go(func() error {
		return r.deps.Surface.Run(ctx)
	})

	// Agents can only be created through the surface, and completion
	// messages need a connected session, so polling waits for Ready.
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-r.deps.Surface.Ready():
		}

		opts := []notify.PollerOption{
			notify.WithInterval(r.config.PollInterval),
			notify.WithLogger(r.logger.With("component", "poller")),
			notify.WithMetrics(r.deps.Metrics),
		}
		if r.deps.Bus != nil {
			opts = append(opts, notify.WithPublisher(r.deps.Bus))
		}
		poller := notify.NewPoller(r.deps.Registry, r.deps.Checker, r.deps.Surface, opts...)
		return poller.Run(ctx)
	})

	if r.deps.History != nil && r.config.HistoryRetention > 0 {
		g.Go(func() error {
			return r.runPruner(ctx)
		})
	}

	if r.config.MetricsAddr != "" {
		g.Go(func() error {
			return r.serveMetrics(ctx)
		})
	}

	return g.Wait()
}

// Close releases resources opened by Open.
func (r *Runner) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	return errors.Join(errs...)
}

func (r *Runner) countEvents(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			r.deps.Metrics.Event(e.EventType())
		}
	}
}

// runPruner deletes history older than the retention on startup and then
// on the prune schedule.
func (r *Runner) runPruner(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(r.config.PruneSchedule, func() { r.prune(ctx) }); err != nil {
		return fmt.Errorf("prune schedule %q: %w", r.config.PruneSchedule, err)
	}

	r.prune(ctx)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (r *Runner) prune(ctx context.Context) {
	n, err := r.deps.History.Prune(ctx, r.config.HistoryRetention)
	if err != nil {
		r.logger.Error("history prune failed", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info("history pruned", "deleted", n, "retention", r.config.HistoryRetention)
	}
}

func (r *Runner) serveMetrics(ctx context.Context) error {
	gatherer := r.deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              r.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	r.logger.Info("metrics listening", "addr", r.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
