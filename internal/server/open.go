package server

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	_ "modernc.org/sqlite"

	"github.com/vmunix/seekarr/internal/catalog"
	"github.com/vmunix/seekarr/internal/config"
	"github.com/vmunix/seekarr/internal/discord"
	"github.com/vmunix/seekarr/internal/events"
	"github.com/vmunix/seekarr/internal/metrics"
	"github.com/vmunix/seekarr/internal/migrations"
	"github.com/vmunix/seekarr/internal/notify"
	"github.com/vmunix/seekarr/internal/request"
	"github.com/vmunix/seekarr/pkg/arr"
)

// OpenHistory opens the sqlite history database at path and applies the
// schema.
func OpenHistory(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps writers from hitting SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Backends creates the Radarr and Sonarr clients for the configured
// backends. Unconfigured backends are nil.
func Backends(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*arr.Radarr, *arr.Sonarr) {
	opts := []arr.Option{
		arr.WithTimeout(cfg.Gateway.Timeout),
		arr.WithRateLimit(cfg.Gateway.RateLimit, cfg.Gateway.Burst),
		arr.WithLogger(logger),
		arr.WithStateObserver(m.BreakerState),
	}

	var radarr *arr.Radarr
	var sonarr *arr.Sonarr
	if cfg.Radarr != nil {
		radarr = arr.NewRadarr(cfg.Radarr.URL, cfg.Radarr.APIKey, opts...)
	}
	if cfg.Sonarr != nil {
		sonarr = arr.NewSonarr(cfg.Sonarr.URL, cfg.Sonarr.APIKey, opts...)
	}
	return radarr, sonarr
}

// Commands converts configured commands for the chat surface.
func Commands(cfg *config.Config) []discord.Command {
	var out []discord.Command
	add := func(src notify.Source, b *config.BackendConfig) {
		if b == nil {
			return
		}
		for _, c := range b.Commands {
			out = append(out, discord.Command{
				Name:   c.Name,
				Source: src,
				Profile: request.Profile{
					QualityProfile: c.QualityProfile,
					RootFolder:     c.RootFolder,
				},
			})
		}
	}
	add(notify.SourceMovie, cfg.Radarr)
	add(notify.SourceSeries, cfg.Sonarr)
	return out
}

// Open wires every component from cfg. The returned runner owns the
// history database; call Close when Run returns.
func Open(cfg *config.Config, version string, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := OpenHistory(cfg.History.Path)
	if err != nil {
		return nil, err
	}
	history := events.NewEventLog(db)
	bus := events.NewBus(history, logger)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promReg)

	radarr, sonarr := Backends(cfg, m, logger)
	gateway := catalog.New(radarr, sonarr, logger)
	registry := notify.NewRegistry()
	resolver := request.NewResolver(gateway, registry, bus, logger)

	bot, err := discord.New(discord.Options{
		Token:    cfg.Discord.Token,
		GuildID:  cfg.Discord.GuildID,
		Version:  strings.TrimPrefix(version, "v"),
		Commands: Commands(cfg),
		Catalog:  gateway,
		Resolver: resolver,
		Logger:   logger,
	})
	if err != nil {
		_ = bus.Close()
		_ = db.Close()
		return nil, err
	}

	r := NewRunner(Config{
		PollInterval:     cfg.Poll.Interval,
		HistoryRetention: cfg.History.Retention,
		MetricsAddr:      cfg.Metrics.Addr,
	}, Deps{
		Surface:  bot,
		Checker:  gateway,
		Registry: registry,
		Bus:      bus,
		History:  history,
		Metrics:  m,
		Gatherer: promReg,
	}, logger)
	r.closers = append(r.closers, db.Close, bus.Close)
	return r, nil
}
