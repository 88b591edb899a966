// Package discord is the chat surface: slash commands for searching and
// requesting titles, and the completion messages sent by the poller.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/vmunix/seekarr/internal/notify"
	"github.com/vmunix/seekarr/internal/request"
	"github.com/vmunix/seekarr/pkg/arr"
)

const interactionTimeout = 2 * time.Minute

// Catalog searches the backends.
type Catalog interface {
	SearchMovies(ctx context.Context, term string) ([]arr.Movie, error)
	SearchSeries(ctx context.Context, term string) ([]arr.Series, error)
}

// Command is a configured request command.
type Command struct {
	Name    string
	Source  notify.Source
	Profile request.Profile
}

// Options configures a Bot.
type Options struct {
	Token    string
	GuildID  string // register commands in this guild only
	Version  string
	Commands []Command
	Catalog  Catalog
	Resolver *request.Resolver
	Logger   *slog.Logger

	// session replaces the Discord connection in tests.
	session session
}

// Bot connects to Discord, serves the request commands and delivers
// completion notifications.
type Bot struct {
	sess     session
	guildID  string
	version  string
	commands map[string]Command
	order    []string
	catalog  Catalog
	resolver *request.Resolver
	views    *viewStore
	logger   *slog.Logger

	mu  sync.Mutex
	ctx context.Context

	ready     chan struct{}
	readyOnce sync.Once

	baseBackoff time.Duration
	maxBackoff  time.Duration
}

// New creates a Bot. The connection is opened by Run.
func New(opts Options) (*Bot, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sess := opts.session
	if sess == nil {
		if opts.Token == "" {
			return nil, errors.New("discord: bot token is required")
		}
		dg, err := discordgo.New("Bot " + opts.Token)
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		dg.Identify.Intents = discordgo.IntentsGuilds
		sess = dg
	}

	b := &Bot{
		sess:        sess,
		guildID:     opts.GuildID,
		version:     opts.Version,
		commands:    make(map[string]Command, len(opts.Commands)),
		catalog:     opts.Catalog,
		resolver:    opts.Resolver,
		views:       newViewStore(ViewTimeout),
		logger:      logger.With("component", "discord"),
		ctx:         context.Background(),
		ready:       make(chan struct{}),
		baseBackoff: baseBackoff,
		maxBackoff:  maxBackoff,
	}
	for _, c := range opts.Commands {
		if _, dup := b.commands[c.Name]; dup {
			return nil, fmt.Errorf("discord: duplicate command %q", c.Name)
		}
		b.commands[c.Name] = c
		b.order = append(b.order, c.Name)
	}

	sess.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.onReady(r)
	})
	sess.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		b.onInteraction(i)
	})
	sess.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		b.logger.Warn("gateway disconnected, reconnecting")
	})
	return b, nil
}

// Run opens the gateway connection and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	if err := b.sess.Open(); err != nil {
		return fmt.Errorf("discord: open gateway: %w", err)
	}
	b.logger.Info("gateway connected")

	<-ctx.Done()

	if err := b.sess.Close(); err != nil {
		return fmt.Errorf("discord: close gateway: %w", err)
	}
	return nil
}

// Ready is closed once commands have been registered after the first
// gateway Ready event.
func (b *Bot) Ready() <-chan struct{} {
	return b.ready
}

func (b *Bot) baseContext() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

// onReady registers the application commands. Reconnects deliver Ready
// again; commands are overwritten each time but readiness is signalled once.
func (b *Bot) onReady(r *discordgo.Ready) {
	appID := ""
	if r.User != nil {
		appID = r.User.ID
		b.logger.Info("logged in", "user", r.User.Username, "id", r.User.ID)
	}

	registered, err := b.sess.ApplicationCommandBulkOverwrite(appID, b.guildID, b.applicationCommands())
	if err != nil {
		b.logger.Error("failed to register commands", "guild", b.guildID, "error", err)
	}
	for _, c := range registered {
		b.logger.Info("command registered", "name", c.Name, "guild", b.guildID)
	}

	b.readyOnce.Do(func() {
		b.logger.Info("seekarr is online")
		close(b.ready)
	})
}

func (b *Bot) applicationCommands() []*discordgo.ApplicationCommand {
	cmds := []*discordgo.ApplicationCommand{
		{Name: "ping", Description: "Check that the bot is alive"},
		{Name: "version", Description: "Show the bot version"},
	}
	for _, name := range b.order {
		c := b.commands[name]
		what := "movie"
		if c.Source == notify.SourceSeries {
			what = "series"
		}
		cmds = append(cmds, &discordgo.ApplicationCommand{
			Name:        c.Name,
			Description: fmt.Sprintf("Request a %s (%s, %s)", what, c.Profile.QualityProfile, c.Profile.RootFolder),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "Title to search for",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "quality-profile",
					Description: "Quality profile to use instead of " + c.Profile.QualityProfile,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "root-folder",
					Description: "Root folder to use instead of " + c.Profile.RootFolder,
				},
			},
		})
	}
	return cmds
}
