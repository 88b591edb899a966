package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/vmunix/seekarr/internal/notify"
)

const (
	// maxRetries is the max number of retries for rate-limited API calls.
	maxRetries  = 3
	baseBackoff = 2 * time.Second
	maxBackoff  = 30 * time.Second
)

var _ notify.Notifier = (*Bot)(nil)

// Notify sends a completion message to one channel, mentioning every user
// watching there.
func (b *Bot) Notify(ctx context.Context, n notify.Notification) error {
	msg := &discordgo.MessageSend{
		Content: fmt.Sprintf("%s **%s** has finished downloading!", mentions(n.UserIDs), n.Label),
		Embeds:  []*discordgo.MessageEmbed{embed(n.Display.Card)},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: n.UserIDs,
		},
	}

	err := b.retryOnRateLimit(ctx, func() error {
		_, err := b.sess.ChannelMessageSendComplex(n.ChannelID, msg)
		return err
	})
	if err != nil {
		return fmt.Errorf("discord: send to channel %s: %w", n.ChannelID, err)
	}
	return nil
}

// retryOnRateLimit calls fn and retries with exponential backoff on Discord
// rate limit errors. It respects context cancellation.
func (b *Bot) retryOnRateLimit(ctx context.Context, fn func() error) error {
	wait := b.baseBackoff
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		var restErr *discordgo.RESTError
		if !errors.As(err, &restErr) || restErr.Response == nil || restErr.Response.StatusCode != http.StatusTooManyRequests {
			return err
		}
		if attempt == maxRetries {
			return err
		}

		b.logger.Warn("rate limited, retrying", "attempt", attempt+1, "max", maxRetries, "wait", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, b.maxBackoff)
	}
}
