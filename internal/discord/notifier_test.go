package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/seekarr/internal/notify"
)

func rateLimited() error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusTooManyRequests}}
}

func notification() notify.Notification {
	return notify.Notification{
		ChannelID: "C1",
		UserIDs:   []string{"A", "B"},
		Key:       notify.SeasonKey(7, 2),
		Label:     "Show Season 2",
		Display: notify.Display{Title: "Show", Card: notify.Card{
			Title:  "Show (2010)",
			Footer: "Powered by Seekarr",
		}},
	}
}

func TestNotify_MentionsWatchers(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.bot.Notify(context.Background(), notification()))

	require.Len(t, h.sess.sent, 1)
	msg := h.sess.sent[0]
	assert.Equal(t, "C1", msg.channelID)
	assert.Equal(t, "<@A> <@B> **Show Season 2** has finished downloading!", msg.data.Content)
	assert.Equal(t, []string{"A", "B"}, msg.data.AllowedMentions.Users)
	require.Len(t, msg.data.Embeds, 1)
	assert.Equal(t, "Show (2010)", msg.data.Embeds[0].Title)
	assert.Equal(t, "Powered by Seekarr", msg.data.Embeds[0].Footer.Text)
	assert.Nil(t, msg.data.Embeds[0].Image)
}

func TestNotify_RetriesRateLimit(t *testing.T) {
	h := newHarness(t)
	h.sess.sendErrs = []error{rateLimited(), rateLimited()}

	require.NoError(t, h.bot.Notify(context.Background(), notification()))
	assert.Len(t, h.sess.sent, 1)
}

func TestNotify_GivesUpAfterRetries(t *testing.T) {
	h := newHarness(t)
	h.sess.sendErrs = []error{rateLimited(), rateLimited(), rateLimited(), rateLimited()}

	err := h.bot.Notify(context.Background(), notification())
	require.Error(t, err)
	assert.Empty(t, h.sess.sent)
}

func TestNotify_OtherErrorsNotRetried(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("missing access")
	h.sess.sendErrs = []error{boom}

	err := h.bot.Notify(context.Background(), notification())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, h.sess.sendErrs)
}
