package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/seekarr/internal/events"
	"github.com/vmunix/seekarr/internal/notify"
	"github.com/vmunix/seekarr/internal/notify/mocks"
)

var (
	matrix = notify.Display{Title: "The Matrix", Year: 1999, Card: notify.Card{Title: "The Matrix (1999)"}}
	show   = notify.Display{Title: "Show", Year: 2010}
)

func upsert(t *testing.T, r *notify.Registry, key notify.Key, channel, user string, d notify.Display) {
	t.Helper()
	_, _, err := r.UpsertWatcher(key, notify.Watcher{ChannelID: channel, UserID: user}, d)
	require.NoError(t, err)
}

func TestPoller_NotifiesAllWatchersAndRemoves(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mocks.NewMockChecker(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	r := notify.NewRegistry()
	upsert(t, r, notify.MovieKey(42), "C", "A", matrix)
	upsert(t, r, notify.MovieKey(42), "C", "B", matrix)

	checker.EXPECT().MovieHasFile(gomock.Any(), int64(42)).Return(true, nil)
	notifier.EXPECT().Notify(gomock.Any(), notify.Notification{
		ChannelID: "C",
		UserIDs:   []string{"A", "B"},
		Key:       notify.MovieKey(42),
		Label:     "The Matrix",
		Display:   matrix,
	}).Return(nil)

	p := notify.NewPoller(r, checker, notifier)
	assert.Equal(t, 1, p.Poll(context.Background()))

	_, ok := r.Find(notify.MovieKey(42))
	assert.False(t, ok)

	// Later cycles do not see the agent again.
	assert.Zero(t, p.Poll(context.Background()))
}

func TestPoller_NoPrematureNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mocks.NewMockChecker(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	r := notify.NewRegistry()
	upsert(t, r, notify.MovieKey(42), "C", "A", matrix)

	checker.EXPECT().MovieHasFile(gomock.Any(), int64(42)).Return(false, nil).Times(3)

	p := notify.NewPoller(r, checker, notifier)
	for i := 0; i < 3; i++ {
		assert.Zero(t, p.Poll(context.Background()))
	}

	a, ok := r.Find(notify.MovieKey(42))
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, a.Users("C"))
}

func TestPoller_CheckErrorLeavesAgentAndContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mocks.NewMockChecker(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	r := notify.NewRegistry()
	upsert(t, r, notify.MovieKey(1), "C", "A", matrix)
	upsert(t, r, notify.SeasonKey(7, 1), "C", "B", show)

	checker.EXPECT().MovieHasFile(gomock.Any(), int64(1)).Return(false, errors.New("radarr: connection refused"))
	checker.EXPECT().SeasonComplete(gomock.Any(), int64(7), 1).Return(true, nil)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

	p := notify.NewPoller(r, checker, notifier)
	assert.Equal(t, 1, p.Poll(context.Background()))

	a, ok := r.Find(notify.MovieKey(1))
	require.True(t, ok, "failed check must leave the agent untouched")
	assert.Equal(t, []string{"A"}, a.Users("C"))
	_, ok = r.Find(notify.SeasonKey(7, 1))
	assert.False(t, ok)
}

func TestPoller_SeasonIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mocks.NewMockChecker(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	r := notify.NewRegistry()
	upsert(t, r, notify.SeasonKey(7, 1), "C", "A", show)
	upsert(t, r, notify.SeasonKey(7, 2), "C", "B", show)

	checker.EXPECT().SeasonComplete(gomock.Any(), int64(7), 1).Return(true, nil)
	checker.EXPECT().SeasonComplete(gomock.Any(), int64(7), 2).Return(false, nil)

	var sent []notify.Notification
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notify.Notification) error {
		sent = append(sent, n)
		return nil
	})

	p := notify.NewPoller(r, checker, notifier)
	p.Poll(context.Background())

	require.Len(t, sent, 1)
	assert.Equal(t, "Show Season 1", sent[0].Label)
	assert.Equal(t, []string{"A"}, sent[0].UserIDs)

	a, ok := r.Find(notify.SeasonKey(7, 2))
	require.True(t, ok)
	assert.Equal(t, []string{"B"}, a.Users("C"))
}

func TestPoller_ChannelFanOutOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mocks.NewMockChecker(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	r := notify.NewRegistry()
	upsert(t, r, notify.MovieKey(42), "c2", "A", matrix)
	upsert(t, r, notify.MovieKey(42), "c1", "B", matrix)
	upsert(t, r, notify.MovieKey(42), "c2", "C", matrix)

	checker.EXPECT().MovieHasFile(gomock.Any(), int64(42)).Return(true, nil)

	var channels []string
	var users [][]string
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notify.Notification) error {
		channels = append(channels, n.ChannelID)
		users = append(users, n.UserIDs)
		return nil
	}).Times(2)

	notify.NewPoller(r, checker, notifier).Poll(context.Background())

	assert.Equal(t, []string{"c2", "c1"}, channels)
	assert.Equal(t, [][]string{{"A", "C"}, {"B"}}, users)
}

func TestPoller_WatcherJoiningDuringCheckIsNotified(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mocks.NewMockChecker(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	r := notify.NewRegistry()
	upsert(t, r, notify.MovieKey(42), "C", "A", matrix)

	checker.EXPECT().MovieHasFile(gomock.Any(), int64(42)).DoAndReturn(func(context.Context, int64) (bool, error) {
		upsert(t, r, notify.MovieKey(42), "C", "B", matrix)
		return true, nil
	})
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notify.Notification) error {
		assert.Equal(t, []string{"A", "B"}, n.UserIDs)
		return nil
	})

	assert.Equal(t, 1, notify.NewPoller(r, checker, notifier).Poll(context.Background()))
	assert.Zero(t, r.Len())
}

func TestPoller_AgentRemovedDuringCheckIsNotResolvedTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mocks.NewMockChecker(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	r := notify.NewRegistry()
	upsert(t, r, notify.MovieKey(42), "C", "A", matrix)

	checker.EXPECT().MovieHasFile(gomock.Any(), int64(42)).DoAndReturn(func(context.Context, int64) (bool, error) {
		r.Remove(notify.MovieKey(42))
		return true, nil
	})
	// Notify must not be called.

	assert.Zero(t, notify.NewPoller(r, checker, notifier).Poll(context.Background()))
}

func TestPoller_DeliveryFailureStillResolves(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mocks.NewMockChecker(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)

	r := notify.NewRegistry()
	upsert(t, r, notify.MovieKey(42), "gone", "A", matrix)
	upsert(t, r, notify.MovieKey(42), "C", "B", matrix)

	checker.EXPECT().MovieHasFile(gomock.Any(), int64(42)).Return(true, nil)
	gomock.InOrder(
		notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("unknown channel")),
		notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil),
	)

	var published []events.Event
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	}).Times(2)

	p := notify.NewPoller(r, checker, notifier, notify.WithPublisher(publisher))
	assert.Equal(t, 1, p.Poll(context.Background()))
	assert.Zero(t, r.Len())

	require.Len(t, published, 2)
	failed, ok := published[0].(*events.NotificationFailed)
	require.True(t, ok)
	assert.Equal(t, "gone", failed.ChannelID)
	assert.Equal(t, int64(42), failed.EntityID())

	resolved, ok := published[1].(*events.AgentResolved)
	require.True(t, ok)
	assert.Equal(t, 2, resolved.Channels)
	assert.Equal(t, 2, resolved.Watchers)
	assert.Equal(t, events.EntityMovie, resolved.EntityType())
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mocks.NewMockChecker(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	r := notify.NewRegistry()
	upsert(t, r, notify.MovieKey(42), "C", "A", matrix)

	polled := make(chan struct{}, 1)
	checker.EXPECT().MovieHasFile(gomock.Any(), int64(42)).DoAndReturn(func(context.Context, int64) (bool, error) {
		select {
		case polled <- struct{}{}:
		default:
		}
		return false, nil
	}).MinTimes(1)

	p := notify.NewPoller(r, checker, notifier, notify.WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case <-polled:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never ran")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}
