package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
	"github.com/andreazevedo1975/OldKut-sub000/internal/usercache"
)

type fakeNotifClient struct {
	mu           sync.Mutex
	items        []api.Notification
	listErr      error
	readErr      error
	setReads     [][]uint
	profileCalls int
}

func (f *fakeNotifClient) GetFeed(ctx context.Context, viewerID uint, limit, offset int) ([]api.Post, error) {
	return nil, nil
}

func (f *fakeNotifClient) CreatePost(ctx context.Context, authorID uint, content string) (api.Post, error) {
	return api.Post{}, nil
}

func (f *fakeNotifClient) ToggleLike(ctx context.Context, postID, userID uint) error {
	return nil
}

func (f *fakeNotifClient) CreateComment(ctx context.Context, postID, authorID uint, content string) (api.Comment, error) {
	return api.Comment{}, nil
}

func (f *fakeNotifClient) GetUserProfile(ctx context.Context, userID uint) (api.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	return api.UserRecord{ID: userID}, nil
}

func (f *fakeNotifClient) profileCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profileCalls
}

func (f *fakeNotifClient) ListNotifications(ctx context.Context, recipientID uint, limit int) ([]api.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]api.Notification(nil), f.items...), nil
}

func (f *fakeNotifClient) SetRead(ctx context.Context, ids []uint, read bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setReads = append(f.setReads, append([]uint(nil), ids...))
	return f.readErr
}

type fakeStream struct {
	mu      sync.Mutex
	events  chan api.Notification
	stopped int
}

func (f *fakeStream) Subscribe(ctx context.Context, recipientID uint) (<-chan api.Notification, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = make(chan api.Notification, 8)
	ch := f.events
	return ch, func() {
		f.mu.Lock()
		f.stopped++
		f.mu.Unlock()
	}, nil
}

func (f *fakeStream) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func notif(id uint, read bool) api.Notification {
	return api.Notification{ID: id, RecipientID: 1, ActorID: id + 100, Kind: api.KindLike, Read: read}
}

func ids(items []api.Notification) []uint {
	out := make([]uint, len(items))
	for i, n := range items {
		out[i] = n.ID
	}
	return out
}

func TestLoadInitialNewestFirst(t *testing.T) {
	client := &fakeNotifClient{items: []api.Notification{notif(3, false), notif(2, false), notif(1, true)}}
	ctrl := NewController(client, &fakeStream{}, nil, 1, quietLogger())

	ctrl.LoadInitial(context.Background())

	assert.Equal(t, []uint{3, 2, 1}, ids(ctrl.Notifications()))
	assert.Equal(t, 2, ctrl.Unread())
}

func TestPushPrependsAndDeduplicates(t *testing.T) {
	client := &fakeNotifClient{items: []api.Notification{notif(3, false), notif(2, false), notif(1, false)}}
	stream := &fakeStream{}
	ctrl := NewController(client, stream, nil, 1, quietLogger())

	ctrl.LoadInitial(context.Background())
	require.NoError(t, ctrl.Start(context.Background()))
	defer ctrl.Stop()

	stream.events <- notif(4, false)
	require.Eventually(t, func() bool {
		return len(ctrl.Notifications()) == 4
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []uint{4, 3, 2, 1}, ids(ctrl.Notifications()))

	// Replayed event is dropped.
	stream.events <- notif(3, false)
	stream.events <- notif(5, false)
	require.Eventually(t, func() bool {
		return len(ctrl.Notifications()) == 5
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []uint{5, 4, 3, 2, 1}, ids(ctrl.Notifications()))
}

func TestActorsResolvedThroughCache(t *testing.T) {
	client := &fakeNotifClient{items: []api.Notification{
		{ID: 3, RecipientID: 1, ActorID: 7, Kind: api.KindLike},
		{ID: 2, RecipientID: 1, ActorID: 9, Kind: api.KindComment},
		{ID: 1, RecipientID: 1, ActorID: 7, Kind: api.KindLike},
	}}
	stream := &fakeStream{}
	users := usercache.New(client, quietLogger())
	ctrl := NewController(client, stream, users, 1, quietLogger())

	ctrl.LoadInitial(context.Background())
	assert.Equal(t, 2, client.profileCallCount(), "one fetch per distinct actor")
	assert.Equal(t, 2, users.Len())

	require.NoError(t, ctrl.Start(context.Background()))
	defer ctrl.Stop()

	// A pushed event from an unfamiliar actor fetches exactly once.
	stream.events <- api.Notification{ID: 4, RecipientID: 1, ActorID: 11, Kind: api.KindLike}
	require.Eventually(t, func() bool {
		_, ok := users.Get(11)
		return ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, client.profileCallCount())

	// A pushed event from a known actor hits the cache.
	stream.events <- api.Notification{ID: 5, RecipientID: 1, ActorID: 7, Kind: api.KindComment}
	require.Eventually(t, func() bool {
		return len(ctrl.Notifications()) == 5
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, client.profileCallCount())
}

func TestRestartTearsDownPreviousSubscription(t *testing.T) {
	stream := &fakeStream{}
	ctrl := NewController(&fakeNotifClient{}, stream, nil, 1, quietLogger())

	require.NoError(t, ctrl.Start(context.Background()))
	require.NoError(t, ctrl.Start(context.Background()))
	assert.Equal(t, 1, stream.stopCount(), "re-subscribing must stop the old channel first")

	ctrl.Stop()
	assert.Equal(t, 2, stream.stopCount())
}

func TestMarkAsReadOptimisticWithRevert(t *testing.T) {
	client := &fakeNotifClient{items: []api.Notification{notif(2, false), notif(1, false)}}
	ctrl := NewController(client, &fakeStream{}, nil, 1, quietLogger())
	ctrl.LoadInitial(context.Background())

	require.NoError(t, ctrl.MarkAsRead(context.Background(), 2, nil))
	assert.True(t, ctrl.Notifications()[0].Read)

	client.mu.Lock()
	client.readErr = errors.New("write failed")
	client.mu.Unlock()

	err := ctrl.MarkAsRead(context.Background(), 1, nil)
	require.Error(t, err)
	items := ctrl.Notifications()
	assert.True(t, items[0].Read, "unrelated flag untouched by the revert")
	assert.False(t, items[1].Read, "failed update must revert the flag")
}

func TestMarkAsReadAlreadyReadIsNoopButRunsContinuation(t *testing.T) {
	client := &fakeNotifClient{items: []api.Notification{notif(1, true)}}
	ctrl := NewController(client, &fakeStream{}, nil, 1, quietLogger())
	ctrl.LoadInitial(context.Background())

	ran := false
	require.NoError(t, ctrl.MarkAsRead(context.Background(), 1, func() { ran = true }))

	assert.True(t, ran, "continuation runs even when nothing needed updating")
	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Empty(t, client.setReads, "no remote call for an already-read item")
}

func TestMarkAllAsRead(t *testing.T) {
	client := &fakeNotifClient{items: []api.Notification{notif(3, false), notif(2, true), notif(1, false)}}
	ctrl := NewController(client, &fakeStream{}, nil, 1, quietLogger())
	ctrl.LoadInitial(context.Background())

	require.NoError(t, ctrl.MarkAllAsRead(context.Background()))

	for _, n := range ctrl.Notifications() {
		assert.True(t, n.Read)
	}
	client.mu.Lock()
	defer client.mu.Unlock()
	require.Len(t, client.setReads, 1)
	assert.Equal(t, []uint{3, 1}, client.setReads[0], "batch scoped to originally-unread IDs")
}

func TestMarkAllAsReadFailureRevertsOnlyFlipped(t *testing.T) {
	client := &fakeNotifClient{
		items:   []api.Notification{notif(3, false), notif(2, true), notif(1, false)},
		readErr: errors.New("write failed"),
	}
	ctrl := NewController(client, &fakeStream{}, nil, 1, quietLogger())
	ctrl.LoadInitial(context.Background())

	err := ctrl.MarkAllAsRead(context.Background())
	require.Error(t, err)

	items := ctrl.Notifications()
	assert.False(t, items[0].Read)
	assert.True(t, items[1].Read, "the originally-read item is unaffected")
	assert.False(t, items[2].Read)
}

func TestMarkAllAsReadNothingUnread(t *testing.T) {
	client := &fakeNotifClient{items: []api.Notification{notif(1, true)}}
	ctrl := NewController(client, &fakeStream{}, nil, 1, quietLogger())
	ctrl.LoadInitial(context.Background())

	require.NoError(t, ctrl.MarkAllAsRead(context.Background()))
	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Empty(t, client.setReads)
}
