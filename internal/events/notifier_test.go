package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
	"github.com/andreazevedo1975/OldKut-sub000/internal/metrics"
	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
)

type fakeNotificationRepo struct {
	created []*models.Notification
	err     error
	nextID  uint
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	n.ID = r.nextID
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) ListRecent(uint, int) ([]models.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(uint) (int64, error) { return 0, nil }

func (r *fakeNotificationRepo) SetRead(uint, []uint, bool) error { return nil }

type fakePusher struct {
	published []api.Notification
	err       error
}

func (p *fakePusher) Publish(_ context.Context, n api.Notification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, n)
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testMetrics builds counters on a throwaway registry so tests never touch
// the default one.
func testMetrics() *metrics.Metrics {
	return &metrics.Metrics{
		RealtimePublishes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "realtime_publishes_total",
		}),
	}
}

func encodeEvent(t *testing.T, event ActivityEvent) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func TestNotifierPersistsAndPushes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pusher := &fakePusher{}
	m := testMetrics()
	n := NewNotifier(nil, repo, pusher, m, quietLogger())

	n.handle(api.KindLike, encodeEvent(t, ActivityEvent{
		ActorID:     7,
		RecipientID: 3,
		PostID:      42,
		Timestamp:   time.Now(),
	}))

	require.Len(t, repo.created, 1)
	assert.Equal(t, api.KindLike, repo.created[0].Kind)
	assert.Equal(t, uint(3), repo.created[0].RecipientID)

	require.Len(t, pusher.published, 1)
	assert.Equal(t, repo.created[0].ID, pusher.published[0].ID)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RealtimePublishes))
}

func TestNotifierSkipsSelfActivity(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pusher := &fakePusher{}
	m := testMetrics()
	n := NewNotifier(nil, repo, pusher, m, quietLogger())

	n.handle(api.KindLike, encodeEvent(t, ActivityEvent{
		ActorID:     7,
		RecipientID: 7,
		PostID:      42,
		Timestamp:   time.Now(),
	}))

	assert.Empty(t, repo.created)
	assert.Empty(t, pusher.published)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RealtimePublishes))
}

func TestNotifierCountsOnlySuccessfulPublishes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pusher := &fakePusher{err: errors.New("channel down")}
	m := testMetrics()
	n := NewNotifier(nil, repo, pusher, m, quietLogger())

	n.handle(api.KindComment, encodeEvent(t, ActivityEvent{
		ActorID:     1,
		RecipientID: 2,
		PostID:      5,
		Timestamp:   time.Now(),
	}))

	// The notification row still exists; only the realtime hop failed.
	require.Len(t, repo.created, 1)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RealtimePublishes))
}

func TestNotifierDropsMalformedEvent(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pusher := &fakePusher{}
	n := NewNotifier(nil, repo, pusher, testMetrics(), quietLogger())

	n.handle(api.KindLike, []byte("{not json"))

	assert.Empty(t, repo.created)
	assert.Empty(t, pusher.published)
}
