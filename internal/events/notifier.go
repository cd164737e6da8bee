package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
	"github.com/andreazevedo1975/OldKut-sub000/internal/metrics"
	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
	"github.com/andreazevedo1975/OldKut-sub000/internal/repositories"
)

// Pusher delivers a notification to its recipient's live channel.
// realtime.Hub is the production implementation.
type Pusher interface {
	Publish(ctx context.Context, n api.Notification) error
}

// Notifier turns activity events into persisted notifications and pushes
// them to the realtime channel.
type Notifier struct {
	nc            *nats.Conn
	notifications repositories.NotificationRepository
	pusher        Pusher
	metrics       *metrics.Metrics
	log           *logrus.Logger
	subs          []*nats.Subscription
}

// NewNotifier creates a Notifier on existing connections.
func NewNotifier(nc *nats.Conn, notifRepo repositories.NotificationRepository, pusher Pusher, m *metrics.Metrics, log *logrus.Logger) *Notifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Notifier{nc: nc, notifications: notifRepo, pusher: pusher, metrics: m, log: log}
}

// Start subscribes to all activity subjects. Delivery is asynchronous; a
// failed event is logged and dropped, the source mutation already succeeded.
func (n *Notifier) Start() error {
	subjects := map[string]string{
		SubjectPostLiked:       api.KindLike,
		SubjectPostCommented:   api.KindComment,
		SubjectFriendRequested: api.KindFriendRequest,
	}
	for subject, kind := range subjects {
		kind := kind
		sub, err := n.nc.Subscribe(subject, func(msg *nats.Msg) {
			n.handle(kind, msg.Data)
		})
		if err != nil {
			return err
		}
		n.subs = append(n.subs, sub)
	}
	return nil
}

// Stop drains the subscriptions.
func (n *Notifier) Stop() {
	for _, sub := range n.subs {
		_ = sub.Unsubscribe()
	}
	n.subs = nil
}

func (n *Notifier) handle(kind string, data []byte) {
	var event ActivityEvent
	if err := json.Unmarshal(data, &event); err != nil {
		n.log.WithError(err).Warn("dropping malformed activity event")
		return
	}
	// Self-activity never notifies.
	if event.ActorID == event.RecipientID {
		return
	}

	notification := &models.Notification{
		Kind:        kind,
		ActorID:     event.ActorID,
		RecipientID: event.RecipientID,
		TargetID:    event.PostID,
		CreatedAt:   event.Timestamp,
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		n.log.WithError(err).WithField("kind", kind).Error("persist notification failed")
		return
	}

	if err := n.pusher.Publish(context.Background(), notification.ToAPI()); err != nil {
		n.log.WithError(err).WithField("notification_id", notification.ID).Warn("realtime publish failed")
		return
	}
	if n.metrics != nil {
		n.metrics.RealtimePublishes.Inc()
	}
}
