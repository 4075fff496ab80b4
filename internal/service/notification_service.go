package service

import (
	"context"
	"sort"
	"time"

	"user-directory-be/internal/entity"
	"user-directory-be/internal/pkg/logger"
	"user-directory-be/internal/pkg/metrics"
	"user-directory-be/pkg/form"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// NotificationDelivery defines how to push real-time updates.
// Implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(sessionID string, notification entity.Notification)
	Broadcast(notification entity.Notification)
}

// INotifier raises toasts. Other services depend on this, not on the
// concrete NotificationService.
type INotifier interface {
	Notify(ctx context.Context, kind entity.NotificationKind, message string) entity.Notification
	Success(ctx context.Context, message string) entity.Notification
	Error(ctx context.Context, message string) entity.Notification
}

// NotificationService keeps the short-lived toast feed and pushes every toast
// to connected clients. A toast raised while serving a form session goes to
// that session only; anything else is broadcast.
type NotificationService struct {
	feed     *cache.Cache
	delivery NotificationDelivery
	metrics  *metrics.Metrics
	logger   logger.ILogger
	now      func() time.Time
}

func NewNotificationService(ttl time.Duration, delivery NotificationDelivery, m *metrics.Metrics, log logger.ILogger) *NotificationService {
	return &NotificationService{
		feed:     cache.New(ttl, ttl),
		delivery: delivery,
		metrics:  m,
		logger:   log,
		now:      time.Now,
	}
}

func (s *NotificationService) Notify(ctx context.Context, kind entity.NotificationKind, message string) entity.Notification {
	n := entity.Notification{
		Id:        uuid.New(),
		Kind:      kind,
		Message:   message,
		SessionId: form.SessionIDFrom(ctx),
		CreatedAt: s.now(),
	}

	s.feed.Set(n.Id.String(), n, cache.DefaultExpiration)
	s.metrics.Notifications.WithLabelValues(string(kind)).Inc()

	if s.delivery != nil {
		if n.SessionId != "" {
			s.delivery.Send(n.SessionId, n)
		} else {
			s.delivery.Broadcast(n)
		}
	}

	s.logger.Debug("NotificationService", "Notification raised", map[string]interface{}{
		"kind":       kind,
		"message":    message,
		"session_id": n.SessionId,
	})
	return n
}

func (s *NotificationService) Success(ctx context.Context, message string) entity.Notification {
	return s.Notify(ctx, entity.NotificationSuccess, message)
}

func (s *NotificationService) Error(ctx context.Context, message string) entity.Notification {
	return s.Notify(ctx, entity.NotificationError, message)
}

// Recent lists unexpired notifications visible to sessionID, oldest first.
// Broadcast notifications are visible to everyone.
func (s *NotificationService) Recent(sessionID string) []entity.Notification {
	items := s.feed.Items()
	out := make([]entity.Notification, 0, len(items))
	for _, item := range items {
		n := item.Object.(entity.Notification)
		if n.SessionId == "" || n.SessionId == sessionID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
