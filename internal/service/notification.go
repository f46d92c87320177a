package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/metrics"
)

// notificationListLimit caps how many notifications a listing returns.
const notificationListLimit = 50

// NotificationService stores user notifications. It is the production
// domain.NotificationSink.
type NotificationService struct {
	notifications domain.NotificationRepository
}

var _ domain.NotificationSink = (*NotificationService)(nil)

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications domain.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Notify records a notification for userID. A zero relatedUserID means the
// notification refers to no other user.
func (s *NotificationService) Notify(ctx context.Context, userID int64, kind domain.NotificationKind, title, body string, relatedUserID int64) error {
	n := &domain.Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Content: body,
	}
	if relatedUserID != 0 {
		n.RelatedUserID = &relatedUserID
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// List returns the user's latest notifications, optionally unread only.
func (s *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool) ([]domain.Notification, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}
	return s.notifications.ListByUser(ctx, userID, unreadOnly, notificationListLimit)
}

// MarkRead marks a notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid notification id", domain.ErrInvalidInput)
	}
	return s.notifications.MarkRead(ctx, id)
}

// notifyBestEffort delivers a notification and swallows the error. The
// change that triggered it has already been committed.
func notifyBestEffort(ctx context.Context, sink domain.NotificationSink, userID int64, kind domain.NotificationKind, title, body string, relatedUserID int64) {
	if sink == nil {
		return
	}
	if err := sink.Notify(ctx, userID, kind, title, body, relatedUserID); err != nil {
		metrics.NotificationFailuresTotal.WithLabelValues(string(kind)).Inc()
		slog.Warn("notification failed", "user_id", userID, "kind", kind, "error", err)
	}
}
