package domain

import (
	"context"
	"time"
)

type NotificationKind string

const (
	NotificationMatch   NotificationKind = "match"
	NotificationMessage NotificationKind = "message"
	NotificationCall    NotificationKind = "call"
	NotificationGift    NotificationKind = "gift"
	NotificationLike    NotificationKind = "like"
	NotificationSystem  NotificationKind = "system"
)

type Notification struct {
	ID            int64
	UserID        int64
	Kind          NotificationKind
	Title         string
	Content       string
	RelatedUserID *int64
	Read          bool
	ReadAt        *time.Time
	CreatedAt     time.Time
}

// NotificationSink receives user-facing events. Callers treat it as best
// effort: a failed Notify never undoes the change that triggered it.
type NotificationSink interface {
	Notify(ctx context.Context, userID int64, kind NotificationKind, title, body string, relatedUserID int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id int64) error
}
