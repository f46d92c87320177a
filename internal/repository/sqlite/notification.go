package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
)

// NotificationRepository implements domain.NotificationRepository using SQLite.
type NotificationRepository struct {
	db *sql.DB
}

var _ domain.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db.SqlDB}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	now := time.Now().UTC()
	var related sql.NullInt64
	if n.RelatedUserID != nil {
		related = nullInt64(*n.RelatedUserID)
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, kind, title, content, related_user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, string(n.Kind), n.Title, nullString(n.Content), related, now,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	n.ID = id
	n.CreatedAt = now
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]domain.Notification, error) {
	query := `SELECT id, user_id, kind, title, content, related_user_id, is_read, read_at, created_at
		FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var kind string
		var content sql.NullString
		var related sql.NullInt64
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &n.Title, &content, &related, &n.Read, &readAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Kind = domain.NotificationKind(kind)
		n.Content = content.String
		if related.Valid {
			id := related.Int64
			n.RelatedUserID = &id
		}
		n.ReadAt = timePtr(readAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1, read_at = COALESCE(read_at, ?) WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
