package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
)

// MediaRepository implements domain.MediaRepository using SQLite.
type MediaRepository struct {
	db *sql.DB
}

var _ domain.MediaRepository = (*MediaRepository)(nil)

func NewMediaRepository(db *DB) *MediaRepository {
	return &MediaRepository{db: db.SqlDB}
}

const mediaColumns = `id, user_id, media_type, url, thumbnail_url, is_profile, display_order, status, created_at, expires_at`

func scanMedia(row rowScanner) (domain.Media, error) {
	var m domain.Media
	var mediaType string
	var thumb sql.NullString
	var expires sql.NullTime
	if err := row.Scan(&m.ID, &m.UserID, &mediaType, &m.URL, &thumb, &m.IsProfile, &m.DisplayOrder, &m.Status, &m.CreatedAt, &expires); err != nil {
		return m, err
	}
	m.Type = domain.MediaType(mediaType)
	m.ThumbnailURL = thumb.String
	m.ExpiresAt = timePtr(expires)
	return m, nil
}

func (r *MediaRepository) Create(ctx context.Context, m *domain.Media) error {
	return r.CreateWithinLimit(ctx, m, 0)
}

// CreateWithinLimit inserts m unless the user already has limit media of the
// same type that were not rejected. The count and the insert share one
// transaction. A limit of 0 disables the cap.
func (r *MediaRepository) CreateWithinLimit(ctx context.Context, m *domain.Media, limit int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if limit > 0 {
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM media WHERE user_id = ? AND media_type = ? AND status != 'rejected'`,
			m.UserID, string(m.Type),
		).Scan(&n); err != nil {
			return fmt.Errorf("count media: %w", err)
		}
		if n >= limit {
			return fmt.Errorf("%w: at most %d %ss allowed", domain.ErrInvalidInput, limit, m.Type)
		}
	}

	now := time.Now().UTC()
	if m.Status == "" {
		m.Status = domain.MediaStatusPending
	}
	var expires sql.NullTime
	if m.ExpiresAt != nil {
		expires = sql.NullTime{Time: m.ExpiresAt.UTC(), Valid: true}
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO media (user_id, media_type, url, thumbnail_url, is_profile, display_order, status, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, string(m.Type), m.URL, nullString(m.ThumbnailURL), m.IsProfile, m.DisplayOrder, m.Status, now, expires,
	)
	if err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	return nil
}

// ListApproved returns approved media, skipping expired stories. An empty
// mediaType lists every type.
func (r *MediaRepository) ListApproved(ctx context.Context, userID int64, mediaType domain.MediaType) ([]domain.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media
		WHERE user_id = ? AND status = 'approved' AND (expires_at IS NULL OR expires_at > ?)`
	args := []any{userID, time.Now().UTC()}
	if mediaType != "" {
		query += ` AND media_type = ?`
		args = append(args, string(mediaType))
	}
	query += ` ORDER BY display_order, id`
	return r.list(ctx, query, args...)
}

func (r *MediaRepository) ListApprovedPhotos(ctx context.Context, userID int64, limit int) ([]domain.Media, error) {
	return r.list(ctx,
		`SELECT `+mediaColumns+` FROM media
		 WHERE user_id = ? AND media_type = 'photo' AND status = 'approved'
		 ORDER BY is_profile DESC, display_order, id LIMIT ?`, userID, limit)
}

func (r *MediaRepository) list(ctx context.Context, query string, args ...any) ([]domain.Media, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var out []domain.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SetStatus records a moderation decision on a media item. Moderation runs
// outside this service; discovery and the profile views only show approved
// media.
func (r *MediaRepository) SetStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE media SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update media status: %w", err)
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
