package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
)

// VerificationRepository implements domain.VerificationRepository using SQLite.
type VerificationRepository struct {
	db *sql.DB
}

var _ domain.VerificationRepository = (*VerificationRepository)(nil)

func NewVerificationRepository(db *DB) *VerificationRepository {
	return &VerificationRepository{db: db.SqlDB}
}

func (r *VerificationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.SocialVerification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, provider, provider_id, provider_username, verified_at
		 FROM social_verifications WHERE user_id = ? ORDER BY verified_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	var out []domain.SocialVerification
	for rows.Next() {
		var v domain.SocialVerification
		var username sql.NullString
		if err := rows.Scan(&v.ID, &v.UserID, &v.Provider, &v.ProviderID, &username, &v.VerifiedAt); err != nil {
			return nil, fmt.Errorf("scan verification: %w", err)
		}
		v.ProviderUsername = username.String
		out = append(out, v)
	}
	return out, rows.Err()
}

// Add records the verification and refreshes the user's verification count
// and verified flag in the same transaction. A provider already linked to the
// user yields domain.ErrConflict.
func (r *VerificationRepository) Add(ctx context.Context, v *domain.SocialVerification, threshold int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO social_verifications (user_id, provider, provider_id, provider_username, verified_at)
		 VALUES (?, ?, ?, ?, ?)`,
		v.UserID, v.Provider, v.ProviderID, nullString(v.ProviderUsername), now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, fmt.Errorf("%w: provider %s already verified", domain.ErrConflict, v.Provider)
		}
		return 0, fmt.Errorf("insert verification: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM social_verifications WHERE user_id = ?`, v.UserID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count verifications: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET verification_count = ?, is_verified = ?, updated_at = ? WHERE id = ?`,
		count, count >= threshold, now, v.UserID,
	); err != nil {
		return 0, fmt.Errorf("update verification count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	v.ID = id
	v.VerifiedAt = now
	return count, nil
}
