package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
)

// MatchRepository implements domain.MatchRepository using SQLite. The
// matches table keys each row by the ordered pair (pair_low, pair_high), so
// concurrent proposals for the same two users cannot both succeed.
type MatchRepository struct {
	db *sql.DB
}

var _ domain.MatchRepository = (*MatchRepository)(nil)

func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db.SqlDB}
}

const matchColumns = `id, user1_id, user2_id, match_score, match_type, status, initiated_by, created_at, updated_at`

func scanMatch(row rowScanner) (*domain.Match, error) {
	m := &domain.Match{}
	var status string
	cols := []any{&m.ID, &m.User1ID, &m.User2ID, &m.Score, &m.MatchType, &status, &m.InitiatedBy, &m.CreatedAt, &m.UpdatedAt}
	if err := row.Scan(cols...); err != nil {
		return nil, err
	}
	m.Status = domain.MatchStatus(status)
	return m, nil
}

func (r *MatchRepository) Create(ctx context.Context, m *domain.Match) error {
	now := time.Now().UTC()
	if m.MatchType == "" {
		m.MatchType = domain.MatchTypeManual
	}
	if m.Status == "" {
		m.Status = domain.MatchStatusPending
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO matches (user1_id, user2_id, match_score, match_type, status, initiated_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.User1ID, m.User2ID, m.Score, m.MatchType, string(m.Status), m.InitiatedBy, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert match: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (*domain.Match, error) {
	m, err := scanMatch(r.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query match by id: %w", err)
	}
	return m, nil
}

// FindByPair returns the match between a and b regardless of who initiated it.
func (r *MatchRepository) FindByPair(ctx context.Context, a, b int64) (*domain.Match, error) {
	low, high := domain.PairKey(a, b)
	m, err := scanMatch(r.db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE pair_low = ? AND pair_high = ?`, low, high))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query match by pair: %w", err)
	}
	return m, nil
}

// ListByUser returns the user's matches joined with the counterpart profile,
// newest first. An empty status lists every status.
func (r *MatchRepository) ListByUser(ctx context.Context, userID int64, status domain.MatchStatus) ([]domain.MatchWithUser, error) {
	query := `SELECT m.id, m.user1_id, m.user2_id, m.match_score, m.match_type, m.status, m.initiated_by,
			m.created_at, m.updated_at, ` + userColumnsAs("u") + `
		FROM matches m
		JOIN users u ON u.id = CASE WHEN m.user1_id = ? THEN m.user2_id ELSE m.user1_id END
		WHERE (m.user1_id = ? OR m.user2_id = ?)`
	args := []any{userID, userID, userID}
	if status != "" {
		query += ` AND m.status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY m.created_at DESC, m.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []domain.MatchWithUser
	for rows.Next() {
		m, other, err := scanMatchWithUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, domain.MatchWithUser{Match: *m, Other: *other})
	}
	return out, rows.Err()
}

// scanMatchWithUser reads a match row followed by the user columns.
func scanMatchWithUser(rows *sql.Rows) (*domain.Match, *domain.User, error) {
	var m domain.Match
	var status string
	u, err := scanUser(scannerFunc(func(userDest ...any) error {
		dest := append([]any{&m.ID, &m.User1ID, &m.User2ID, &m.Score, &m.MatchType, &status, &m.InitiatedBy, &m.CreatedAt, &m.UpdatedAt}, userDest...)
		return rows.Scan(dest...)
	}))
	if err != nil {
		return nil, nil, err
	}
	m.Status = domain.MatchStatus(status)
	return &m, u, nil
}

type scannerFunc func(dest ...any) error

func (f scannerFunc) Scan(dest ...any) error { return f(dest...) }

func (r *MatchRepository) UpdateStatusIfPending(ctx context.Context, id int64, status domain.MatchStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = ?, updated_at = ? WHERE id = ? AND status = 'pending'`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("update match status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
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

func (r *MatchRepository) Stats(ctx context.Context, userID int64) (*domain.MatchStats, error) {
	s := &domain.MatchStats{}
	err := r.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN status = 'accepted' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0),
			COUNT(*)
		 FROM matches WHERE user1_id = ? OR user2_id = ?`, userID, userID,
	).Scan(&s.Accepted, &s.Pending, &s.Rejected, &s.Total)
	if err != nil {
		return nil, fmt.Errorf("query match stats: %w", err)
	}
	return s, nil
}

// ListDiscoverable returns users other than userID that are active, approved
// and verified and share no match of any status with userID.
func (r *MatchRepository) ListDiscoverable(ctx context.Context, userID int64, limit int) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE id != ?
		   AND status = 'active' AND admin_approved = 1 AND is_verified = 1
		   AND id NOT IN (
			SELECT CASE WHEN user1_id = ? THEN user2_id ELSE user1_id END
			FROM matches WHERE user1_id = ? OR user2_id = ?
		   )
		 ORDER BY RANDOM()
		 LIMIT ?`, userID, userID, userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list discoverable users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}
