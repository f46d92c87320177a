package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
)

// GiftRepository implements domain.GiftRepository using SQLite.
type GiftRepository struct {
	db *sql.DB
}

var _ domain.GiftRepository = (*GiftRepository)(nil)

func NewGiftRepository(db *DB) *GiftRepository {
	return &GiftRepository{db: db.SqlDB}
}

func (r *GiftRepository) List(ctx context.Context) ([]domain.Gift, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, icon_url, cost_points, created_at FROM gifts ORDER BY cost_points, id`)
	if err != nil {
		return nil, fmt.Errorf("list gifts: %w", err)
	}
	defer rows.Close()

	var out []domain.Gift
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gift: %w", err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func scanGift(row rowScanner) (*domain.Gift, error) {
	g := &domain.Gift{}
	var desc, icon sql.NullString
	if err := row.Scan(&g.ID, &g.Name, &desc, &icon, &g.CostPoints, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.Description = desc.String
	g.IconURL = icon.String
	return g, nil
}

func (r *GiftRepository) GetByID(ctx context.Context, id int64) (*domain.Gift, error) {
	g, err := scanGift(r.db.QueryRowContext(ctx,
		`SELECT id, name, description, icon_url, cost_points, created_at FROM gifts WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query gift: %w", err)
	}
	return g, nil
}

// CreateIfMissing inserts the gift unless one with the same name exists, in
// which case the gift's ID is loaded from the existing row.
func (r *GiftRepository) CreateIfMissing(ctx context.Context, g *domain.Gift) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO gifts (name, description, icon_url, cost_points, created_at)
		 VALUES (?, ?, ?, ?, ?) ON CONFLICT(name) DO NOTHING`,
		g.Name, nullString(g.Description), nullString(g.IconURL), g.CostPoints, now,
	); err != nil {
		return fmt.Errorf("insert gift: %w", err)
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM gifts WHERE name = ?`, g.Name,
	).Scan(&g.ID, &g.CreatedAt); err != nil {
		return fmt.Errorf("load gift: %w", err)
	}
	return nil
}

// Send deducts cost points from the sender and records the transaction.
// The deduction only happens when the balance covers it.
func (r *GiftRepository) Send(ctx context.Context, t *domain.GiftTransaction, cost int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE users SET points = points - ?, updated_at = ? WHERE id = ? AND points >= ?`,
		cost, now, t.SenderID, cost)
	if err != nil {
		return fmt.Errorf("deduct points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrInsufficientFunds
	}

	result, err = tx.ExecContext(ctx,
		`INSERT INTO gift_transactions (gift_id, sender_id, receiver_id, message, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.GiftID, t.SenderID, t.ReceiverID, nullString(t.Message), now)
	if err != nil {
		return fmt.Errorf("insert gift transaction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	t.ID = id
	t.CreatedAt = now
	return nil
}
