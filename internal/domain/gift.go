package domain

import (
	"context"
	"time"
)

// Gift is a virtual gift that members can buy with points.
type Gift struct {
	ID          int64
	Name        string
	Description string
	IconURL     string
	CostPoints  int
	CreatedAt   time.Time
}

// GiftTransaction records one gift sent between two users.
type GiftTransaction struct {
	ID         int64
	GiftID     int64
	SenderID   int64
	ReceiverID int64
	Message    string
	CreatedAt  time.Time
}

type GiftRepository interface {
	List(ctx context.Context) ([]Gift, error)
	GetByID(ctx context.Context, id int64) (*Gift, error)
	// CreateIfMissing inserts the gift unless one with the same name exists.
	CreateIfMissing(ctx context.Context, gift *Gift) error
	// Send deducts the gift cost from the sender and records the transaction
	// atomically. It returns ErrInsufficientFunds when the sender cannot pay.
	Send(ctx context.Context, tx *GiftTransaction, cost int) error
}
