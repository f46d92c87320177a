package service

import (
	"context"
	"fmt"

	"github.com/msomdec/lovebridge/internal/domain"
)

// DefaultGifts is the catalog seeded at startup.
var DefaultGifts = []domain.Gift{
	{Name: "Rose", Description: "A single red rose", IconURL: "/static/gifts/rose.svg", CostPoints: 10},
	{Name: "Heart", Description: "A heart full of love", IconURL: "/static/gifts/heart.svg", CostPoints: 20},
	{Name: "Chocolate", Description: "A box of chocolates", IconURL: "/static/gifts/chocolate.svg", CostPoints: 30},
	{Name: "Teddy Bear", Description: "A cuddly teddy bear", IconURL: "/static/gifts/teddy.svg", CostPoints: 50},
	{Name: "Bouquet", Description: "A bouquet of flowers", IconURL: "/static/gifts/bouquet.svg", CostPoints: 80},
	{Name: "Diamond Ring", Description: "A sparkling diamond ring", IconURL: "/static/gifts/ring.svg", CostPoints: 200},
}

// GiftService manages the gift catalog and gift sending.
type GiftService struct {
	gifts domain.GiftRepository
	users domain.UserRepository
	sink  domain.NotificationSink
}

// NewGiftService creates a new GiftService.
func NewGiftService(gifts domain.GiftRepository, users domain.UserRepository, sink domain.NotificationSink) *GiftService {
	return &GiftService{gifts: gifts, users: users, sink: sink}
}

// SeedCatalog inserts DefaultGifts. Gifts that already exist by name are
// left untouched, so it is safe to run on every start.
func (s *GiftService) SeedCatalog(ctx context.Context) error {
	for _, g := range DefaultGifts {
		if err := s.gifts.CreateIfMissing(ctx, &g); err != nil {
			return fmt.Errorf("seed gift %q: %w", g.Name, err)
		}
	}
	return nil
}

// List returns the catalog ordered by cost.
func (s *GiftService) List(ctx context.Context) ([]domain.Gift, error) {
	return s.gifts.List(ctx)
}

// Send charges the sender the gift's cost and records the gift for the
// receiver.
func (s *GiftService) Send(ctx context.Context, t *domain.GiftTransaction) error {
	if t.SenderID <= 0 || t.ReceiverID <= 0 || t.GiftID <= 0 {
		return fmt.Errorf("%w: gift, sender and receiver are required", domain.ErrInvalidInput)
	}
	if t.SenderID == t.ReceiverID {
		return fmt.Errorf("%w: cannot send a gift to yourself", domain.ErrInvalidInput)
	}

	gift, err := s.gifts.GetByID(ctx, t.GiftID)
	if err != nil {
		return fmt.Errorf("get gift: %w", err)
	}
	sender, err := s.users.GetByID(ctx, t.SenderID)
	if err != nil {
		return fmt.Errorf("get sender: %w", err)
	}
	if _, err := s.users.GetByID(ctx, t.ReceiverID); err != nil {
		return fmt.Errorf("get receiver: %w", err)
	}

	if err := s.gifts.Send(ctx, t, gift.CostPoints); err != nil {
		return fmt.Errorf("send gift: %w", err)
	}

	notifyBestEffort(ctx, s.sink, t.ReceiverID, domain.NotificationGift,
		"New Gift", sender.Name+" sent you a "+gift.Name, t.SenderID)
	return nil
}
