package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/repository/sqlite"
	"github.com/msomdec/lovebridge/internal/service"
)

func newSeededGiftService(t *testing.T, db *sqlite.DB, sink domain.NotificationSink) *service.GiftService {
	t.Helper()
	svc := service.NewGiftService(db.Gifts(), db.Users(), sink)
	if err := svc.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}
	return svc
}

func TestGiftService_SeedCatalogIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newSeededGiftService(t, db, nil)
	ctx := context.Background()

	if err := svc.SeedCatalog(ctx); err != nil {
		t.Fatalf("second SeedCatalog: %v", err)
	}
	gifts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(gifts) != len(service.DefaultGifts) {
		t.Fatalf("expected %d gifts, got %d", len(service.DefaultGifts), len(gifts))
	}
	for i := 1; i < len(gifts); i++ {
		if gifts[i].CostPoints < gifts[i-1].CostPoints {
			t.Fatalf("expected gifts ordered by cost, got %d before %d", gifts[i-1].CostPoints, gifts[i].CostPoints)
		}
	}
}

func TestGiftService_Send(t *testing.T) {
	db := newTestDB(t)
	sink := &recordingSink{}
	svc := newSeededGiftService(t, db, sink)
	ctx := context.Background()
	sender := createMember(t, db, "s@example.com", withPoints(100))
	receiver := createMember(t, db, "r@example.com")

	gifts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	rose := gifts[0]

	tx := &domain.GiftTransaction{GiftID: rose.ID, SenderID: sender.ID, ReceiverID: receiver.ID, Message: "for you"}
	if err := svc.Send(ctx, tx); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if tx.ID == 0 {
		t.Fatal("expected transaction ID to be set")
	}

	stored, err := db.Users().GetByID(ctx, sender.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Points != 100-rose.CostPoints {
		t.Fatalf("expected %d points left, got %d", 100-rose.CostPoints, stored.Points)
	}

	sent := sink.all()
	if len(sent) != 1 || sent[0].UserID != receiver.ID || sent[0].Kind != domain.NotificationGift {
		t.Fatalf("unexpected notifications %+v", sent)
	}
}

func TestGiftService_Send_InsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	svc := newSeededGiftService(t, db, nil)
	ctx := context.Background()
	sender := createMember(t, db, "s@example.com", withPoints(5))
	receiver := createMember(t, db, "r@example.com")

	gifts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	err = svc.Send(ctx, &domain.GiftTransaction{GiftID: gifts[0].ID, SenderID: sender.ID, ReceiverID: receiver.ID})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	stored, err := db.Users().GetByID(ctx, sender.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Points != 5 {
		t.Fatalf("expected balance unchanged at 5, got %d", stored.Points)
	}
}

func TestGiftService_Send_Invalid(t *testing.T) {
	db := newTestDB(t)
	svc := newSeededGiftService(t, db, nil)
	ctx := context.Background()
	a := createMember(t, db, "a@example.com", withPoints(100))

	if err := svc.Send(ctx, &domain.GiftTransaction{GiftID: 1, SenderID: a.ID, ReceiverID: a.ID}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self gift, got %v", err)
	}
	if err := svc.Send(ctx, &domain.GiftTransaction{GiftID: 9999, SenderID: a.ID, ReceiverID: 2}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown gift, got %v", err)
	}
}
