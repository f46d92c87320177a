package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/repository/sqlite"
)

func TestMessageRepository_ThreadAndConversations(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewMessageRepository(db)
	ctx := context.Background()
	u := createMembers(t, db, 3)

	send := func(from, to *domain.User, text string) {
		t.Helper()
		m := &domain.Message{SenderID: from.ID, ReceiverID: to.ID, OriginalText: text, OriginalLanguage: "en"}
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	send(u[0], u[1], "hi")
	send(u[1], u[0], "hello")
	send(u[0], u[1], "how are you")
	send(u[2], u[0], "hey")

	thread, err := repo.ListBetween(ctx, u[0].ID, u[1].ID, 2)
	if err != nil {
		t.Fatalf("ListBetween: %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(thread))
	}
	if thread[0].OriginalText != "hello" || thread[1].OriginalText != "how are you" {
		t.Fatalf("expected latest two in chronological order, got %q then %q", thread[0].OriginalText, thread[1].OriginalText)
	}

	if err := repo.MarkThreadRead(ctx, u[1].ID, u[0].ID); err != nil {
		t.Fatalf("MarkThreadRead: %v", err)
	}
	thread, _ = repo.ListBetween(ctx, u[0].ID, u[1].ID, 10)
	for _, m := range thread {
		if m.SenderID == u[1].ID && !m.Read {
			t.Fatal("expected messages from u1 to be read")
		}
		if m.SenderID == u[0].ID && m.Read {
			t.Fatal("expected messages from u0 to stay unread")
		}
	}

	convs, err := repo.ListConversations(ctx, u[0].ID)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].OtherUserID != u[2].ID || convs[0].LastMessage.OriginalText != "hey" {
		t.Fatalf("expected newest conversation with u2, got %+v", convs[0])
	}
	if convs[1].LastMessage.OriginalText != "how are you" {
		t.Fatalf("expected last message of u1 thread, got %q", convs[1].LastMessage.OriginalText)
	}
}

func TestMessageRepository_GetDeleteAndUnread(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewMessageRepository(db)
	ctx := context.Background()
	u := createMembers(t, db, 2)

	var ids []int64
	for _, text := range []string{"one", "two", "three"} {
		m := &domain.Message{SenderID: u[0].ID, ReceiverID: u[1].ID, OriginalText: text, OriginalLanguage: "en"}
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, m.ID)
	}

	got, err := repo.GetByID(ctx, ids[1])
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OriginalText != "two" || got.SenderID != u[0].ID {
		t.Fatalf("expected message two from u0, got %+v", got)
	}
	if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	n, err := repo.CountUnread(ctx, u[1].ID)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 unread, got %d", n)
	}
	if n, _ := repo.CountUnread(ctx, u[0].ID); n != 0 {
		t.Fatalf("expected sender to have 0 unread, got %d", n)
	}

	if err := repo.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, ids[0]); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.MarkThreadRead(ctx, u[0].ID, u[1].ID); err != nil {
		t.Fatalf("MarkThreadRead: %v", err)
	}
	if n, _ := repo.CountUnread(ctx, u[1].ID); n != 0 {
		t.Fatalf("expected 0 unread after reading, got %d", n)
	}
}

func TestNotificationRepository(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewNotificationRepository(db)
	ctx := context.Background()
	u := createMembers(t, db, 2)

	related := u[1].ID
	first := &domain.Notification{UserID: u[0].ID, Kind: domain.NotificationMatch, Title: "New match", RelatedUserID: &related}
	second := &domain.Notification{UserID: u[0].ID, Kind: domain.NotificationSystem, Title: "Welcome"}
	for _, n := range []*domain.Notification{first, second} {
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := repo.MarkRead(ctx, first.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := repo.MarkRead(ctx, 99999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	all, err := repo.ListByUser(ctx, u[0].ID, false, 50)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(all))
	}

	unread, err := repo.ListByUser(ctx, u[0].ID, true, 50)
	if err != nil {
		t.Fatalf("ListByUser unread: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != second.ID {
		t.Fatalf("expected only the unread notification, got %+v", unread)
	}
}

func TestGiftRepository_SendDeductsPoints(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewGiftRepository(db)
	ctx := context.Background()
	u := createMembers(t, db, 2)

	rose := &domain.Gift{Name: "Rose", CostPoints: 10}
	if err := repo.CreateIfMissing(ctx, rose); err != nil {
		t.Fatalf("CreateIfMissing: %v", err)
	}
	again := &domain.Gift{Name: "Rose", CostPoints: 99}
	if err := repo.CreateIfMissing(ctx, again); err != nil {
		t.Fatalf("CreateIfMissing again: %v", err)
	}
	if again.ID != rose.ID {
		t.Fatalf("expected existing gift id %d, got %d", rose.ID, again.ID)
	}
	gifts, _ := repo.List(ctx)
	if len(gifts) != 1 || gifts[0].CostPoints != 10 {
		t.Fatalf("expected one gift costing 10, got %+v", gifts)
	}

	u[0].Points = 15
	if err := db.Users().Update(ctx, u[0]); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := repo.Send(ctx, &domain.GiftTransaction{GiftID: rose.ID, SenderID: u[0].ID, ReceiverID: u[1].ID}, rose.CostPoints); err != nil {
		t.Fatalf("Send: %v", err)
	}
	err := repo.Send(ctx, &domain.GiftTransaction{GiftID: rose.ID, SenderID: u[0].ID, ReceiverID: u[1].ID}, rose.CostPoints)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	sender, _ := db.Users().GetByID(ctx, u[0].ID)
	if sender.Points != 5 {
		t.Fatalf("expected 5 points left, got %d", sender.Points)
	}
}
