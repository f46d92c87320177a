package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/repository/sqlite"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createMember inserts a discoverable member. Options adjust the user
// before it is stored.
func createMember(t *testing.T, db *sqlite.DB, email string, opts ...func(*domain.User)) *domain.User {
	t.Helper()
	birth := time.Date(1996, 1, 10, 0, 0, 0, 0, time.UTC)
	u := &domain.User{
		Email:         email,
		Name:          "Member " + email,
		PasswordHash:  "hash",
		Language:      "en",
		BirthDate:     &birth,
		Verified:      true,
		AdminApproved: true,
		Status:        domain.UserStatusActive,
	}
	for _, opt := range opts {
		opt(u)
	}
	if err := db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("Create %s: %v", email, err)
	}
	return u
}

func bornIn(year int) func(*domain.User) {
	return func(u *domain.User) {
		b := time.Date(year, 1, 10, 0, 0, 0, 0, time.UTC)
		u.BirthDate = &b
	}
}

func withInterests(raw string) func(*domain.User) {
	return func(u *domain.User) { u.Interests = raw }
}

func withLanguage(lang string) func(*domain.User) {
	return func(u *domain.User) { u.Language = lang }
}

func withPoints(n int) func(*domain.User) {
	return func(u *domain.User) { u.Points = n }
}

func setPreferences(t *testing.T, db *sqlite.DB, userID int64, minAge, maxAge int) {
	t.Helper()
	p := &domain.Preferences{UserID: userID, MinAge: minAge, MaxAge: maxAge}
	if err := db.Preferences().Upsert(context.Background(), p); err != nil {
		t.Fatalf("Upsert preferences: %v", err)
	}
}

type sentNotification struct {
	UserID        int64
	Kind          domain.NotificationKind
	Title         string
	Body          string
	RelatedUserID int64
}

// recordingSink keeps every notification in memory.
type recordingSink struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (s *recordingSink) Notify(_ context.Context, userID int64, kind domain.NotificationKind, title, body string, relatedUserID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentNotification{userID, kind, title, body, relatedUserID})
	return nil
}

func (s *recordingSink) all() []sentNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentNotification(nil), s.sent...)
}

type failingSink struct{}

func (failingSink) Notify(context.Context, int64, domain.NotificationKind, string, string, int64) error {
	return errors.New("sink unavailable")
}
