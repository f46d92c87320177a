package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/handler"
	"github.com/msomdec/lovebridge/internal/i18n"
	"github.com/msomdec/lovebridge/internal/repository/sqlite"
	"github.com/msomdec/lovebridge/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-32-bytes"

type testEnv struct {
	db       *sqlite.DB
	services handler.Services
	srv      *httptest.Server
}

// envOption adjusts the services before routes are registered.
type envOption func(db *sqlite.DB, s *handler.Services)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
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

	notifications := service.NewNotificationService(db.Notifications())
	s := handler.Services{
		Auth:          service.NewAuthService(db.Users(), testJWTSecret, 4),
		Users:         service.NewUserService(db.Users(), db.Verifications(), db.Media(), db.Preferences()),
		Matches:       service.NewMatchService(db.Matches(), db.Users(), db.Preferences(), notifications, service.MatchOptions{}),
		Discovery:     service.NewDiscoveryService(db.Matches(), db.Users(), db.Preferences(), db.Media(), service.DiscoveryOptions{}),
		Messages:      service.NewMessageService(db.Messages(), db.Users(), service.StubTranslator{}, notifications),
		Gifts:         service.NewGiftService(db.Gifts(), db.Users(), notifications),
		Notifications: notifications,
		Bundle:        i18n.Default(),
		DefaultLocale: "en",
		DB:            db.SqlDB,
	}
	for _, opt := range opts {
		opt(db, &s)
	}
	if err := s.Gifts.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, s)
	srv := httptest.NewServer(handler.Wrap(mux, []string{"*"}))
	t.Cleanup(srv.Close)

	return &testEnv{db: db, services: s, srv: srv}
}

// createMember inserts a discoverable member directly.
func (e *testEnv) createMember(t *testing.T, email string, opts ...func(*domain.User)) *domain.User {
	t.Helper()
	birth := time.Date(1995, 5, 20, 0, 0, 0, 0, time.UTC)
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
	if err := e.db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("Create %s: %v", email, err)
	}
	return u
}

// do sends a JSON request and decodes a JSON object response.
func (e *testEnv) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		t.Fatalf("%s %s: decode body: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func idOf(t *testing.T, v any) int64 {
	t.Helper()
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("expected numeric id, got %T", v)
	}
	return int64(f)
}
