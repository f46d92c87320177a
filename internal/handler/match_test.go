package handler_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/handler"
	"github.com/msomdec/lovebridge/internal/repository/sqlite"
	"github.com/msomdec/lovebridge/internal/service"
)

func TestMatchAPI_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	a := env.createMember(t, "a@example.com")
	b := env.createMember(t, "b@example.com")

	status, body := env.do(t, http.MethodPost, "/api/matches", map[string]int64{"userA": a.ID, "userB": b.ID})
	if status != http.StatusCreated {
		t.Fatalf("propose: expected 201, got %d (%v)", status, body)
	}
	if body["status"] != "pending" {
		t.Fatalf("expected pending, got %v", body["status"])
	}
	matchID := idOf(t, body["matchId"])
	if score, _ := body["score"].(float64); score < 0.5 || score > 1 {
		t.Fatalf("expected score within [0.5, 1], got %v", body["score"])
	}

	// Same pair, reversed order.
	status, body = env.do(t, http.MethodPost, "/api/matches", map[string]int64{"userA": b.ID, "userB": a.ID})
	if status != http.StatusConflict {
		t.Fatalf("duplicate propose: expected 409, got %d", status)
	}
	existing, ok := body["match"].(map[string]any)
	if !ok {
		t.Fatalf("expected existing match in conflict body, got %v", body)
	}
	if idOf(t, existing["id"]) != matchID {
		t.Fatalf("expected existing match %d, got %v", matchID, existing["id"])
	}
	if body["error"] == nil {
		t.Fatal("expected an error message in conflict body")
	}

	path := fmt.Sprintf("/api/matches/%d/respond", matchID)
	status, body = env.do(t, http.MethodPut, path, map[string]any{"userId": b.ID, "action": "accept"})
	if status != http.StatusOK || body["status"] != "accepted" {
		t.Fatalf("respond: expected 200 accepted, got %d %v", status, body)
	}

	status, _ = env.do(t, http.MethodPut, path, map[string]any{"userId": a.ID, "action": "accept"})
	if status != http.StatusForbidden {
		t.Fatalf("initiator respond: expected 403, got %d", status)
	}

	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/matches/stats/%d", a.ID), nil)
	if status != http.StatusOK || body["accepted"] != float64(1) || body["total"] != float64(1) {
		t.Fatalf("stats: unexpected %d %v", status, body)
	}

	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/matches/user/%d?status=accepted", a.ID), nil)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", status)
	}
	if list, _ := body["matches"].([]any); len(list) != 1 {
		t.Fatalf("expected 1 match, got %v", body["matches"])
	}

	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/notifications/%d", a.ID), nil)
	if status != http.StatusOK {
		t.Fatalf("notifications: expected 200, got %d", status)
	}
	if list, _ := body["notifications"].([]any); len(list) != 1 {
		t.Fatalf("expected the accept notification for the initiator, got %v", body["notifications"])
	}

	del := fmt.Sprintf("/api/matches/%d?userId=%d", matchID, b.ID)
	status, body = env.do(t, http.MethodDelete, del, nil)
	if status != http.StatusOK || body["message"] != "Match removed successfully" {
		t.Fatalf("unmatch: unexpected %d %v", status, body)
	}
	if status, _ = env.do(t, http.MethodDelete, del, nil); status != http.StatusNotFound {
		t.Fatalf("second unmatch: expected 404, got %d", status)
	}
}

func TestMatchAPI_ProposeErrors(t *testing.T) {
	env := newTestEnv(t)
	a := env.createMember(t, "a@example.com")

	cases := []struct {
		name string
		body any
		want int
	}{
		{"self", map[string]int64{"userA": a.ID, "userB": a.ID}, http.StatusBadRequest},
		{"missing user", map[string]int64{"userA": a.ID}, http.StatusBadRequest},
		{"unknown user", map[string]int64{"userA": a.ID, "userB": 9999}, http.StatusNotFound},
		{"bad body", "not an object", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/matches", tc.body)
			if status != tc.want {
				t.Fatalf("expected %d, got %d (%v)", tc.want, status, body)
			}
			if body["error"] == nil {
				t.Fatal("expected an error body")
			}
		})
	}
}

func TestMatchAPI_RespondErrors(t *testing.T) {
	env := newTestEnv(t)
	a := env.createMember(t, "a@example.com")
	b := env.createMember(t, "b@example.com")
	c := env.createMember(t, "c@example.com")

	_, body := env.do(t, http.MethodPost, "/api/matches", map[string]int64{"userA": a.ID, "userB": b.ID})
	matchID := idOf(t, body["matchId"])
	path := fmt.Sprintf("/api/matches/%d/respond", matchID)

	if status, _ := env.do(t, http.MethodPut, path, map[string]any{"userId": b.ID, "action": "maybe"}); status != http.StatusBadRequest {
		t.Fatalf("invalid action: expected 400, got %d", status)
	}
	if status, _ := env.do(t, http.MethodPut, "/api/matches/9999/respond", map[string]any{"userId": b.ID, "action": "accept"}); status != http.StatusNotFound {
		t.Fatalf("missing match: expected 404, got %d", status)
	}
	if status, _ := env.do(t, http.MethodPut, path, map[string]any{"userId": c.ID, "action": "accept"}); status != http.StatusForbidden {
		t.Fatalf("outsider: expected 403, got %d", status)
	}
	if status, _ := env.do(t, http.MethodPut, path, map[string]any{"userId": b.ID, "action": "reject"}); status != http.StatusOK {
		t.Fatalf("reject: expected 200, got %d", status)
	}
	if status, _ := env.do(t, http.MethodPut, path, map[string]any{"userId": b.ID, "action": "accept"}); status != http.StatusConflict {
		t.Fatalf("flip decision: expected 409, got %d", status)
	}
	if status, _ := env.do(t, http.MethodDelete, fmt.Sprintf("/api/matches/%d", matchID), nil); status != http.StatusBadRequest {
		t.Fatalf("unmatch without userId: expected 400, got %d", status)
	}
}

func TestMatchAPI_InitiatorResponseAllowed(t *testing.T) {
	env := newTestEnv(t, func(db *sqlite.DB, s *handler.Services) {
		s.Matches = service.NewMatchService(db.Matches(), db.Users(), db.Preferences(), s.Notifications,
			service.MatchOptions{AllowInitiatorResponse: true})
	})
	a := env.createMember(t, "a@example.com")
	b := env.createMember(t, "b@example.com")

	_, body := env.do(t, http.MethodPost, "/api/matches", map[string]int64{"userA": a.ID, "userB": b.ID})
	path := fmt.Sprintf("/api/matches/%d/respond", idOf(t, body["matchId"]))

	status, body := env.do(t, http.MethodPut, path, map[string]any{"userId": a.ID, "action": "reject"})
	if status != http.StatusOK || body["status"] != "rejected" {
		t.Fatalf("expected initiator reject to succeed, got %d %v", status, body)
	}
}

func TestMatchAPI_ProposeRateLimited(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	env := newTestEnv(t, func(_ *sqlite.DB, s *handler.Services) {
		s.ProposeLimiter = service.NewTokenBucketWithClock(0, 1, func() time.Time { return now })
	})
	a := env.createMember(t, "a@example.com")
	b := env.createMember(t, "b@example.com")
	c := env.createMember(t, "c@example.com")

	if status, _ := env.do(t, http.MethodPost, "/api/matches", map[string]int64{"userA": a.ID, "userB": b.ID}); status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if status, _ := env.do(t, http.MethodPost, "/api/matches", map[string]int64{"userA": a.ID, "userB": c.ID}); status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
	// Limits are per proposer.
	if status, _ := env.do(t, http.MethodPost, "/api/matches", map[string]int64{"userA": c.ID, "userB": b.ID}); status != http.StatusCreated {
		t.Fatalf("expected 201 for another proposer, got %d", status)
	}
}

func TestMatchAPI_Discover(t *testing.T) {
	env := newTestEnv(t)
	me := env.createMember(t, "me@example.com")
	matched := env.createMember(t, "matched@example.com")
	open := env.createMember(t, "open@example.com")
	env.createMember(t, "hidden@example.com", func(u *domain.User) { u.Verified = false })

	if status, _ := env.do(t, http.MethodPost, "/api/matches", map[string]int64{"userA": me.ID, "userB": matched.ID}); status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}

	status, body := env.do(t, http.MethodGet, fmt.Sprintf("/api/matches/discover/%d?limit=10", me.ID), nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	list, _ := body["candidates"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected 1 candidate, got %v", body["candidates"])
	}
	cand := list[0].(map[string]any)
	if idOf(t, cand["id"]) != open.ID {
		t.Fatalf("expected candidate %d, got %v", open.ID, cand["id"])
	}
	if _, ok := cand["photos"].([]any); !ok {
		t.Fatalf("expected photos array, got %v", cand["photos"])
	}
	if _, ok := cand["email"]; ok {
		t.Fatal("expected email to stay private in discovery")
	}

	if status, _ := env.do(t, http.MethodGet, fmt.Sprintf("/api/matches/discover/%d?limit=-1", me.ID), nil); status != http.StatusBadRequest {
		t.Fatalf("negative limit: expected 400, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/api/matches/discover/9999", nil); status != http.StatusNotFound {
		t.Fatalf("unknown requester: expected 404, got %d", status)
	}
}
