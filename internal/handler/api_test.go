package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/msomdec/lovebridge/internal/domain"
)

func TestUserAPI_ProfileAndVerification(t *testing.T) {
	env := newTestEnv(t)
	u := env.createMember(t, "profile@example.com", func(u *domain.User) { u.Verified = false })
	path := fmt.Sprintf("/api/users/%d", u.ID)

	status, body := env.do(t, http.MethodPut, path, map[string]any{
		"name":      "Mina",
		"country":   "KR",
		"interests": []string{"travel", "k-pop"},
	})
	if status != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%v)", status, body)
	}

	status, body = env.do(t, http.MethodGet, path, nil)
	if status != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", status)
	}
	profile := body["user"].(map[string]any)
	if profile["name"] != "Mina" || profile["country"] != "KR" {
		t.Fatalf("unexpected profile %v", profile)
	}
	if interests, _ := profile["interests"].([]any); len(interests) != 2 {
		t.Fatalf("expected 2 interests, got %v", profile["interests"])
	}
	if _, ok := profile["passwordHash"]; ok {
		t.Fatal("expected password hash to stay private")
	}

	if status, _ := env.do(t, http.MethodPut, path, map[string]any{"gender": "robot"}); status != http.StatusBadRequest {
		t.Fatalf("bad gender: expected 400, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/api/users/9999", nil); status != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/api/users/abc", nil); status != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", status)
	}

	for i, provider := range []string{"facebook", "instagram", "kakao"} {
		status, body = env.do(t, http.MethodPost, path+"/verifications", map[string]string{
			"provider": provider, "providerId": fmt.Sprintf("id-%d", i),
		})
		if status != http.StatusCreated {
			t.Fatalf("verify %s: expected 201, got %d (%v)", provider, status, body)
		}
	}
	if body["verificationCount"] != float64(3) || body["verified"] != true {
		t.Fatalf("expected verified after three providers, got %v", body)
	}
	if status, _ := env.do(t, http.MethodPost, path+"/verifications", map[string]string{"provider": "myspace", "providerId": "x"}); status != http.StatusBadRequest {
		t.Fatalf("unknown provider: expected 400, got %d", status)
	}
}

func TestUserAPI_Preferences(t *testing.T) {
	env := newTestEnv(t)
	u := env.createMember(t, "prefs@example.com")
	path := fmt.Sprintf("/api/users/%d/preferences", u.ID)

	status, body := env.do(t, http.MethodGet, path, nil)
	if status != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", status)
	}
	prefs := body["preferences"].(map[string]any)
	if prefs["minAge"] != float64(18) || prefs["maxAge"] != float64(99) {
		t.Fatalf("expected default age range, got %v", prefs)
	}

	if status, body = env.do(t, http.MethodPut, path, map[string]any{"minAge": 25, "maxAge": 35, "preferredLanguages": []string{"ko"}}); status != http.StatusOK {
		t.Fatalf("save: expected 200, got %d (%v)", status, body)
	}
	if status, _ := env.do(t, http.MethodPut, path, map[string]any{"minAge": 40, "maxAge": 30}); status != http.StatusBadRequest {
		t.Fatalf("inverted range: expected 400, got %d", status)
	}

	_, body = env.do(t, http.MethodGet, path, nil)
	prefs = body["preferences"].(map[string]any)
	if prefs["minAge"] != float64(25) || prefs["maxAge"] != float64(35) {
		t.Fatalf("expected saved age range, got %v", prefs)
	}
}

func TestUserAPI_MediaAndSearch(t *testing.T) {
	env := newTestEnv(t)
	u := env.createMember(t, "media@example.com", func(u *domain.User) { u.Country = "VN" })
	env.createMember(t, "other@example.com", func(u *domain.User) { u.Country = "JP" })

	status, body := env.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/media", u.ID), map[string]any{
		"type": "story", "url": "https://cdn.example/s.mp4",
	})
	if status != http.StatusCreated {
		t.Fatalf("add media: expected 201, got %d (%v)", status, body)
	}
	media := body["media"].(map[string]any)
	if media["status"] != "pending" || media["expiresAt"] == nil {
		t.Fatalf("expected pending story with expiry, got %v", media)
	}

	_, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d/media", u.ID), nil)
	if list, _ := body["media"].([]any); len(list) != 0 {
		t.Fatalf("expected pending media to stay hidden, got %v", body["media"])
	}

	_, body = env.do(t, http.MethodGet, "/api/users/search?country=VN", nil)
	users, _ := body["users"].([]any)
	if len(users) != 1 || idOf(t, users[0].(map[string]any)["id"]) != u.ID {
		t.Fatalf("expected only the VN member, got %v", body["users"])
	}
}

func TestMessageAPI(t *testing.T) {
	env := newTestEnv(t)
	a := env.createMember(t, "a@example.com")
	b := env.createMember(t, "b@example.com", func(u *domain.User) { u.Language = "ko" })

	status, body := env.do(t, http.MethodPost, "/api/messages", map[string]any{
		"senderId": a.ID, "receiverId": b.ID, "text": "hello",
	})
	if status != http.StatusCreated {
		t.Fatalf("send: expected 201, got %d (%v)", status, body)
	}
	msg := body["message"].(map[string]any)
	if msg["translatedText"] != "[Translated to ko] hello" || msg["originalLanguage"] != "en" {
		t.Fatalf("unexpected message %v", msg)
	}

	if status, _ := env.do(t, http.MethodPost, "/api/messages", map[string]any{"senderId": a.ID, "receiverId": a.ID, "text": "me"}); status != http.StatusBadRequest {
		t.Fatalf("self message: expected 400, got %d", status)
	}
	if status, _ := env.do(t, http.MethodPost, "/api/messages", map[string]any{"senderId": a.ID, "receiverId": 9999, "text": "hi"}); status != http.StatusNotFound {
		t.Fatalf("unknown receiver: expected 404, got %d", status)
	}

	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/messages/%d/with/%d", b.ID, a.ID), nil)
	if status != http.StatusOK {
		t.Fatalf("thread: expected 200, got %d", status)
	}
	thread, _ := body["messages"].([]any)
	if len(thread) != 1 {
		t.Fatalf("expected 1 message, got %v", body["messages"])
	}

	_, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/messages/conversations/%d", a.ID), nil)
	convs, _ := body["conversations"].([]any)
	if len(convs) != 1 || idOf(t, convs[0].(map[string]any)["otherUserId"]) != b.ID {
		t.Fatalf("expected one conversation with b, got %v", body["conversations"])
	}
}

func TestMessageAPI_TranslateDeleteUnread(t *testing.T) {
	env := newTestEnv(t)
	a := env.createMember(t, "a@example.com")
	b := env.createMember(t, "b@example.com", func(u *domain.User) { u.Language = "ko" })

	status, body := env.do(t, http.MethodPost, "/api/messages", map[string]any{
		"senderId": a.ID, "receiverId": b.ID, "text": "hello",
	})
	if status != http.StatusCreated {
		t.Fatalf("send: expected 201, got %d (%v)", status, body)
	}
	msgID := idOf(t, body["message"].(map[string]any)["id"])

	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/messages/unread/%d", b.ID), nil)
	if status != http.StatusOK || body["unreadCount"] != float64(1) {
		t.Fatalf("unread: expected 200 with 1, got %d (%v)", status, body)
	}

	status, body = env.do(t, http.MethodPost, "/api/messages/translate", map[string]any{
		"messageId": msgID, "targetLanguage": "es",
	})
	if status != http.StatusOK {
		t.Fatalf("translate: expected 200, got %d (%v)", status, body)
	}
	if body["translatedText"] != "[Translated to es] hello" || body["originalLanguage"] != "en" || body["targetLanguage"] != "es" {
		t.Fatalf("unexpected translation %v", body)
	}
	if status, _ := env.do(t, http.MethodPost, "/api/messages/translate", map[string]any{"messageId": 9999, "targetLanguage": "es"}); status != http.StatusNotFound {
		t.Fatalf("translate unknown: expected 404, got %d", status)
	}
	if status, _ := env.do(t, http.MethodPost, "/api/messages/translate", map[string]any{"messageId": msgID}); status != http.StatusBadRequest {
		t.Fatalf("translate without language: expected 400, got %d", status)
	}

	path := fmt.Sprintf("/api/messages/%d", msgID)
	if status, _ := env.do(t, http.MethodDelete, path, nil); status != http.StatusBadRequest {
		t.Fatalf("delete without userId: expected 400, got %d", status)
	}
	if status, _ := env.do(t, http.MethodDelete, fmt.Sprintf("%s?userId=%d", path, b.ID), nil); status != http.StatusForbidden {
		t.Fatalf("delete by receiver: expected 403, got %d", status)
	}
	status, body = env.do(t, http.MethodDelete, fmt.Sprintf("%s?userId=%d", path, a.ID), nil)
	if status != http.StatusOK || body["message"] != "Message deleted successfully" {
		t.Fatalf("delete: expected 200, got %d (%v)", status, body)
	}
	if status, _ := env.do(t, http.MethodDelete, fmt.Sprintf("%s?userId=%d", path, a.ID), nil); status != http.StatusNotFound {
		t.Fatalf("delete again: expected 404, got %d", status)
	}

	_, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/messages/unread/%d", b.ID), nil)
	if body["unreadCount"] != float64(0) {
		t.Fatalf("expected 0 unread after delete, got %v", body["unreadCount"])
	}
}

func TestGiftAPI(t *testing.T) {
	env := newTestEnv(t)
	rich := env.createMember(t, "rich@example.com", func(u *domain.User) { u.Points = 25 })
	other := env.createMember(t, "other@example.com")

	status, body := env.do(t, http.MethodGet, "/api/gifts", nil)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", status)
	}
	gifts, _ := body["gifts"].([]any)
	if len(gifts) != 6 {
		t.Fatalf("expected 6 seeded gifts, got %d", len(gifts))
	}
	first := gifts[0].(map[string]any)
	if first["name"] != "Rose" || first["costPoints"] != float64(10) {
		t.Fatalf("expected cheapest gift first, got %v", first)
	}
	roseID := idOf(t, first["id"])

	send := map[string]any{"giftId": roseID, "senderId": rich.ID, "receiverId": other.ID}
	if status, body = env.do(t, http.MethodPost, "/api/gifts/send", send); status != http.StatusCreated {
		t.Fatalf("send: expected 201, got %d (%v)", status, body)
	}
	if body["transactionId"] == nil {
		t.Fatal("expected a transaction id")
	}
	env.do(t, http.MethodPost, "/api/gifts/send", send)
	if status, _ = env.do(t, http.MethodPost, "/api/gifts/send", send); status != http.StatusBadRequest {
		t.Fatalf("insufficient points: expected 400, got %d", status)
	}

	sender, err := env.db.Users().GetByID(t.Context(), rich.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if sender.Points != 5 {
		t.Fatalf("expected 5 points left, got %d", sender.Points)
	}
}

func TestNotificationAPI(t *testing.T) {
	env := newTestEnv(t)
	a := env.createMember(t, "a@example.com")
	b := env.createMember(t, "b@example.com")

	env.do(t, http.MethodPost, "/api/matches", map[string]int64{"userA": a.ID, "userB": b.ID})

	status, body := env.do(t, http.MethodGet, fmt.Sprintf("/api/notifications/%d?unread=true", b.ID), nil)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", status)
	}
	list, _ := body["notifications"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected 1 unread notification, got %v", body["notifications"])
	}
	n := list[0].(map[string]any)
	if n["type"] != "match" || idOf(t, n["relatedUserId"]) != a.ID {
		t.Fatalf("unexpected notification %v", n)
	}

	status, body = env.do(t, http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", idOf(t, n["id"])), nil)
	if status != http.StatusOK || body["success"] != true {
		t.Fatalf("mark read: unexpected %d %v", status, body)
	}
	_, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/notifications/%d?unread=true", b.ID), nil)
	if list, _ := body["notifications"].([]any); len(list) != 0 {
		t.Fatalf("expected no unread notifications, got %v", body["notifications"])
	}
	if status, _ := env.do(t, http.MethodPut, "/api/notifications/9999/read", nil); status != http.StatusNotFound {
		t.Fatalf("unknown notification: expected 404, got %d", status)
	}
}
