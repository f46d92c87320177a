package handler

import (
	"net/http"

	"github.com/msomdec/lovebridge/internal/i18n"
	"github.com/msomdec/lovebridge/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles everything the routes depend on.
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Matches       *service.MatchService
	Discovery     *service.DiscoveryService
	Messages      *service.MessageService
	Gifts         *service.GiftService
	Notifications *service.NotificationService

	// ProposeLimiter and LoginLimiter may be nil.
	ProposeLimiter *service.TokenBucket
	LoginLimiter   *service.TokenBucket

	Bundle        *i18n.Bundle
	DefaultLocale string
	CookieSecure  bool
	DB            Pinger
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, s Services) {
	requireAuth := func(h http.HandlerFunc) http.Handler { return RequireAuth(s.Auth, h) }

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /api/health", HandleHealth(s.DB))
	mux.Handle("GET /metrics", promhttp.Handler())

	home := NewHomeHandler(s.Bundle, s.DefaultLocale, s.CookieSecure)
	mux.Handle("GET /", OptionalAuth(s.Auth, http.HandlerFunc(home.HandleHome)))
	mux.HandleFunc("GET /lang/{locale}", home.HandleSwitchLanguage)
	mux.HandleFunc("GET /api/i18n/{locale}", home.HandleMessages)

	auth := NewAuthHandler(s.Auth, s.LoginLimiter, s.CookieSecure)
	mux.HandleFunc("POST /api/auth/register", auth.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", auth.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", auth.HandleLogout)
	mux.Handle("GET /api/auth/me", requireAuth(auth.HandleMe))

	matches := NewMatchHandler(s.Matches, s.Discovery, s.ProposeLimiter)
	mux.HandleFunc("POST /api/matches", matches.HandlePropose)
	mux.HandleFunc("PUT /api/matches/{matchId}/respond", matches.HandleRespond)
	mux.HandleFunc("DELETE /api/matches/{matchId}", matches.HandleUnmatch)
	mux.HandleFunc("GET /api/matches/user/{userId}", matches.HandleList)
	mux.HandleFunc("GET /api/matches/discover/{userId}", matches.HandleDiscover)
	mux.HandleFunc("GET /api/matches/stats/{userId}", matches.HandleStats)

	users := NewUserHandler(s.Users)
	mux.HandleFunc("GET /api/users/search", users.HandleSearch)
	mux.HandleFunc("GET /api/users/{id}", users.HandleGet)
	mux.HandleFunc("PUT /api/users/{id}", users.HandleUpdate)
	mux.HandleFunc("GET /api/users/{id}/verifications", users.HandleListVerifications)
	mux.HandleFunc("POST /api/users/{id}/verifications", users.HandleAddVerification)
	mux.HandleFunc("GET /api/users/{id}/media", users.HandleListMedia)
	mux.HandleFunc("POST /api/users/{id}/media", users.HandleAddMedia)
	mux.HandleFunc("GET /api/users/{id}/preferences", users.HandleGetPreferences)
	mux.HandleFunc("PUT /api/users/{id}/preferences", users.HandleSavePreferences)

	messages := NewMessageHandler(s.Messages)
	mux.HandleFunc("POST /api/messages", messages.HandleSend)
	mux.HandleFunc("POST /api/messages/translate", messages.HandleTranslate)
	mux.HandleFunc("DELETE /api/messages/{messageId}", messages.HandleDelete)
	mux.HandleFunc("GET /api/messages/unread/{userId}", messages.HandleUnread)
	mux.HandleFunc("GET /api/messages/conversations/{userId}", messages.HandleConversations)
	mux.HandleFunc("GET /api/messages/{userId}/with/{otherUserId}", messages.HandleThread)

	gifts := NewGiftHandler(s.Gifts)
	mux.HandleFunc("GET /api/gifts", gifts.HandleList)
	mux.HandleFunc("POST /api/gifts/send", gifts.HandleSend)

	notifications := NewNotificationHandler(s.Notifications)
	mux.HandleFunc("GET /api/notifications/{userId}", notifications.HandleList)
	mux.HandleFunc("PUT /api/notifications/{notificationId}/read", notifications.HandleMarkRead)
}

// Wrap applies the server-wide middleware chain. Logging sits directly on
// the mux so it sees the matched route pattern.
func Wrap(mux *http.ServeMux, corsOrigins []string) http.Handler {
	return SecurityHeaders(CORS(corsOrigins, RequestID(Logging(mux))))
}
