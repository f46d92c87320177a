package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HandleHealthz responds with a 200 OK and a JSON body indicating the server is healthy.
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleHealth also checks the database and answers 503 when it is down.
// GET /api/health
func HandleHealth(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		now := formatTime(time.Now())
		if err := db.PingContext(ctx); err != nil {
			slog.Error("health check database ping", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"success":   false,
				"message":   "Database unavailable",
				"database":  "down",
				"timestamp": now,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "Server is running",
			"database":  "ok",
			"timestamp": now,
		})
	}
}
