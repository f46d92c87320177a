package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/service"
)

// MatchHandler serves the match lifecycle and discovery API.
type MatchHandler struct {
	matches   *service.MatchService
	discovery *service.DiscoveryService
	limiter   *service.TokenBucket
}

// NewMatchHandler creates a new MatchHandler. limiter may be nil to disable
// proposal rate limiting.
func NewMatchHandler(matches *service.MatchService, discovery *service.DiscoveryService, limiter *service.TokenBucket) *MatchHandler {
	return &MatchHandler{matches: matches, discovery: discovery, limiter: limiter}
}

type proposeRequest struct {
	UserA int64 `json:"userA" validate:"required,gt=0"`
	UserB int64 `json:"userB" validate:"required,gt=0"`
}

// HandlePropose creates a pending match.
// POST /api/matches
// Request:  {"userA":1,"userB":2}
// Response: 201 {"matchId":..,"score":..,"status":"pending"}
//
//	409 {"error":"...","match":{...}} when the pair already has a match.
func (h *MatchHandler) HandlePropose(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.limiter != nil && !h.limiter.Allow("propose:"+strconv.FormatInt(req.UserA, 10)) {
		writeError(w, http.StatusTooManyRequests, "Too many match requests. Please slow down.")
		return
	}

	m, err := h.matches.Propose(r.Context(), req.UserA, req.UserB)
	if err != nil {
		var exists *domain.MatchExistsError
		if errors.As(err, &exists) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error": "Match already exists",
				"match": toMatchDTO(exists.Existing),
			})
			return
		}
		writeServiceError(w, r, "propose match", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"matchId": m.ID,
		"score":   m.Score,
		"status":  m.Status,
	})
}

type respondRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Action string `json:"action" validate:"required"`
}

// HandleRespond accepts or rejects a match.
// PUT /api/matches/{matchId}/respond
// Request:  {"userId":2,"action":"accept"}
// Response: 200 {"status":"accepted"}
func (h *MatchHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchId")
	if err != nil {
		writeServiceError(w, r, "respond match", err)
		return
	}
	var req respondRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Action != service.ActionAccept && req.Action != service.ActionReject {
		writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.matches.Respond(r.Context(), matchID, req.UserID, req.Action)
	if err != nil {
		writeServiceError(w, r, "respond match", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": m.Status})
}

// HandleUnmatch removes a match.
// DELETE /api/matches/{matchId}?userId=2
// Response: 200 {"message":"Match removed successfully"}
func (h *MatchHandler) HandleUnmatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchId")
	if err != nil {
		writeServiceError(w, r, "unmatch", err)
		return
	}
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	if err := h.matches.Unmatch(r.Context(), matchID, userID); err != nil {
		writeServiceError(w, r, "unmatch", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Match removed successfully"})
}

// HandleList lists a user's matches, optionally filtered by status.
// GET /api/matches/user/{userId}?status=
func (h *MatchHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, "list matches", err)
		return
	}
	matches, err := h.matches.ListForUser(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, "list matches", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": toMatchWithUserDTOs(matches)})
}

// HandleDiscover returns discovery candidates for a user.
// GET /api/matches/discover/{userId}?limit=
func (h *MatchHandler) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, "discover", err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeServiceError(w, r, "discover", err)
		return
	}
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must not be negative")
		return
	}

	candidates, err := h.discovery.Discover(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, r, "discover", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": toCandidateDTOs(candidates)})
}

// HandleStats returns a user's match counts.
// GET /api/matches/stats/{userId}
func (h *MatchHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, "match stats", err)
		return
	}
	stats, err := h.matches.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "match stats", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"accepted": stats.Accepted,
		"pending":  stats.Pending,
		"rejected": stats.Rejected,
		"total":    stats.Total,
	})
}
