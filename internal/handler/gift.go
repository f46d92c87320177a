package handler

import (
	"net/http"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/service"
)

// GiftHandler serves the gift catalog and gift sending.
type GiftHandler struct {
	gifts *service.GiftService
}

// NewGiftHandler creates a new GiftHandler.
func NewGiftHandler(gifts *service.GiftService) *GiftHandler {
	return &GiftHandler{gifts: gifts}
}

// HandleList returns the catalog ordered by cost.
// GET /api/gifts
func (h *GiftHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	gifts, err := h.gifts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list gifts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gifts": toGiftDTOs(gifts)})
}

type sendGiftRequest struct {
	GiftID     int64  `json:"giftId" validate:"required,gt=0"`
	SenderID   int64  `json:"senderId" validate:"required,gt=0"`
	ReceiverID int64  `json:"receiverId" validate:"required,gt=0"`
	Message    string `json:"message" validate:"max=500"`
}

// HandleSend sends a gift, paid with the sender's points.
// POST /api/gifts/send
func (h *GiftHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendGiftRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx := &domain.GiftTransaction{
		GiftID:     req.GiftID,
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
	}
	if err := h.gifts.Send(r.Context(), tx); err != nil {
		writeServiceError(w, r, "send gift", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"transactionId": tx.ID,
		"createdAt":     formatTime(tx.CreatedAt),
	})
}
