package handler

import (
	"net/http"
	"strconv"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/service"
)

// MessageHandler serves direct messages.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessageRequest struct {
	SenderID   int64  `json:"senderId" validate:"required,gt=0"`
	ReceiverID int64  `json:"receiverId" validate:"required,gt=0"`
	Text       string `json:"text" validate:"max=5000"`
	Type       string `json:"type" validate:"omitempty,oneof=text photo video voice"`
	MediaURL   string `json:"mediaUrl" validate:"max=2048"`
}

// HandleSend stores and translates a message.
// POST /api/messages
func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg := &domain.Message{
		SenderID:     req.SenderID,
		ReceiverID:   req.ReceiverID,
		OriginalText: req.Text,
		Type:         domain.MessageType(req.Type),
		MediaURL:     req.MediaURL,
	}
	if err := h.messages.Send(r.Context(), msg); err != nil {
		writeServiceError(w, r, "send message", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": toMessageDTO(msg)})
}

// HandleThread returns the conversation between two users.
// GET /api/messages/{userId}/with/{otherUserId}?limit=
func (h *MessageHandler) HandleThread(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, "list thread", err)
		return
	}
	otherID, err := pathID(r, "otherUserId")
	if err != nil {
		writeServiceError(w, r, "list thread", err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeServiceError(w, r, "list thread", err)
		return
	}

	msgs, err := h.messages.Thread(r.Context(), userID, otherID, limit)
	if err != nil {
		writeServiceError(w, r, "list thread", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": toMessageDTOs(msgs)})
}

// HandleConversations lists the latest message per counterpart.
// GET /api/messages/conversations/{userId}
func (h *MessageHandler) HandleConversations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, "list conversations", err)
		return
	}
	convs, err := h.messages.Conversations(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "list conversations", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": toConversationDTOs(convs)})
}

type translateMessageRequest struct {
	MessageID      int64  `json:"messageId" validate:"required,gt=0"`
	TargetLanguage string `json:"targetLanguage" validate:"required"`
}

// HandleTranslate translates a stored message into another language.
// POST /api/messages/translate
func (h *MessageHandler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateMessageRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tr, err := h.messages.Translate(r.Context(), req.MessageID, req.TargetLanguage)
	if err != nil {
		writeServiceError(w, r, "translate message", err)
		return
	}
	writeJSON(w, http.StatusOK, toTranslationDTO(tr))
}

// HandleDelete removes a message sent by the requesting user.
// DELETE /api/messages/{messageId}?userId=1
// Response: 200 {"message":"Message deleted successfully"}
func (h *MessageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	messageID, err := pathID(r, "messageId")
	if err != nil {
		writeServiceError(w, r, "delete message", err)
		return
	}
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	if err := h.messages.Delete(r.Context(), messageID, userID); err != nil {
		writeServiceError(w, r, "delete message", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Message deleted successfully"})
}

// HandleUnread counts the user's unread messages.
// GET /api/messages/unread/{userId}
func (h *MessageHandler) HandleUnread(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, "count unread", err)
		return
	}
	n, err := h.messages.UnreadCount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "count unread", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unreadCount": n})
}
