package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/lovebridge/internal/domain"
)

const defaultThreadLimit = 50

// Translator converts message text between languages.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// StubTranslator marks text as translated without calling a translation
// backend.
type StubTranslator struct{}

func (StubTranslator) Translate(_ context.Context, text, from, to string) (string, error) {
	if from == to {
		return text, nil
	}
	return "[Translated to " + to + "] " + text, nil
}

// MessageService sends and lists direct messages. Each message is stored
// with a translation into the receiver's language.
type MessageService struct {
	messages   domain.MessageRepository
	users      domain.UserRepository
	translator Translator
	sink       domain.NotificationSink
}

// NewMessageService creates a new MessageService.
func NewMessageService(messages domain.MessageRepository, users domain.UserRepository, translator Translator, sink domain.NotificationSink) *MessageService {
	if translator == nil {
		translator = StubTranslator{}
	}
	return &MessageService{messages: messages, users: users, translator: translator, sink: sink}
}

// Send stores a message from msg.SenderID to msg.ReceiverID and notifies the
// receiver.
func (s *MessageService) Send(ctx context.Context, msg *domain.Message) error {
	if msg.SenderID <= 0 || msg.ReceiverID <= 0 {
		return fmt.Errorf("%w: sender and receiver are required", domain.ErrInvalidInput)
	}
	if msg.SenderID == msg.ReceiverID {
		return fmt.Errorf("%w: cannot message yourself", domain.ErrInvalidInput)
	}
	if msg.Type == "" {
		msg.Type = domain.MessageTypeText
	}
	switch msg.Type {
	case domain.MessageTypeText:
		if strings.TrimSpace(msg.OriginalText) == "" {
			return fmt.Errorf("%w: message text is required", domain.ErrInvalidInput)
		}
	case domain.MessageTypePhoto, domain.MessageTypeVideo, domain.MessageTypeVoice:
		if msg.MediaURL == "" {
			return fmt.Errorf("%w: media url is required for %s messages", domain.ErrInvalidInput, msg.Type)
		}
	default:
		return fmt.Errorf("%w: unknown message type %q", domain.ErrInvalidInput, msg.Type)
	}

	sender, err := s.users.GetByID(ctx, msg.SenderID)
	if err != nil {
		return fmt.Errorf("get sender: %w", err)
	}
	receiver, err := s.users.GetByID(ctx, msg.ReceiverID)
	if err != nil {
		return fmt.Errorf("get receiver: %w", err)
	}

	msg.OriginalLanguage = sender.Language
	msg.TranslatedLanguage = receiver.Language
	msg.TranslatedText = msg.OriginalText
	if msg.OriginalText != "" {
		translated, err := s.translator.Translate(ctx, msg.OriginalText, sender.Language, receiver.Language)
		if err != nil {
			return fmt.Errorf("translate message: %w", err)
		}
		msg.TranslatedText = translated
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	notifyBestEffort(ctx, s.sink, receiver.ID, domain.NotificationMessage,
		"New Message", sender.Name+" sent you a message", sender.ID)
	return nil
}

// Thread returns the latest messages between userID and otherUserID in
// chronological order and marks the ones userID received as read.
func (s *MessageService) Thread(ctx context.Context, userID, otherUserID int64, limit int) ([]domain.Message, error) {
	if userID <= 0 || otherUserID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultThreadLimit
	}
	msgs, err := s.messages.ListBetween(ctx, userID, otherUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if err := s.messages.MarkThreadRead(ctx, otherUserID, userID); err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}
	return msgs, nil
}

// Conversations lists the latest message with each counterpart.
func (s *MessageService) Conversations(ctx context.Context, userID int64) ([]domain.Conversation, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}
	return s.messages.ListConversations(ctx, userID)
}

// Translate renders a stored message into targetLanguage on demand. The
// stored message is left unchanged.
func (s *MessageService) Translate(ctx context.Context, messageID int64, targetLanguage string) (*domain.Translation, error) {
	if messageID <= 0 {
		return nil, fmt.Errorf("%w: invalid message id", domain.ErrInvalidInput)
	}
	if !domain.IsSupportedLanguage(targetLanguage) {
		return nil, fmt.Errorf("%w: unsupported language %q", domain.ErrInvalidInput, targetLanguage)
	}
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	translated := msg.OriginalText
	if msg.OriginalText != "" {
		translated, err = s.translator.Translate(ctx, msg.OriginalText, msg.OriginalLanguage, targetLanguage)
		if err != nil {
			return nil, fmt.Errorf("translate message: %w", err)
		}
	}
	return &domain.Translation{
		MessageID:        msg.ID,
		OriginalText:     msg.OriginalText,
		OriginalLanguage: msg.OriginalLanguage,
		TranslatedText:   translated,
		TargetLanguage:   targetLanguage,
	}, nil
}

// Delete removes a message. Only its sender may delete it.
func (s *MessageService) Delete(ctx context.Context, messageID, userID int64) error {
	if messageID <= 0 || userID <= 0 {
		return fmt.Errorf("%w: invalid id", domain.ErrInvalidInput)
	}
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("get message: %w", err)
	}
	if msg.SenderID != userID {
		return fmt.Errorf("%w: user %d did not send message %d", domain.ErrForbidden, userID, messageID)
	}
	if err := s.messages.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// UnreadCount counts the messages userID has received but not read.
func (s *MessageService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}
	return s.messages.CountUnread(ctx, userID)
}
