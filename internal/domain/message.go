package domain

import (
	"context"
	"time"
)

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypePhoto MessageType = "photo"
	MessageTypeVideo MessageType = "video"
	MessageTypeVoice MessageType = "voice"
)

// Message is a direct message between two users, stored with both the
// original text and the text shown to the receiver.
type Message struct {
	ID                 int64
	SenderID           int64
	ReceiverID         int64
	OriginalText       string
	OriginalLanguage   string
	TranslatedText     string
	TranslatedLanguage string
	Type               MessageType
	MediaURL           string
	Read               bool
	ReadAt             *time.Time
	CreatedAt          time.Time
}

// Conversation is the latest message exchanged with one counterpart.
type Conversation struct {
	OtherUserID       int64
	OtherUserName     string
	OtherUserVerified bool
	LastMessage       Message
}

// Translation is a message's text rendered into a requested language.
type Translation struct {
	MessageID        int64
	OriginalText     string
	OriginalLanguage string
	TranslatedText   string
	TargetLanguage   string
}

type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, id int64) (*Message, error)
	Delete(ctx context.Context, id int64) error
	// CountUnread counts the messages userID received and has not read.
	CountUnread(ctx context.Context, userID int64) (int, error)
	// ListBetween returns the latest limit messages between two users in
	// chronological order.
	ListBetween(ctx context.Context, userID, otherUserID int64, limit int) ([]Message, error)
	// MarkThreadRead marks messages from sender to receiver as read.
	MarkThreadRead(ctx context.Context, senderID, receiverID int64) error
	ListConversations(ctx context.Context, userID int64) ([]Conversation, error)
}
