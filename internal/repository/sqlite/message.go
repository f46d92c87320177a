package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
)

// MessageRepository implements domain.MessageRepository using SQLite.
type MessageRepository struct {
	db *sql.DB
}

var _ domain.MessageRepository = (*MessageRepository)(nil)

func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db.SqlDB}
}

const messageColumns = `id, sender_id, receiver_id, original_text, original_language, translated_text,
	translated_language, message_type, media_url, is_read, read_at, created_at`

func scanMessage(row rowScanner, extra ...any) (domain.Message, error) {
	var m domain.Message
	var translated, translatedLang, mediaURL sql.NullString
	var msgType string
	var readAt sql.NullTime
	dest := []any{&m.ID, &m.SenderID, &m.ReceiverID, &m.OriginalText, &m.OriginalLanguage, &translated,
		&translatedLang, &msgType, &mediaURL, &m.Read, &readAt, &m.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return m, err
	}
	m.TranslatedText = translated.String
	m.TranslatedLanguage = translatedLang.String
	m.Type = domain.MessageType(msgType)
	m.MediaURL = mediaURL.String
	m.ReadAt = timePtr(readAt)
	return m, nil
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	now := time.Now().UTC()
	if m.Type == "" {
		m.Type = domain.MessageTypeText
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (sender_id, receiver_id, original_text, original_language, translated_text,
			translated_language, message_type, media_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.SenderID, m.ReceiverID, m.OriginalText, m.OriginalLanguage, nullString(m.TranslatedText),
		nullString(m.TranslatedLanguage), string(m.Type), nullString(m.MediaURL), now,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query message by id: %w", err)
	}
	return &m, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND is_read = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}

// ListBetween returns the most recent limit messages exchanged by the two
// users, oldest first.
func (r *MessageRepository) ListBetween(ctx context.Context, userID, otherUserID int64, limit int) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages
		 WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, otherUserID, otherUserID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

func (r *MessageRepository) MarkThreadRead(ctx context.Context, senderID, receiverID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE messages SET is_read = 1, read_at = ?
		 WHERE sender_id = ? AND receiver_id = ? AND is_read = 0`,
		time.Now().UTC(), senderID, receiverID)
	if err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}

// ListConversations returns the latest message with each counterpart of
// userID, most recent conversation first.
func (r *MessageRepository) ListConversations(ctx context.Context, userID int64) ([]domain.Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.sender_id, m.receiver_id, m.original_text, m.original_language, m.translated_text,
			m.translated_language, m.message_type, m.media_url, m.is_read, m.read_at, m.created_at,
			u.id, u.name, u.is_verified
		 FROM messages m
		 JOIN users u ON u.id = CASE WHEN m.sender_id = ? THEN m.receiver_id ELSE m.sender_id END
		 WHERE m.id IN (
			SELECT MAX(id) FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			GROUP BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
		 )
		 ORDER BY m.created_at DESC, m.id DESC`,
		userID, userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		msg, err := scanMessage(rows, &c.OtherUserID, &c.OtherUserName, &c.OtherUserVerified)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		c.LastMessage = msg
		out = append(out, c)
	}
	return out, rows.Err()
}
