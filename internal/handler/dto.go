package handler

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/service"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// interestsJSON passes stored interests through as a JSON array. Malformed
// values are sent as an empty list.
func interestsJSON(raw string) json.RawMessage {
	if raw == "" || !json.Valid([]byte(raw)) {
		return json.RawMessage("[]")
	}
	return json.RawMessage(raw)
}

// UserDTO is the public JSON representation of a member. It never carries
// the password hash.
type UserDTO struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Gender            string          `json:"gender,omitempty"`
	BirthDate         string          `json:"birthDate,omitempty"`
	Age               *int            `json:"age,omitempty"`
	Country           string          `json:"country,omitempty"`
	City              string          `json:"city,omitempty"`
	Language          string          `json:"language"`
	Bio               string          `json:"bio,omitempty"`
	Interests         json.RawMessage `json:"interests"`
	MBTI              string          `json:"mbti,omitempty"`
	Verified          bool            `json:"verified"`
	VerificationCount int             `json:"verificationCount"`
	MembershipTier    string          `json:"membershipTier"`
	CreatedAt         string          `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	dto := UserDTO{
		ID:                u.ID,
		Name:              u.Name,
		Gender:            u.Gender,
		Country:           u.Country,
		City:              u.City,
		Language:          u.Language,
		Bio:               u.Bio,
		Interests:         interestsJSON(u.Interests),
		MBTI:              u.MBTI,
		Verified:          u.Verified,
		VerificationCount: u.VerificationCount,
		MembershipTier:    u.MembershipTier,
		CreatedAt:         formatTime(u.CreatedAt),
	}
	if u.BirthDate != nil {
		dto.BirthDate = u.BirthDate.Format(domain.BirthDateLayout)
	}
	return dto
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// AccountDTO is the signed-in member's own view, with private fields.
type AccountDTO struct {
	UserDTO
	Email  string `json:"email"`
	Points int    `json:"points"`
	Status string `json:"status"`
}

func toAccountDTO(u *domain.User) AccountDTO {
	return AccountDTO{UserDTO: toUserDTO(u), Email: u.Email, Points: u.Points, Status: string(u.Status)}
}

// MediaDTO is the JSON representation of profile media.
type MediaDTO struct {
	ID           int64   `json:"id"`
	Type         string  `json:"type"`
	URL          string  `json:"url"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
	IsProfile    bool    `json:"isProfile"`
	DisplayOrder int     `json:"displayOrder"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	ExpiresAt    *string `json:"expiresAt,omitempty"`
}

func toMediaDTOs(media []domain.Media) []MediaDTO {
	dtos := make([]MediaDTO, len(media))
	for i, m := range media {
		dtos[i] = MediaDTO{
			ID:           m.ID,
			Type:         string(m.Type),
			URL:          m.URL,
			ThumbnailURL: m.ThumbnailURL,
			IsProfile:    m.IsProfile,
			DisplayOrder: m.DisplayOrder,
			Status:       m.Status,
			CreatedAt:    formatTime(m.CreatedAt),
			ExpiresAt:    formatTimePtr(m.ExpiresAt),
		}
	}
	return dtos
}

// VerificationDTO is the JSON representation of a social verification.
type VerificationDTO struct {
	Provider         string `json:"provider"`
	ProviderUsername string `json:"providerUsername,omitempty"`
	VerifiedAt       string `json:"verifiedAt"`
}

func toVerificationDTOs(vs []domain.SocialVerification) []VerificationDTO {
	dtos := make([]VerificationDTO, len(vs))
	for i, v := range vs {
		dtos[i] = VerificationDTO{Provider: v.Provider, ProviderUsername: v.ProviderUsername, VerifiedAt: formatTime(v.VerifiedAt)}
	}
	return dtos
}

// ProfileDTO is a member profile with verifications and approved media.
type ProfileDTO struct {
	UserDTO
	Verifications []VerificationDTO `json:"verifications"`
	Media         []MediaDTO        `json:"media"`
}

func toProfileDTO(p *service.Profile) ProfileDTO {
	dto := ProfileDTO{
		UserDTO:       toUserDTO(p.User),
		Verifications: toVerificationDTOs(p.Verifications),
		Media:         toMediaDTOs(p.Media),
	}
	dto.Age = p.Age
	return dto
}

// PreferencesDTO is the JSON representation of matching preferences.
type PreferencesDTO struct {
	MinAge             int             `json:"minAge"`
	MaxAge             int             `json:"maxAge"`
	PreferredGender    string          `json:"preferredGender,omitempty"`
	PreferredLanguages json.RawMessage `json:"preferredLanguages"`
	PreferredInterests json.RawMessage `json:"preferredInterests"`
	PreferredCountries json.RawMessage `json:"preferredCountries"`
	MaxDistance        *int            `json:"maxDistance,omitempty"`
}

func toPreferencesDTO(p *domain.Preferences) PreferencesDTO {
	return PreferencesDTO{
		MinAge:             p.MinAge,
		MaxAge:             p.MaxAge,
		PreferredGender:    p.PreferredGender,
		PreferredLanguages: interestsJSON(p.PreferredLanguages),
		PreferredInterests: interestsJSON(p.PreferredInterests),
		PreferredCountries: interestsJSON(p.PreferredCountries),
		MaxDistance:        p.MaxDistance,
	}
}

// MatchDTO is the JSON representation of a match record.
type MatchDTO struct {
	ID          int64   `json:"id"`
	User1ID     int64   `json:"user1Id"`
	User2ID     int64   `json:"user2Id"`
	Score       float64 `json:"score"`
	MatchType   string  `json:"matchType"`
	Status      string  `json:"status"`
	InitiatedBy int64   `json:"initiatedBy"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toMatchDTO(m *domain.Match) MatchDTO {
	return MatchDTO{
		ID:          m.ID,
		User1ID:     m.User1ID,
		User2ID:     m.User2ID,
		Score:       m.Score,
		MatchType:   m.MatchType,
		Status:      string(m.Status),
		InitiatedBy: m.InitiatedBy,
		CreatedAt:   formatTime(m.CreatedAt),
		UpdatedAt:   formatTime(m.UpdatedAt),
	}
}

// MatchWithUserDTO is a match with the counterpart's public profile.
type MatchWithUserDTO struct {
	MatchDTO
	OtherUser UserDTO `json:"otherUser"`
}

func toMatchWithUserDTOs(ms []domain.MatchWithUser) []MatchWithUserDTO {
	dtos := make([]MatchWithUserDTO, len(ms))
	for i := range ms {
		dtos[i] = MatchWithUserDTO{MatchDTO: toMatchDTO(&ms[i].Match), OtherUser: toUserDTO(&ms[i].Other)}
	}
	return dtos
}

// CandidateDTO is one discovery feed entry.
type CandidateDTO struct {
	UserDTO
	Photos []MediaDTO `json:"photos"`
	Score  *float64   `json:"score,omitempty"`
}

func toCandidateDTOs(cs []domain.Candidate) []CandidateDTO {
	dtos := make([]CandidateDTO, len(cs))
	for i := range cs {
		dto := CandidateDTO{UserDTO: toUserDTO(&cs[i].User), Photos: toMediaDTOs(cs[i].Photos), Score: cs[i].Score}
		dto.Age = cs[i].Age
		dtos[i] = dto
	}
	return dtos
}

// MessageDTO is the JSON representation of a direct message.
type MessageDTO struct {
	ID                 int64   `json:"id"`
	SenderID           int64   `json:"senderId"`
	ReceiverID         int64   `json:"receiverId"`
	OriginalText       string  `json:"originalText"`
	OriginalLanguage   string  `json:"originalLanguage"`
	TranslatedText     string  `json:"translatedText,omitempty"`
	TranslatedLanguage string  `json:"translatedLanguage,omitempty"`
	Type               string  `json:"type"`
	MediaURL           string  `json:"mediaUrl,omitempty"`
	Read               bool    `json:"read"`
	ReadAt             *string `json:"readAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
}

func toMessageDTO(m *domain.Message) MessageDTO {
	return MessageDTO{
		ID:                 m.ID,
		SenderID:           m.SenderID,
		ReceiverID:         m.ReceiverID,
		OriginalText:       m.OriginalText,
		OriginalLanguage:   m.OriginalLanguage,
		TranslatedText:     m.TranslatedText,
		TranslatedLanguage: m.TranslatedLanguage,
		Type:               string(m.Type),
		MediaURL:           m.MediaURL,
		Read:               m.Read,
		ReadAt:             formatTimePtr(m.ReadAt),
		CreatedAt:          formatTime(m.CreatedAt),
	}
}

func toMessageDTOs(ms []domain.Message) []MessageDTO {
	dtos := make([]MessageDTO, len(ms))
	for i := range ms {
		dtos[i] = toMessageDTO(&ms[i])
	}
	return dtos
}

// TranslationDTO is an on-demand translation of a message.
type TranslationDTO struct {
	MessageID        int64  `json:"messageId"`
	OriginalText     string `json:"originalText"`
	OriginalLanguage string `json:"originalLanguage"`
	TranslatedText   string `json:"translatedText"`
	TargetLanguage   string `json:"targetLanguage"`
}

func toTranslationDTO(t *domain.Translation) TranslationDTO {
	return TranslationDTO{
		MessageID:        t.MessageID,
		OriginalText:     t.OriginalText,
		OriginalLanguage: t.OriginalLanguage,
		TranslatedText:   t.TranslatedText,
		TargetLanguage:   t.TargetLanguage,
	}
}

// ConversationDTO is the latest message with one counterpart.
type ConversationDTO struct {
	OtherUserID       int64      `json:"otherUserId"`
	OtherUserName     string     `json:"otherUserName"`
	OtherUserVerified bool       `json:"otherUserVerified"`
	LastMessage       MessageDTO `json:"lastMessage"`
}

func toConversationDTOs(cs []domain.Conversation) []ConversationDTO {
	dtos := make([]ConversationDTO, len(cs))
	for i := range cs {
		dtos[i] = ConversationDTO{
			OtherUserID:       cs[i].OtherUserID,
			OtherUserName:     cs[i].OtherUserName,
			OtherUserVerified: cs[i].OtherUserVerified,
			LastMessage:       toMessageDTO(&cs[i].LastMessage),
		}
	}
	return dtos
}

// GiftDTO is the JSON representation of a catalog gift.
type GiftDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"iconUrl,omitempty"`
	CostPoints  int    `json:"costPoints"`
}

func toGiftDTOs(gs []domain.Gift) []GiftDTO {
	dtos := make([]GiftDTO, len(gs))
	for i, g := range gs {
		dtos[i] = GiftDTO{ID: g.ID, Name: g.Name, Description: g.Description, IconURL: g.IconURL, CostPoints: g.CostPoints}
	}
	return dtos
}

// NotificationDTO is the JSON representation of a notification.
type NotificationDTO struct {
	ID            int64   `json:"id"`
	Type          string  `json:"type"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	RelatedUserID *int64  `json:"relatedUserId,omitempty"`
	Read          bool    `json:"read"`
	ReadAt        *string `json:"readAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

func toNotificationDTOs(ns []domain.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, len(ns))
	for i, n := range ns {
		dtos[i] = NotificationDTO{
			ID:            n.ID,
			Type:          string(n.Kind),
			Title:         n.Title,
			Content:       n.Content,
			RelatedUserID: n.RelatedUserID,
			Read:          n.Read,
			ReadAt:        formatTimePtr(n.ReadAt),
			CreatedAt:     formatTime(n.CreatedAt),
		}
	}
	return dtos
}

// encodeList stores a string list as a JSON array; nil stays empty.
func encodeList(list []string) string {
	if list == nil {
		return ""
	}
	b, err := json.Marshal(list)
	if err != nil {
		return ""
	}
	return string(b)
}
