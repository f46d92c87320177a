package domain

import (
	"context"
	"time"
)

// UserStatus is the account state of a member.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDeleted   UserStatus = "deleted"
)

const (
	MembershipFree    = "free"
	MembershipPremium = "premium"
)

// BirthDateLayout is the storage and wire format of birth dates.
const BirthDateLayout = "2006-01-02"

// VerifiedThreshold is the number of distinct social verifications a member
// needs before they are marked verified.
const VerifiedThreshold = 3

// User represents a registered member of the platform.
type User struct {
	ID                int64
	Email             string
	PasswordHash      string
	Name              string
	Gender            string // "male", "female", "other" or empty
	BirthDate         *time.Time
	Country           string
	City              string
	Language          string // one of SupportedLanguages
	Bio               string
	Interests         string // JSON array of strings, as stored
	MBTI              string
	Verified          bool
	VerificationCount int
	FaceVerified      bool
	DocumentVerified  bool
	AdminApproved     bool
	Status            UserStatus
	MembershipTier    string
	Points            int
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastLogin         *time.Time
}

// EligibleForDiscovery reports whether the user may appear in other members'
// discovery feeds.
func (u *User) EligibleForDiscovery() bool {
	return u.Status == UserStatusActive && u.AdminApproved && u.Verified
}

// SupportedLanguages lists the language codes a profile may declare.
var SupportedLanguages = []string{"ko", "en", "zh", "ja", "vi", "es", "ar"}

// IsSupportedLanguage reports whether code is one of SupportedLanguages.
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

// UserSearch holds the optional filters of a member search.
type UserSearch struct {
	Query    string
	Country  string
	Language string
	Gender   string
	Limit    int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Search(ctx context.Context, filter UserSearch) ([]User, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

// SocialVerification records one external identity signal for a user.
type SocialVerification struct {
	ID               int64
	UserID           int64
	Provider         string
	ProviderID       string
	ProviderUsername string
	VerifiedAt       time.Time
}

// SocialProviders lists the accepted verification providers.
var SocialProviders = []string{"facebook", "instagram", "kakao", "x", "naver", "google", "wechat"}

// VerificationRepository handles social verification persistence.
type VerificationRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]SocialVerification, error)
	// Add inserts the verification and recomputes the user's verification
	// count and verified flag in one transaction. It returns the new count.
	Add(ctx context.Context, v *SocialVerification, threshold int) (int, error)
}
