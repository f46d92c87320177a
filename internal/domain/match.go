package domain

import (
	"context"
	"time"
)

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
)

// ValidMatchStatus reports whether s names a stored match state.
func ValidMatchStatus(s string) bool {
	switch MatchStatus(s) {
	case MatchStatusPending, MatchStatusAccepted, MatchStatusRejected:
		return true
	}
	return false
}

const MatchTypeManual = "manual"

// Match is a proposed or decided pairing between two users. User1ID is the
// initiator. At most one Match exists per unordered pair of users.
type Match struct {
	ID          int64
	User1ID     int64
	User2ID     int64
	Score       float64
	MatchType   string
	Status      MatchStatus
	InitiatedBy int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Involves reports whether userID is one of the two participants.
func (m *Match) Involves(userID int64) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// Counterpart returns the participant that is not userID.
func (m *Match) Counterpart(userID int64) int64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// PairKey returns the order-independent key of a pair of user IDs.
func PairKey(a, b int64) (low, high int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// MatchWithUser is a match joined with the counterpart's public profile.
type MatchWithUser struct {
	Match
	Other User
}

// MatchStats aggregates a user's matches by status.
type MatchStats struct {
	Accepted int
	Pending  int
	Rejected int
	Total    int
}

// Candidate is a discovery feed entry.
type Candidate struct {
	User   User
	Age    *int
	Photos []Media
	Score  *float64 // set only when discovery ranks by compatibility
}

// MatchRepository handles match persistence.
type MatchRepository interface {
	// Create inserts a match. It returns ErrConflict when a match already
	// exists for the unordered pair.
	Create(ctx context.Context, match *Match) error
	GetByID(ctx context.Context, id int64) (*Match, error)
	FindByPair(ctx context.Context, a, b int64) (*Match, error)
	ListByUser(ctx context.Context, userID int64, status MatchStatus) ([]MatchWithUser, error)
	// UpdateStatusIfPending moves a pending match to status. It returns
	// false without error when the match is no longer pending.
	UpdateStatusIfPending(ctx context.Context, id int64, status MatchStatus) (bool, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, userID int64) (*MatchStats, error)
	// ListDiscoverable returns up to limit users eligible for discovery that
	// have no match of any status with userID, in random order.
	ListDiscoverable(ctx context.Context, userID int64, limit int) ([]User, error)
}
