package domain

import (
	"context"
	"time"
)

// Preferences holds what a user is looking for in a match.
// A user has at most one Preferences record; no record means no filter.
type Preferences struct {
	ID                 int64
	UserID             int64
	MinAge             int
	MaxAge             int
	PreferredGender    string // "male", "female", "both" or empty
	PreferredLanguages string // JSON array of strings
	PreferredInterests string // JSON array of strings
	PreferredCountries string // JSON array of strings
	MaxDistance        *int
	UpdatedAt          time.Time
}

// AcceptsAge reports whether age falls inside the preferred range.
func (p *Preferences) AcceptsAge(age int) bool {
	return age >= p.MinAge && age <= p.MaxAge
}

// PreferencesRepository handles preference persistence.
type PreferencesRepository interface {
	// GetByUser returns ErrNotFound when the user has no preferences.
	GetByUser(ctx context.Context, userID int64) (*Preferences, error)
	Upsert(ctx context.Context, prefs *Preferences) error
}
