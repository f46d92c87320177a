package domain

import (
	"context"
	"time"
)

type MediaType string

const (
	MediaTypePhoto MediaType = "photo"
	MediaTypeVideo MediaType = "video"
	MediaTypeStory MediaType = "story"
)

const (
	MediaStatusPending  = "pending"
	MediaStatusApproved = "approved"
	MediaStatusRejected = "rejected"
)

// Media is a photo, video or story attached to a user profile. The bytes
// live elsewhere; only the URLs are stored.
type Media struct {
	ID           int64
	UserID       int64
	Type         MediaType
	URL          string
	ThumbnailURL string
	IsProfile    bool
	DisplayOrder int
	Status       string
	CreatedAt    time.Time
	ExpiresAt    *time.Time
}

// MediaRepository handles media metadata persistence.
type MediaRepository interface {
	Create(ctx context.Context, media *Media) error
	// CreateWithinLimit inserts media unless the user already holds limit
	// non-rejected media of its type, in which case it returns ErrInvalidInput.
	CreateWithinLimit(ctx context.Context, media *Media, limit int) error
	// ListApproved returns approved media for a user, optionally filtered by
	// type, ordered by display order.
	ListApproved(ctx context.Context, userID int64, mediaType MediaType) ([]Media, error)
	// ListApprovedPhotos returns at most limit approved photos, profile photo first.
	ListApprovedPhotos(ctx context.Context, userID int64, limit int) ([]Media, error)
	// SetStatus is the entry point for the moderation workflow that approves
	// or rejects pending media.
	SetStatus(ctx context.Context, id int64, status string) error
}
