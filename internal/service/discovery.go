package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/metrics"
)

const (
	// MaxDiscoveryLimit caps the size of one discovery page.
	MaxDiscoveryLimit = 100

	candidatePhotoLimit = 5
	rankedPoolFactor    = 5
	rankedPoolMax       = 500
)

// DiscoveryOptions tunes DiscoveryService behavior.
type DiscoveryOptions struct {
	// DefaultLimit is used when the caller passes a non-positive limit.
	DefaultLimit int
	// Ranked orders a larger random pool by compatibility instead of
	// returning random candidates.
	Ranked bool
	Now    func() time.Time
}

// DiscoveryService builds the feed of members a user has not yet matched with.
type DiscoveryService struct {
	matches domain.MatchRepository
	users   domain.UserRepository
	prefs   domain.PreferencesRepository
	media   domain.MediaRepository
	opts    DiscoveryOptions
}

// NewDiscoveryService creates a new DiscoveryService.
func NewDiscoveryService(matches domain.MatchRepository, users domain.UserRepository, prefs domain.PreferencesRepository, media domain.MediaRepository, opts DiscoveryOptions) *DiscoveryService {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &DiscoveryService{matches: matches, users: users, prefs: prefs, media: media, opts: opts}
}

// Discover returns up to limit eligible candidates for userID, each with
// their exact age and up to five approved photos.
func (s *DiscoveryService) Discover(ctx context.Context, userID int64, limit int) ([]domain.Candidate, error) {
	requester, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	limit = min(limit, MaxDiscoveryLimit)

	var candidates []domain.Candidate
	if s.opts.Ranked {
		candidates, err = s.ranked(ctx, requester, limit)
	} else {
		candidates, err = s.random(ctx, userID, limit)
	}
	if err != nil {
		return nil, err
	}

	now := s.opts.Now()
	for i := range candidates {
		c := &candidates[i]
		if age, ok := ExactAge(c.User.BirthDate, now); ok {
			c.Age = &age
		}
		photos, err := s.media.ListApprovedPhotos(ctx, c.User.ID, candidatePhotoLimit)
		if err != nil {
			return nil, fmt.Errorf("list photos for user %d: %w", c.User.ID, err)
		}
		c.Photos = photos
	}

	metrics.DiscoveryCandidates.Observe(float64(len(candidates)))
	return candidates, nil
}

func (s *DiscoveryService) random(ctx context.Context, userID int64, limit int) ([]domain.Candidate, error) {
	users, err := s.matches.ListDiscoverable(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list discoverable users: %w", err)
	}
	out := make([]domain.Candidate, len(users))
	for i, u := range users {
		out[i] = domain.Candidate{User: u}
	}
	return out, nil
}

// ranked scores a random pool against the requester and keeps the best.
func (s *DiscoveryService) ranked(ctx context.Context, requester *domain.User, limit int) ([]domain.Candidate, error) {
	pool, err := s.matches.ListDiscoverable(ctx, requester.ID, min(limit*rankedPoolFactor, rankedPoolMax))
	if err != nil {
		return nil, fmt.Errorf("list discoverable users: %w", err)
	}

	mine, err := loadPreferences(ctx, s.prefs, requester.ID)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now()
	out := make([]domain.Candidate, len(pool))
	for i := range pool {
		theirs, err := loadPreferences(ctx, s.prefs, pool[i].ID)
		if err != nil {
			return nil, err
		}
		score := ScoreCompatibility(requester, &pool[i], mine, theirs, now)
		out[i] = domain.Candidate{User: pool[i], Score: &score}
	}

	sort.SliceStable(out, func(i, j int) bool { return *out[i].Score > *out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
