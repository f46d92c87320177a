package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/metrics"
)

// Response actions accepted by Respond.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// MatchOptions tunes MatchService behavior.
type MatchOptions struct {
	// AllowInitiatorResponse lets the member who proposed a match accept or
	// reject it themselves.
	AllowInitiatorResponse bool
	// Now overrides the clock used for age scoring. Defaults to time.Now.
	Now func() time.Time
}

// MatchService manages the lifecycle of matches: proposal, response,
// removal and reporting.
type MatchService struct {
	matches domain.MatchRepository
	users   domain.UserRepository
	prefs   domain.PreferencesRepository
	sink    domain.NotificationSink
	opts    MatchOptions
}

// NewMatchService creates a new MatchService. sink may be nil, in which case
// no notifications are sent.
func NewMatchService(matches domain.MatchRepository, users domain.UserRepository, prefs domain.PreferencesRepository, sink domain.NotificationSink, opts MatchOptions) *MatchService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &MatchService{matches: matches, users: users, prefs: prefs, sink: sink, opts: opts}
}

// Propose creates a pending match initiated by userA towards userB. When a
// match already exists for the pair, in either direction, it returns a
// *domain.MatchExistsError carrying the existing match.
func (s *MatchService) Propose(ctx context.Context, userA, userB int64) (*domain.Match, error) {
	m, err := s.propose(ctx, userA, userB)
	switch {
	case err == nil:
		metrics.MatchesProposedTotal.WithLabelValues("created").Inc()
		metrics.MatchScore.Observe(m.Score)
	case errors.Is(err, domain.ErrConflict):
		metrics.MatchesProposedTotal.WithLabelValues("conflict").Inc()
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
		metrics.MatchesProposedTotal.WithLabelValues("invalid").Inc()
	default:
		metrics.MatchesProposedTotal.WithLabelValues("error").Inc()
	}
	return m, err
}

func (s *MatchService) propose(ctx context.Context, userA, userB int64) (*domain.Match, error) {
	if userA <= 0 || userB <= 0 {
		return nil, fmt.Errorf("%w: user ids must be positive", domain.ErrInvalidInput)
	}
	if userA == userB {
		return nil, fmt.Errorf("%w: cannot match a user with themselves", domain.ErrInvalidInput)
	}

	a, err := s.users.GetByID(ctx, userA)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userA, err)
	}
	b, err := s.users.GetByID(ctx, userB)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userB, err)
	}

	existing, err := s.matches.FindByPair(ctx, userA, userB)
	if err == nil {
		return nil, &domain.MatchExistsError{Existing: existing}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find match: %w", err)
	}

	prefsA, err := loadPreferences(ctx, s.prefs, userA)
	if err != nil {
		return nil, err
	}
	prefsB, err := loadPreferences(ctx, s.prefs, userB)
	if err != nil {
		return nil, err
	}

	m := &domain.Match{
		User1ID:     userA,
		User2ID:     userB,
		Score:       ScoreCompatibility(a, b, prefsA, prefsB, s.opts.Now()),
		MatchType:   domain.MatchTypeManual,
		Status:      domain.MatchStatusPending,
		InitiatedBy: userA,
	}
	if err := s.matches.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost a race with a concurrent proposal for the same pair.
			existing, ferr := s.matches.FindByPair(ctx, userA, userB)
			if ferr != nil {
				return nil, fmt.Errorf("find match after conflict: %w", ferr)
			}
			return nil, &domain.MatchExistsError{Existing: existing}
		}
		return nil, fmt.Errorf("create match: %w", err)
	}

	notifyBestEffort(ctx, s.sink, userB, domain.NotificationMatch,
		"New Match Request", a.Name+" wants to connect with you!", userA)
	return m, nil
}

// loadPreferences returns nil when the user has no preferences.
func loadPreferences(ctx context.Context, prefs domain.PreferencesRepository, userID int64) (*domain.Preferences, error) {
	p, err := prefs.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get preferences for user %d: %w", userID, err)
	}
	return p, nil
}

// Respond records userID's accept or reject decision on a pending match.
// Repeating the decision already stored succeeds without side effects; the
// opposite decision on a decided match is a conflict.
func (s *MatchService) Respond(ctx context.Context, matchID, userID int64, action string) (*domain.Match, error) {
	var target domain.MatchStatus
	switch action {
	case ActionAccept:
		target = domain.MatchStatusAccepted
	case ActionReject:
		target = domain.MatchStatusRejected
	default:
		return nil, fmt.Errorf("%w: action must be %q or %q", domain.ErrInvalidInput, ActionAccept, ActionReject)
	}

	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if !m.Involves(userID) {
		return nil, fmt.Errorf("%w: user %d is not part of match %d", domain.ErrForbidden, userID, matchID)
	}
	if userID == m.InitiatedBy && !s.opts.AllowInitiatorResponse {
		return nil, fmt.Errorf("%w: the initiator cannot respond to their own match", domain.ErrForbidden)
	}

	if m.Status != domain.MatchStatusPending {
		return s.settled(m, target)
	}

	applied, err := s.matches.UpdateStatusIfPending(ctx, matchID, target)
	if err != nil {
		return nil, fmt.Errorf("update match: %w", err)
	}
	if !applied {
		// Someone decided between our read and our write.
		current, err := s.matches.GetByID(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("get match: %w", err)
		}
		return s.settled(current, target)
	}

	m.Status = target
	m.UpdatedAt = s.opts.Now().UTC()
	metrics.MatchResponsesTotal.WithLabelValues(action).Inc()

	if target == domain.MatchStatusAccepted {
		name := "Someone"
		if responder, err := s.users.GetByID(ctx, userID); err == nil {
			name = responder.Name
		}
		notifyBestEffort(ctx, s.sink, m.Counterpart(userID), domain.NotificationMatch,
			"It's a Match!", name+" accepted your match request!", userID)
	}
	return m, nil
}

// settled resolves a response against a match that is no longer pending.
func (s *MatchService) settled(m *domain.Match, target domain.MatchStatus) (*domain.Match, error) {
	if m.Status == target {
		return m, nil
	}
	return nil, fmt.Errorf("%w: match is already %s", domain.ErrConflict, m.Status)
}

// Unmatch removes a match of any status. Only participants may remove it.
func (s *MatchService) Unmatch(ctx context.Context, matchID, userID int64) error {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match: %w", err)
	}
	if !m.Involves(userID) {
		return fmt.Errorf("%w: user %d is not part of match %d", domain.ErrForbidden, userID, matchID)
	}
	if err := s.matches.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	metrics.UnmatchesTotal.Inc()
	return nil
}

// Stats counts the user's matches by status. Unknown users get zeros.
func (s *MatchService) Stats(ctx context.Context, userID int64) (*domain.MatchStats, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}
	return s.matches.Stats(ctx, userID)
}

// ListForUser returns the user's matches with the counterpart profile,
// newest first. An empty status lists all.
func (s *MatchService) ListForUser(ctx context.Context, userID int64, status string) ([]domain.MatchWithUser, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}
	if status != "" && !domain.ValidMatchStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.matches.ListByUser(ctx, userID, domain.MatchStatus(status))
}
