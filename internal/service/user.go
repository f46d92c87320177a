package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
)

const (
	searchLimit   = 50
	maxPhotos     = 10
	maxVideos     = 3
	storyLifetime = 24 * time.Hour
	minPreferAge  = 18
	maxPreferAge  = 99
	defaultMinAge = minPreferAge
	defaultMaxAge = maxPreferAge
)

// Profile is a user with the data shown on their profile page.
type Profile struct {
	User          *domain.User
	Age           *int
	Verifications []domain.SocialVerification
	Media         []domain.Media
}

// ProfileUpdate carries the editable profile fields. Nil fields keep the
// stored value.
type ProfileUpdate struct {
	Name      *string
	Gender    *string
	BirthDate *string
	Country   *string
	City      *string
	Language  *string
	Bio       *string
	Interests []string
	MBTI      *string
}

// UserService manages member profiles, their verifications, media and
// matching preferences.
type UserService struct {
	users         domain.UserRepository
	verifications domain.VerificationRepository
	media         domain.MediaRepository
	prefs         domain.PreferencesRepository
	now           func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, verifications domain.VerificationRepository, media domain.MediaRepository, prefs domain.PreferencesRepository) *UserService {
	return &UserService{users: users, verifications: verifications, media: media, prefs: prefs, now: time.Now}
}

// GetProfile loads a user with their exact age, verifications and approved media.
func (s *UserService) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	p := &Profile{User: u}
	if age, ok := ExactAge(u.BirthDate, s.now()); ok {
		p.Age = &age
	}
	if p.Verifications, err = s.verifications.ListByUser(ctx, id); err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	if p.Media, err = s.media.ListApproved(ctx, id, ""); err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return p, nil
}

// UpdateProfile applies the non-nil fields of upd to the user.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		u.Name = name
	}
	if upd.Gender != nil {
		switch *upd.Gender {
		case "", "male", "female", "other":
			u.Gender = *upd.Gender
		default:
			return nil, fmt.Errorf("%w: unknown gender %q", domain.ErrInvalidInput, *upd.Gender)
		}
	}
	if upd.BirthDate != nil {
		if *upd.BirthDate == "" {
			u.BirthDate = nil
		} else {
			t, err := time.Parse(domain.BirthDateLayout, *upd.BirthDate)
			if err != nil {
				return nil, fmt.Errorf("%w: birth date must be YYYY-MM-DD", domain.ErrInvalidInput)
			}
			u.BirthDate = &t
		}
	}
	if upd.Language != nil {
		if !domain.IsSupportedLanguage(*upd.Language) {
			return nil, fmt.Errorf("%w: unsupported language %q", domain.ErrInvalidInput, *upd.Language)
		}
		u.Language = *upd.Language
	}
	if upd.Interests != nil {
		raw, err := encodeStringList(upd.Interests)
		if err != nil {
			return nil, err
		}
		u.Interests = raw
	}
	setIfPresent(&u.Country, upd.Country)
	setIfPresent(&u.City, upd.City)
	setIfPresent(&u.Bio, upd.Bio)
	setIfPresent(&u.MBTI, upd.MBTI)

	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Search lists up to 50 active, approved members matching the filter.
func (s *UserService) Search(ctx context.Context, filter domain.UserSearch) ([]domain.User, error) {
	filter.Limit = searchLimit
	filter.Query = strings.TrimSpace(filter.Query)
	return s.users.Search(ctx, filter)
}

// Verifications lists the social verifications of a user.
func (s *UserService) Verifications(ctx context.Context, userID int64) ([]domain.SocialVerification, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.verifications.ListByUser(ctx, userID)
}

// AddVerification links a social account to the user and returns the new
// verification count. The user becomes verified at domain.VerifiedThreshold.
func (s *UserService) AddVerification(ctx context.Context, v *domain.SocialVerification) (int, error) {
	if !slices.Contains(domain.SocialProviders, v.Provider) {
		return 0, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, v.Provider)
	}
	if strings.TrimSpace(v.ProviderID) == "" {
		return 0, fmt.Errorf("%w: provider id is required", domain.ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, v.UserID); err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	return s.verifications.Add(ctx, v, domain.VerifiedThreshold)
}

// ListMedia lists approved media of a user, optionally of one type.
func (s *UserService) ListMedia(ctx context.Context, userID int64, mediaType string) ([]domain.Media, error) {
	if mediaType != "" && !validMediaType(mediaType) {
		return nil, fmt.Errorf("%w: unknown media type %q", domain.ErrInvalidInput, mediaType)
	}
	return s.media.ListApproved(ctx, userID, domain.MediaType(mediaType))
}

// AddMedia registers uploaded media for moderation. Photos and videos are
// capped per user; stories expire after a day.
func (s *UserService) AddMedia(ctx context.Context, m *domain.Media) error {
	if !validMediaType(string(m.Type)) {
		return fmt.Errorf("%w: unknown media type %q", domain.ErrInvalidInput, m.Type)
	}
	if strings.TrimSpace(m.URL) == "" {
		return fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, m.UserID); err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	limit := 0
	switch m.Type {
	case domain.MediaTypePhoto:
		limit = maxPhotos
	case domain.MediaTypeVideo:
		limit = maxVideos
	case domain.MediaTypeStory:
		expires := s.now().UTC().Add(storyLifetime)
		m.ExpiresAt = &expires
	}
	m.Status = domain.MediaStatusPending
	return s.media.CreateWithinLimit(ctx, m, limit)
}

func validMediaType(t string) bool {
	switch domain.MediaType(t) {
	case domain.MediaTypePhoto, domain.MediaTypeVideo, domain.MediaTypeStory:
		return true
	}
	return false
}

// Preferences returns the user's matching preferences. A user without stored
// preferences gets the open defaults.
func (s *UserService) Preferences(ctx context.Context, userID int64) (*domain.Preferences, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	p, err := loadPreferences(ctx, s.prefs, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &domain.Preferences{UserID: userID, MinAge: defaultMinAge, MaxAge: defaultMaxAge}
	}
	return p, nil
}

// SavePreferences validates and stores the user's matching preferences.
func (s *UserService) SavePreferences(ctx context.Context, p *domain.Preferences) error {
	if p.MinAge < minPreferAge || p.MaxAge > maxPreferAge || p.MinAge > p.MaxAge {
		return fmt.Errorf("%w: age range must be within %d-%d and min <= max", domain.ErrInvalidInput, minPreferAge, maxPreferAge)
	}
	switch p.PreferredGender {
	case "", "male", "female", "both":
	default:
		return fmt.Errorf("%w: unknown preferred gender %q", domain.ErrInvalidInput, p.PreferredGender)
	}
	for _, raw := range []string{p.PreferredLanguages, p.PreferredInterests, p.PreferredCountries} {
		if _, err := decodeStringList(raw); err != nil {
			return fmt.Errorf("%w: preference lists must be JSON string arrays", domain.ErrInvalidInput)
		}
	}
	if _, err := s.users.GetByID(ctx, p.UserID); err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	return s.prefs.Upsert(ctx, p)
}
