package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
)

// PreferencesRepository implements domain.PreferencesRepository using SQLite.
type PreferencesRepository struct {
	db *sql.DB
}

var _ domain.PreferencesRepository = (*PreferencesRepository)(nil)

func NewPreferencesRepository(db *DB) *PreferencesRepository {
	return &PreferencesRepository{db: db.SqlDB}
}

func (r *PreferencesRepository) GetByUser(ctx context.Context, userID int64) (*domain.Preferences, error) {
	p := &domain.Preferences{}
	var gender, languages, interests, countries sql.NullString
	var distance sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, min_age, max_age, preferred_gender, preferred_languages,
			preferred_interests, preferred_countries, max_distance, updated_at
		 FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&p.ID, &p.UserID, &p.MinAge, &p.MaxAge, &gender, &languages, &interests, &countries, &distance, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	p.PreferredGender = gender.String
	p.PreferredLanguages = languages.String
	p.PreferredInterests = interests.String
	p.PreferredCountries = countries.String
	if distance.Valid {
		d := int(distance.Int64)
		p.MaxDistance = &d
	}
	return p, nil
}

// Upsert creates the user's preferences or replaces the existing record.
func (r *PreferencesRepository) Upsert(ctx context.Context, p *domain.Preferences) error {
	now := time.Now().UTC()
	var distance sql.NullInt64
	if p.MaxDistance != nil {
		distance = sql.NullInt64{Int64: int64(*p.MaxDistance), Valid: true}
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO user_preferences (user_id, min_age, max_age, preferred_gender, preferred_languages,
			preferred_interests, preferred_countries, max_distance, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			min_age = excluded.min_age,
			max_age = excluded.max_age,
			preferred_gender = excluded.preferred_gender,
			preferred_languages = excluded.preferred_languages,
			preferred_interests = excluded.preferred_interests,
			preferred_countries = excluded.preferred_countries,
			max_distance = excluded.max_distance,
			updated_at = excluded.updated_at
		 RETURNING id`,
		p.UserID, p.MinAge, p.MaxAge, nullString(p.PreferredGender), nullString(p.PreferredLanguages),
		nullString(p.PreferredInterests), nullString(p.PreferredCountries), distance, now,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	p.UpdatedAt = now
	return nil
}
