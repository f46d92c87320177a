package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/lovebridge/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

var _ domain.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = `id, email, password_hash, name, gender, birth_date, country, city, language,
	bio, interests, mbti, is_verified, verification_count, face_verified, document_verified,
	admin_approved, status, membership_tier, points, created_at, updated_at, last_login`

// userColumnsAs returns userColumns qualified with a table alias.
func userColumnsAs(alias string) string {
	cols := strings.Split(userColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var (
		gender, birthDate, country, city, bio, interests, mbti sql.NullString
		lastLogin                                             sql.NullTime
		status                                                string
	)
	cols := []any{
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &gender, &birthDate, &country, &city, &u.Language,
		&bio, &interests, &mbti, &u.Verified, &u.VerificationCount, &u.FaceVerified, &u.DocumentVerified,
		&u.AdminApproved, &status, &u.MembershipTier, &u.Points, &u.CreatedAt, &u.UpdatedAt, &lastLogin,
	}
	if err := row.Scan(cols...); err != nil {
		return nil, err
	}
	u.Gender = gender.String
	u.Country = country.String
	u.City = city.String
	u.Bio = bio.String
	u.Interests = interests.String
	u.MBTI = mbti.String
	u.Status = domain.UserStatus(status)
	u.LastLogin = timePtr(lastLogin)
	if birthDate.Valid && birthDate.String != "" {
		if t, err := time.Parse(domain.BirthDateLayout, birthDate.String); err == nil {
			u.BirthDate = &t
		}
	}
	return u, nil
}

func birthDateValue(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(domain.BirthDateLayout), Valid: true}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}
	if user.MembershipTier == "" {
		user.MembershipTier = domain.MembershipFree
	}
	if user.Language == "" {
		user.Language = "en"
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, gender, birth_date, country, city, language,
			bio, interests, mbti, is_verified, verification_count, face_verified, document_verified,
			admin_approved, status, membership_tier, points, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Email, user.PasswordHash, user.Name, nullString(user.Gender), birthDateValue(user.BirthDate),
		nullString(user.Country), nullString(user.City), user.Language, nullString(user.Bio),
		nullString(user.Interests), nullString(user.MBTI), user.Verified, user.VerificationCount,
		user.FaceVerified, user.DocumentVerified, user.AdminApproved, string(user.Status),
		user.MembershipTier, user.Points, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

// Update writes the editable profile and moderation fields of the user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, gender = ?, birth_date = ?, country = ?, city = ?, language = ?,
			bio = ?, interests = ?, mbti = ?, face_verified = ?, document_verified = ?,
			admin_approved = ?, status = ?, membership_tier = ?, points = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name, nullString(user.Gender), birthDateValue(user.BirthDate), nullString(user.Country),
		nullString(user.City), user.Language, nullString(user.Bio), nullString(user.Interests),
		nullString(user.MBTI), user.FaceVerified, user.DocumentVerified, user.AdminApproved,
		string(user.Status), user.MembershipTier, user.Points, now, user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

// Search returns active, admin-approved users matching the filter.
func (r *UserRepository) Search(ctx context.Context, filter domain.UserSearch) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE status = 'active' AND admin_approved = 1`
	var args []any
	if filter.Query != "" {
		query += ` AND (name LIKE ? OR bio LIKE ?)`
		like := "%" + filter.Query + "%"
		args = append(args, like, like)
	}
	if filter.Country != "" {
		query += ` AND country = ?`
		args = append(args, filter.Country)
	}
	if filter.Language != "" {
		query += ` AND language = ?`
		args = append(args, filter.Language)
	}
	if filter.Gender != "" {
		query += ` AND gender = ?`
		args = append(args, filter.Gender)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
