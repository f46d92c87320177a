package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientFunds = errors.New("insufficient points")
)

// MatchExistsError is returned when a match is proposed for a pair of users
// that already has a match record. It carries the existing record and
// matches ErrConflict under errors.Is.
type MatchExistsError struct {
	Existing *Match
}

func (e *MatchExistsError) Error() string {
	return "match already exists"
}

func (e *MatchExistsError) Is(target error) bool {
	return target == ErrConflict
}
