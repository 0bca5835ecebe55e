package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert violates a uniqueness
	// constraint, such as the one-invite-per-pair index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// IsNotFoundError reports whether err means a missing record, unwrapping both
// our sentinel and GORM's.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err means a uniqueness violation. The
// store enforces the at-most-one-invite-per-pair invariant; callers must
// treat this as a recoverable condition, never a crash.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey)
}
