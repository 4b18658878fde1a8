package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint, notably the one-result-per-student rule.
var ErrDuplicate = errors.New("repositories: duplicate record")

// IsNotFoundError reports whether err means the record does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err means a uniqueness conflict.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}
