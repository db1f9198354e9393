package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row, including rows owned by another user.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a unique index rejects an insert or update.
	ErrDuplicateKey = errors.New("duplicate key")
)

// translateError maps gorm errors onto the repository sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	}
	return err
}
