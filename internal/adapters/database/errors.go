package database

import (
	"errors"
	"yatube/internal/core/apperror"

	"gorm.io/gorm"
)

// translate maps gorm's missing-row error onto apperror.ErrNotFound.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}
