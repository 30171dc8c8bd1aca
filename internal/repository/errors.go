package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vpnshop/internal/apperr"
)

// translate maps storage errors onto the error taxonomy. what names the entity for
// not-found and conflict messages.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.E(apperr.ErrNotFound, what+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.ErrConflict, err, what+" already exists")
	default:
		return apperr.Wrap(apperr.ErrInternal, err, fmt.Sprintf("%s storage", what))
	}
}
