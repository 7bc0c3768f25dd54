package persistence

import (
	"errors"

	"github.com/stockflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps a gorm error to the domain error taxonomy.
// Record-not-found becomes shared.ErrNotFound; every other driver error is
// wrapped as a persistence failure so callers never see driver types.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return shared.NewPersistenceError(err)
}
