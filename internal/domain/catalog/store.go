package catalog

import (
	"strings"

	"github.com/stockflow/backend/internal/domain/shared"
)

// Store is a physical location holding its own slice of inventory
type Store struct {
	shared.BaseEntity
	Name string
	Code string
}

// NewStore creates a store; the code is normalised to upper case
func NewStore(name, code string) (*Store, error) {
	name = strings.TrimSpace(name)
	code = strings.ToUpper(strings.TrimSpace(code))

	if name == "" {
		return nil, ErrInvalidStore.WithMessage("Store name cannot be empty")
	}
	if code == "" {
		return nil, ErrInvalidStore.WithMessage("Store code cannot be empty")
	}
	if len(code) > 20 {
		return nil, ErrInvalidStore.WithMessage("Store code cannot exceed 20 characters")
	}

	return &Store{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Code:       code,
	}, nil
}
