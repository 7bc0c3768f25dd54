package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/shared"
)

// StoreService handles store directory operations
type StoreService struct {
	storeRepo catalog.StoreRepository
}

// NewStoreService creates a new StoreService
func NewStoreService(storeRepo catalog.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// Create registers a store with a unique code
func (s *StoreService) Create(ctx context.Context, req CreateStoreRequest) (*StoreResponse, error) {
	store, err := catalog.NewStore(req.Name, req.Code)
	if err != nil {
		return nil, err
	}

	exists, err := s.storeRepo.ExistsByCode(ctx, store.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, catalog.ErrDuplicateStore
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// GetByID returns one store
func (s *StoreService) GetByID(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, catalog.ErrStoreNotFound
		}
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// List returns every store ordered by name
func (s *StoreService) List(ctx context.Context) ([]StoreResponse, error) {
	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]StoreResponse, len(stores))
	for i := range stores {
		responses[i] = ToStoreResponse(&stores[i])
	}
	return responses, nil
}
