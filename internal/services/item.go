package services

import (
	"context"
	"fmt"

	"acadswap/internal/domain"
)

type itemService struct {
	itemRepo domain.ItemRepository
}

// NewItemService creates an ItemService over the given repository.
func NewItemService(itemRepo domain.ItemRepository) domain.ItemService {
	return &itemService{itemRepo: itemRepo}
}

// ListMine returns every item the user has listed; callers filter to active ones.
func (s *itemService) ListMine(ctx context.Context, userID string) ([]*domain.Item, error) {
	items, err := s.itemRepo.ListBySellerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []*domain.Item{}
	}
	return items, nil
}
