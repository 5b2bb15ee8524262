package domain

import (
	"context"
	"time"
)

// ItemStatus is the listing state of a marketplace item.
type ItemStatus string

const (
	ItemStatusActive ItemStatus = "active"
	ItemStatusSold   ItemStatus = "sold"
)

// Item is the read-only projection of a listed item. Items are owned by the listing
// service; the meetup core only references them.
// swagger:model Item
type Item struct {
	ID        string     `json:"id"`
	SellerID  string     `json:"sellerId"`
	Title     string     `json:"title"`
	Price     float64    `json:"price"`
	Images    []string   `json:"images"`
	Status    ItemStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsActive reports whether the item may be used for a new meetup.
func (i *Item) IsActive() bool { return i.Status == ItemStatusActive }

// ActiveItems filters items down to those eligible for meetup creation, preserving order.
func ActiveItems(items []*Item) []*Item {
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		if it != nil && it.IsActive() {
			out = append(out, it)
		}
	}
	return out
}

// ItemRepository defines the read side of item storage.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*Item, error)
	ListBySellerID(ctx context.Context, sellerID string) ([]*Item, error)
}

// ItemService lists the acting user's own items.
type ItemService interface {
	ListMine(ctx context.Context, userID string) ([]*Item, error)
}
