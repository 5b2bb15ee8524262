package postgres

import (
	"context"

	"github.com/lib/pq"

	"acadswap/internal/domain"
)

type itemRepository struct {
	DB DBTX
}

func NewItemRepository(db DBTX) domain.ItemRepository {
	return &itemRepository{DB: db}
}

func scanItem(row interface{ Scan(...any) error }) (*domain.Item, error) {
	it := &domain.Item{}
	if err := row.Scan(&it.ID, &it.SellerID, &it.Title, &it.Price, pq.Array(&it.Images), &it.Status, &it.CreatedAt); err != nil {
		return nil, err
	}
	if it.Images == nil {
		it.Images = []string{}
	}
	return it, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `
		SELECT id, seller_id, title, price, images, status, created_at
		FROM items
		WHERE id = $1
	`
	it, err := scanItem(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

func (r *itemRepository) ListBySellerID(ctx context.Context, sellerID string) ([]*domain.Item, error) {
	query := `
		SELECT id, seller_id, title, price, images, status, created_at
		FROM items
		WHERE seller_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
