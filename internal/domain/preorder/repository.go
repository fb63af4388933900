package preorder

import (
	"context"

	vo "sokogate/internal/domain/preorder/valueobjects"
)

// PreOrderFilters narrows list queries.
type PreOrderFilters struct {
	SubscriptionID uint
	Status         vo.PreOrderStatus
}

type PreOrderRepository interface {
	Create(ctx context.Context, po *PreOrder) error
	GetByID(ctx context.Context, id uint) (*PreOrder, error)
	Update(ctx context.Context, po *PreOrder) error
	List(ctx context.Context, filters PreOrderFilters) ([]*PreOrder, error)

	// CountConfirmedQuantityByProduct sums confirmed (and fulfilled)
	// quantities for a product, backing the inventory headroom check.
	CountConfirmedQuantityByProduct(ctx context.Context, productID uint) (int, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
}
