package inventory

import (
	"context"
	"fmt"
	"math"

	"sokogate/internal/domain/preorder"
	"sokogate/internal/shared/logger"
)

// Service computes remaining pre-order inventory from the product's limit
// minus the confirmed and fulfilled quantity already committed. A product
// without an inventory limit reports unbounded headroom.
type Service struct {
	productRepo  preorder.ProductRepository
	preorderRepo preorder.PreOrderRepository
	logger       logger.Interface
}

func NewService(
	productRepo preorder.ProductRepository,
	preorderRepo preorder.PreOrderRepository,
	logger logger.Interface,
) *Service {
	return &Service{
		productRepo:  productRepo,
		preorderRepo: preorderRepo,
		logger:       logger,
	}
}

func (s *Service) RemainingPreorderInventory(ctx context.Context, productID uint) (int, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to load product: %w", err)
	}

	if product.InventoryLimit() <= 0 {
		return math.MaxInt, nil
	}

	committed, err := s.preorderRepo.CountConfirmedQuantityByProduct(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to count committed quantity: %w", err)
	}

	remaining := product.InventoryLimit() - committed
	if remaining < 0 {
		s.logger.Warnw("committed quantity exceeds inventory limit",
			"product_id", productID,
			"inventory_limit", product.InventoryLimit(),
			"committed", committed,
		)
		remaining = 0
	}
	return remaining, nil
}
