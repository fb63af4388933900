package usecases

import (
	"context"
	"fmt"

	"sokogate/internal/domain/preorder"
	vo "sokogate/internal/domain/preorder/valueobjects"
)

type ListPreOrdersCommand struct {
	SubscriptionID uint
	Status         string
}

type ListPreOrdersUseCase struct {
	preorderRepo preorder.PreOrderRepository
}

func NewListPreOrdersUseCase(preorderRepo preorder.PreOrderRepository) *ListPreOrdersUseCase {
	return &ListPreOrdersUseCase{preorderRepo: preorderRepo}
}

func (uc *ListPreOrdersUseCase) Execute(ctx context.Context, cmd ListPreOrdersCommand) ([]*preorder.PreOrder, error) {
	filters := preorder.PreOrderFilters{SubscriptionID: cmd.SubscriptionID}
	if cmd.Status != "" {
		filters.Status = vo.PreOrderStatus(cmd.Status)
	}

	orders, err := uc.preorderRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list preorders: %w", err)
	}
	return orders, nil
}

type GetPreOrderUseCase struct {
	preorderRepo preorder.PreOrderRepository
}

func NewGetPreOrderUseCase(preorderRepo preorder.PreOrderRepository) *GetPreOrderUseCase {
	return &GetPreOrderUseCase{preorderRepo: preorderRepo}
}

func (uc *GetPreOrderUseCase) Execute(ctx context.Context, preorderID uint) (*preorder.PreOrder, error) {
	po, err := uc.preorderRepo.GetByID(ctx, preorderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preorder: %w", err)
	}
	return po, nil
}
