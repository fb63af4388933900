package usecases

import (
	"context"
	"fmt"

	"sokogate/internal/domain/subscription"
)

type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
}

func NewGetSubscriptionUseCase(subscriptionRepo subscription.SubscriptionRepository) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{subscriptionRepo: subscriptionRepo}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, subscriptionID uint) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}
