package usecases

import (
	"context"
	"fmt"

	"sokogate/internal/application/notification"
	"sokogate/internal/domain/customer"
	"sokogate/internal/domain/subscription"
	"sokogate/internal/shared/biztime"
	"sokogate/internal/shared/logger"
)

type PauseSubscriptionCommand struct {
	SubscriptionID uint
}

type PauseSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	customerRepo     customer.Repository
	notifier         notification.Sender
	logger           logger.Interface
}

func NewPauseSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	customerRepo customer.Repository,
	notifier notification.Sender,
	logger logger.Interface,
) *PauseSubscriptionUseCase {
	return &PauseSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		customerRepo:     customerRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

func (uc *PauseSubscriptionUseCase) Execute(ctx context.Context, cmd PauseSubscriptionCommand) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if err := sub.Pause(biztime.NowUTC()); err != nil {
		uc.logger.Warnw("pause rejected", "error", err, "subscription_id", sub.ID(), "status", sub.Status())
		return nil, err
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.logger.Infow("subscription paused", "subscription_id", sub.ID())
	uc.notifyCustomer(ctx, sub, notification.EventSubscriptionPaused)

	return sub, nil
}

func (uc *PauseSubscriptionUseCase) notifyCustomer(ctx context.Context, sub *subscription.Subscription, event notification.EventType) {
	cust, err := uc.customerRepo.GetByID(ctx, sub.CustomerID())
	if err != nil {
		uc.logger.Warnw("customer lookup failed for notification", "error", err, "customer_id", sub.CustomerID())
		return
	}
	uc.notifier.Send(ctx, event, cust.Email(), map[string]any{
		"subscription_id": sub.ID(),
	})
}
