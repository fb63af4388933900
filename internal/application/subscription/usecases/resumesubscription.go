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

type ResumeSubscriptionCommand struct {
	SubscriptionID uint
}

type ResumeSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	customerRepo     customer.Repository
	notifier         notification.Sender
	logger           logger.Interface
}

func NewResumeSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	customerRepo customer.Repository,
	notifier notification.Sender,
	logger logger.Interface,
) *ResumeSubscriptionUseCase {
	return &ResumeSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		customerRepo:     customerRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

func (uc *ResumeSubscriptionUseCase) Execute(ctx context.Context, cmd ResumeSubscriptionCommand) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	// Resume pushes the period end out by the paused duration, so the
	// subscriber loses no paid time to the pause.
	if err := sub.Resume(biztime.NowUTC()); err != nil {
		uc.logger.Warnw("resume rejected", "error", err, "subscription_id", sub.ID(), "status", sub.Status())
		return nil, err
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.logger.Infow("subscription resumed",
		"subscription_id", sub.ID(),
		"period_end", sub.CurrentPeriodEnd(),
	)

	cust, err := uc.customerRepo.GetByID(ctx, sub.CustomerID())
	if err == nil {
		uc.notifier.Send(ctx, notification.EventSubscriptionResumed, cust.Email(), map[string]any{
			"subscription_id": sub.ID(),
			"period_end":      sub.CurrentPeriodEnd(),
		})
	}

	return sub, nil
}
