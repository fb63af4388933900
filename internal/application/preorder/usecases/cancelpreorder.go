package usecases

import (
	"context"
	"fmt"

	"sokogate/internal/application/notification"
	subusecases "sokogate/internal/application/subscription/usecases"
	"sokogate/internal/domain/customer"
	"sokogate/internal/domain/preorder"
	"sokogate/internal/domain/subscription"
	"sokogate/internal/shared/logger"
)

type CancelPreOrderCommand struct {
	PreOrderID uint
}

// CancelPreOrderUseCase cancels a pending or confirmed pre-order and
// releases its frozen count and value against the ledger entry the original
// reservation was taken from, which may belong to an earlier period.
type CancelPreOrderUseCase struct {
	preorderRepo     preorder.PreOrderRepository
	subscriptionRepo subscription.SubscriptionRepository
	ledgerRepo       subscription.LedgerRepository
	customerRepo     customer.Repository
	usageCache       subusecases.UsageCache // optional
	notifier         notification.Sender
	logger           logger.Interface
}

func NewCancelPreOrderUseCase(
	preorderRepo preorder.PreOrderRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	ledgerRepo subscription.LedgerRepository,
	customerRepo customer.Repository,
	usageCache subusecases.UsageCache,
	notifier notification.Sender,
	logger logger.Interface,
) *CancelPreOrderUseCase {
	return &CancelPreOrderUseCase{
		preorderRepo:     preorderRepo,
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		customerRepo:     customerRepo,
		usageCache:       usageCache,
		notifier:         notifier,
		logger:           logger,
	}
}

func (uc *CancelPreOrderUseCase) Execute(ctx context.Context, cmd CancelPreOrderCommand) (*preorder.PreOrder, error) {
	po, err := uc.preorderRepo.GetByID(ctx, cmd.PreOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preorder: %w", err)
	}

	if err := po.Cancel(); err != nil {
		uc.logger.Warnw("preorder cancel rejected", "error", err, "preorder_id", po.ID(), "status", po.Status())
		return nil, err
	}

	if err := uc.preorderRepo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("failed to update preorder: %w", err)
	}

	// Release against the period the reservation was frozen in. Underflow
	// here means the ledger and the preorder records disagree; that is a
	// consistency bug and must surface.
	if err := uc.ledgerRepo.Release(ctx, po.SubscriptionID(), po.PeriodStart(), 1, po.FinalPriceCents()); err != nil {
		uc.logger.Errorw("ledger release failed after preorder cancel",
			"error", err,
			"preorder_id", po.ID(),
			"subscription_id", po.SubscriptionID(),
		)
		return nil, err
	}

	if uc.usageCache != nil {
		if err := uc.usageCache.Invalidate(ctx, po.SubscriptionID()); err != nil {
			uc.logger.Warnw("usage cache invalidation failed", "error", err, "subscription_id", po.SubscriptionID())
		}
	}

	uc.logger.Infow("preorder cancelled",
		"preorder_id", po.ID(),
		"subscription_id", po.SubscriptionID(),
		"released_cents", po.FinalPriceCents(),
	)

	if sub, err := uc.subscriptionRepo.GetByID(ctx, po.SubscriptionID()); err == nil {
		if cust, err := uc.customerRepo.GetByID(ctx, sub.CustomerID()); err == nil {
			uc.notifier.Send(ctx, notification.EventPreOrderCancelled, cust.Email(), map[string]any{
				"preorder_id":    po.ID(),
				"released_cents": po.FinalPriceCents(),
			})
		}
	}

	return po, nil
}
