package usecases

import (
	"context"
	"fmt"

	"sokogate/internal/application/notification"
	"sokogate/internal/domain/customer"
	"sokogate/internal/domain/preorder"
	"sokogate/internal/domain/subscription"
	"sokogate/internal/shared/db"
	"sokogate/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	SubscriptionID uint
}

type CancelSubscriptionResult struct {
	Subscription       *subscription.Subscription
	CancelledPreOrders int
}

// CancelSubscriptionUseCase terminates a subscription immediately and
// cascades cancellation to its still-open pre-orders, releasing their frozen
// quota so the final ledger entry stays consistent.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	preorderRepo     preorder.PreOrderRepository
	ledgerRepo       subscription.LedgerRepository
	customerRepo     customer.Repository
	txMgr            *db.TransactionManager
	notifier         notification.Sender
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	preorderRepo preorder.PreOrderRepository,
	ledgerRepo subscription.LedgerRepository,
	customerRepo customer.Repository,
	txMgr *db.TransactionManager,
	notifier notification.Sender,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		preorderRepo:     preorderRepo,
		ledgerRepo:       ledgerRepo,
		customerRepo:     customerRepo,
		txMgr:            txMgr,
		notifier:         notifier,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*CancelSubscriptionResult, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if err := sub.Cancel(); err != nil {
		uc.logger.Warnw("cancel rejected", "error", err, "subscription_id", sub.ID(), "status", sub.Status())
		return nil, err
	}

	// The status flip and the cascade are one atomic unit: a crash mid-cascade
	// must not leave a cancelled subscription with confirmed pre-orders still
	// holding quota.
	var cancelled int
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		cancelled = uc.cancelOpenPreOrders(txCtx, sub.ID())
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	uc.logger.Infow("subscription cancelled",
		"subscription_id", sub.ID(),
		"cancelled_preorders", cancelled,
	)

	cust, err := uc.customerRepo.GetByID(ctx, sub.CustomerID())
	if err == nil {
		uc.notifier.Send(ctx, notification.EventSubscriptionCancelled, cust.Email(), map[string]any{
			"subscription_id":     sub.ID(),
			"cancelled_preorders": cancelled,
		})
	}

	return &CancelSubscriptionResult{
		Subscription:       sub,
		CancelledPreOrders: cancelled,
	}, nil
}

func (uc *CancelSubscriptionUseCase) cancelOpenPreOrders(ctx context.Context, subscriptionID uint) int {
	orders, err := uc.preorderRepo.List(ctx, preorder.PreOrderFilters{SubscriptionID: subscriptionID})
	if err != nil {
		uc.logger.Errorw("failed to list preorders for cascade cancel", "error", err, "subscription_id", subscriptionID)
		return 0
	}

	cancelled := 0
	for _, po := range orders {
		if !po.Status().CanCancel() {
			continue
		}
		if err := po.Cancel(); err != nil {
			uc.logger.Warnw("cascade cancel skipped preorder", "error", err, "preorder_id", po.ID())
			continue
		}
		if err := uc.preorderRepo.Update(ctx, po); err != nil {
			uc.logger.Errorw("failed to persist cascaded preorder cancel", "error", err, "preorder_id", po.ID())
			continue
		}
		if err := uc.ledgerRepo.Release(ctx, subscriptionID, po.PeriodStart(), 1, po.FinalPriceCents()); err != nil {
			uc.logger.Errorw("failed to release ledger for cascaded cancel",
				"error", err,
				"preorder_id", po.ID(),
				"subscription_id", subscriptionID,
			)
		}
		cancelled++
	}
	return cancelled
}
