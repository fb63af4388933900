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

type CreatePreOrderCommand struct {
	SubscriptionID uint
	ProductID      uint
	Quantity       int
	PriorityLevel  int
}

type CreatePreOrderResult struct {
	PreOrder *preorder.PreOrder
}

// CreatePreOrderUseCase is the admission controller: it loads the
// collaborators, runs the eligibility engine, and persists the pre-order as
// confirmed only when every step passed. A rejection leaves no partial row;
// a persistence failure after reservation releases the reserved quota.
type CreatePreOrderUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	productRepo      preorder.ProductRepository
	preorderRepo     preorder.PreOrderRepository
	ledgerRepo       subscription.LedgerRepository
	customerRepo     customer.Repository
	engine           *EligibilityEngine
	usageCache       subusecases.UsageCache // optional
	notifier         notification.Sender
	logger           logger.Interface
}

func NewCreatePreOrderUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	productRepo preorder.ProductRepository,
	preorderRepo preorder.PreOrderRepository,
	ledgerRepo subscription.LedgerRepository,
	customerRepo customer.Repository,
	engine *EligibilityEngine,
	usageCache subusecases.UsageCache,
	notifier notification.Sender,
	logger logger.Interface,
) *CreatePreOrderUseCase {
	return &CreatePreOrderUseCase{
		subscriptionRepo: subscriptionRepo,
		productRepo:      productRepo,
		preorderRepo:     preorderRepo,
		ledgerRepo:       ledgerRepo,
		customerRepo:     customerRepo,
		engine:           engine,
		usageCache:       usageCache,
		notifier:         notifier,
		logger:           logger,
	}
}

func (uc *CreatePreOrderUseCase) Execute(ctx context.Context, cmd CreatePreOrderCommand) (*CreatePreOrderResult, error) {
	if cmd.PriorityLevel < preorder.MinPriorityLevel || cmd.PriorityLevel > preorder.MaxPriorityLevel {
		return nil, fmt.Errorf("priority level must be between %d and %d", preorder.MinPriorityLevel, preorder.MaxPriorityLevel)
	}

	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	product, err := uc.productRepo.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	priced, err := uc.engine.Evaluate(ctx, sub, product, cmd.Quantity)
	if err != nil {
		// Rejections surface unchanged: no pre-order row exists for them.
		return nil, err
	}

	po, err := preorder.NewPreOrder(
		sub.ID(),
		product.ID(),
		priced.Quantity,
		priced.UnitPriceCents,
		priced.DiscountPercent,
		priced.FinalPriceCents,
		cmd.PriorityLevel,
		priced.PeriodStart,
	)
	if err != nil {
		uc.releaseReservation(ctx, sub.ID(), priced)
		return nil, fmt.Errorf("failed to build preorder: %w", err)
	}
	if err := po.Confirm(); err != nil {
		uc.releaseReservation(ctx, sub.ID(), priced)
		return nil, fmt.Errorf("failed to confirm preorder: %w", err)
	}

	if err := uc.preorderRepo.Create(ctx, po); err != nil {
		uc.logger.Errorw("failed to persist preorder, releasing reservation",
			"error", err,
			"subscription_id", sub.ID(),
			"product_id", product.ID(),
		)
		uc.releaseReservation(ctx, sub.ID(), priced)
		return nil, fmt.Errorf("failed to create preorder: %w", err)
	}

	uc.invalidateUsage(ctx, sub.ID())

	uc.logger.Infow("preorder admitted",
		"preorder_id", po.ID(),
		"subscription_id", sub.ID(),
		"product_id", product.ID(),
		"quantity", po.Quantity(),
		"final_price_cents", po.FinalPriceCents(),
		"discount_percent", po.DiscountPercent(),
	)

	if cust, err := uc.customerRepo.GetByID(ctx, sub.CustomerID()); err == nil {
		uc.notifier.Send(ctx, notification.EventPreOrderConfirmed, cust.Email(), map[string]any{
			"preorder_id":       po.ID(),
			"product":           product.Name(),
			"quantity":          po.Quantity(),
			"final_price_cents": po.FinalPriceCents(),
		})
	}

	return &CreatePreOrderResult{PreOrder: po}, nil
}

func (uc *CreatePreOrderUseCase) releaseReservation(ctx context.Context, subscriptionID uint, priced *PricedPreOrder) {
	if err := uc.ledgerRepo.Release(ctx, subscriptionID, priced.PeriodStart, 1, priced.FinalPriceCents); err != nil {
		uc.logger.Errorw("failed to release orphaned reservation",
			"error", err,
			"subscription_id", subscriptionID,
			"period_start", priced.PeriodStart,
		)
	}
}

func (uc *CreatePreOrderUseCase) invalidateUsage(ctx context.Context, subscriptionID uint) {
	if uc.usageCache == nil {
		return
	}
	if err := uc.usageCache.Invalidate(ctx, subscriptionID); err != nil {
		uc.logger.Warnw("usage cache invalidation failed", "error", err, "subscription_id", subscriptionID)
	}
}
