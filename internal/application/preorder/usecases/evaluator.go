package usecases

import (
	"context"
	"fmt"
	"time"

	"sokogate/internal/domain/preorder"
	"sokogate/internal/domain/subscription"
	"sokogate/internal/shared/biztime"
	"sokogate/internal/shared/logger"
)

// PricedPreOrder is an admitted evaluation: quota is already reserved and
// the discount frozen. The admission controller persists it; if persistence
// fails the reservation must be released.
type PricedPreOrder struct {
	Plan            *subscription.Plan
	Product         *preorder.Product
	Quantity        int
	UnitPriceCents  int64
	LineValueCents  int64
	DiscountPercent float64
	FinalPriceCents int64
	PeriodStart     time.Time
}

// EligibilityEngine runs the admission checks in order: subscription state,
// product eligibility, availability window with tier early access, inventory
// headroom, then the atomic quota reservation. Each step is a typed
// rejection; nothing is persisted here beyond the ledger reservation.
type EligibilityEngine struct {
	planRepo   subscription.PlanRepository
	ledgerRepo subscription.LedgerRepository
	inventory  InventoryService
	logger     logger.Interface
}

func NewEligibilityEngine(
	planRepo subscription.PlanRepository,
	ledgerRepo subscription.LedgerRepository,
	inventory InventoryService,
	logger logger.Interface,
) *EligibilityEngine {
	return &EligibilityEngine{
		planRepo:   planRepo,
		ledgerRepo: ledgerRepo,
		inventory:  inventory,
		logger:     logger,
	}
}

func (e *EligibilityEngine) Evaluate(
	ctx context.Context,
	sub *subscription.Subscription,
	product *preorder.Product,
	quantity int,
) (*PricedPreOrder, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	if !sub.Status().CanPlacePreOrders() {
		return nil, fmt.Errorf("%w: status %s", subscription.ErrSubscriptionNotActive, sub.Status())
	}

	plan, err := e.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	// Eligibility and window, with the tier's early access shifting the
	// effective open earlier.
	now := biztime.NowUTC()
	if err := product.CheckAvailability(now, plan.EarlyAccessDays()); err != nil {
		return nil, err
	}

	remaining, err := e.inventory.RemainingPreorderInventory(ctx, product.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to check inventory: %w", err)
	}
	if quantity > remaining {
		return nil, fmt.Errorf("%w: requested %d, remaining %d", preorder.ErrInsufficientInventory, quantity, remaining)
	}

	// The discounted value counts against the value quota: the discount
	// reduces both the price and the quota pressure.
	lineValue := int64(quantity) * product.BasePriceCents()
	discountedValue := plan.ApplyDiscountCents(lineValue)

	periodStart := sub.CurrentPeriodStart()
	if _, err := e.ledgerRepo.Reserve(ctx, sub.ID(), periodStart, plan, 1, discountedValue); err != nil {
		if qe, ok := subscription.AsQuotaExceeded(err); ok {
			e.logger.Infow("preorder rejected by quota",
				"subscription_id", sub.ID(),
				"dimension", qe.Dimension,
				"remaining", qe.Remaining,
			)
		}
		return nil, err
	}

	return &PricedPreOrder{
		Plan:            plan,
		Product:         product,
		Quantity:        quantity,
		UnitPriceCents:  product.BasePriceCents(),
		LineValueCents:  lineValue,
		DiscountPercent: plan.DiscountPercent(),
		FinalPriceCents: discountedValue,
		PeriodStart:     periodStart,
	}, nil
}
