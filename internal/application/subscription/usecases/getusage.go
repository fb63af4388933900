package usecases

import (
	"context"
	"fmt"
	"time"

	"sokogate/internal/domain/subscription"
	"sokogate/internal/shared/logger"
)

// UsageSnapshot is the per-period usage view exposed over the API. Percent
// fields are nil when the matching limit is unlimited.
type UsageSnapshot struct {
	SubscriptionID     uint       `json:"subscription_id"`
	PlanCode           string     `json:"plan_code"`
	PeriodStart        time.Time  `json:"period_start"`
	PeriodEnd          time.Time  `json:"period_end"`
	PreorderCount      int        `json:"preorder_count"`
	CountLimit         int        `json:"count_limit"`
	CountPercent       *float64   `json:"count_percent,omitempty"`
	PreorderValueCents int64      `json:"preorder_value_cents"`
	ValueLimitCents    int64      `json:"value_limit_cents"`
	ValuePercent       *float64   `json:"value_percent,omitempty"`
	CachedAt           *time.Time `json:"cached_at,omitempty"`
}

// UsageCache is an optional read-through cache for usage snapshots. Writers
// invalidate on every reservation, release and period rollover.
type UsageCache interface {
	Get(ctx context.Context, subscriptionID uint) (*UsageSnapshot, bool, error)
	Set(ctx context.Context, subscriptionID uint, snapshot *UsageSnapshot) error
	Invalidate(ctx context.Context, subscriptionID uint) error
}

type GetUsageCommand struct {
	SubscriptionID uint
}

type GetUsageUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	ledgerRepo       subscription.LedgerRepository
	cache            UsageCache // optional
	logger           logger.Interface
}

func NewGetUsageUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	ledgerRepo subscription.LedgerRepository,
	cache UsageCache,
	logger logger.Interface,
) *GetUsageUseCase {
	return &GetUsageUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		ledgerRepo:       ledgerRepo,
		cache:            cache,
		logger:           logger,
	}
}

func (uc *GetUsageUseCase) Execute(ctx context.Context, cmd GetUsageCommand) (*UsageSnapshot, error) {
	if uc.cache != nil {
		snapshot, hit, err := uc.cache.Get(ctx, cmd.SubscriptionID)
		if err != nil {
			uc.logger.Warnw("usage cache read failed", "error", err, "subscription_id", cmd.SubscriptionID)
		} else if hit {
			return snapshot, nil
		}
	}

	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	plan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	entry, err := uc.ledgerRepo.GetOrCreate(ctx, sub.ID(), sub.CurrentPeriodStart())
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	snapshot := buildUsageSnapshot(sub, plan, entry)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, sub.ID(), snapshot); err != nil {
			uc.logger.Warnw("usage cache write failed", "error", err, "subscription_id", sub.ID())
		}
	}

	return snapshot, nil
}

func buildUsageSnapshot(sub *subscription.Subscription, plan *subscription.Plan, entry *subscription.LedgerEntry) *UsageSnapshot {
	snapshot := &UsageSnapshot{
		SubscriptionID:     sub.ID(),
		PlanCode:           plan.Code(),
		PeriodStart:        sub.CurrentPeriodStart(),
		PeriodEnd:          sub.CurrentPeriodEnd(),
		PreorderCount:      entry.PreorderCount(),
		CountLimit:         plan.MaxPreordersPerPeriod(),
		PreorderValueCents: entry.PreorderValueCents(),
		ValueLimitCents:    plan.MaxPreorderValueCents(),
	}

	// Percentages are undefined for unlimited dimensions and omitted.
	if !plan.IsCountUnlimited() {
		percent := 100 * float64(entry.PreorderCount()) / float64(plan.MaxPreordersPerPeriod())
		snapshot.CountPercent = &percent
	}
	if !plan.IsValueUnlimited() {
		percent := 100 * float64(entry.PreorderValueCents()) / float64(plan.MaxPreorderValueCents())
		snapshot.ValuePercent = &percent
	}

	return snapshot
}
