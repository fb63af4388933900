package seed

import (
	"context"
	"errors"
	"fmt"

	"sokogate/internal/domain/subscription"
	vo "sokogate/internal/domain/subscription/valueobjects"
	"sokogate/internal/shared/config"
	"sokogate/internal/shared/logger"
)

// PlanSeeder loads the tier catalog from configuration. Seeding is idempotent
// keyed on plan code: existing plans are left untouched.
type PlanSeeder struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewPlanSeeder(planRepo subscription.PlanRepository, logger logger.Interface) *PlanSeeder {
	return &PlanSeeder{
		planRepo: planRepo,
		logger:   logger.Named("seed"),
	}
}

func (s *PlanSeeder) Seed(ctx context.Context, catalog *config.CatalogConfig) error {
	created := 0
	for _, seed := range catalog.Plans {
		_, err := s.planRepo.GetByCode(ctx, seed.Code)
		if err == nil {
			s.logger.Debugw("plan already seeded", "code", seed.Code)
			continue
		}
		if !errors.Is(err, subscription.ErrPlanNotFound) {
			return fmt.Errorf("failed to check plan %s: %w", seed.Code, err)
		}

		plan, err := s.buildPlan(seed)
		if err != nil {
			return fmt.Errorf("invalid plan seed %s: %w", seed.Code, err)
		}
		if err := s.planRepo.Create(ctx, plan); err != nil {
			return fmt.Errorf("failed to create plan %s: %w", seed.Code, err)
		}

		s.logger.Infow("plan seeded",
			"code", plan.Code(),
			"monthly_price_cents", plan.MonthlyPriceCents(),
			"max_preorders", plan.MaxPreordersPerPeriod(),
			"max_preorder_value_cents", plan.MaxPreorderValueCents(),
		)
		created++
	}

	s.logger.Infow("plan catalog seeding finished", "created", created, "total", len(catalog.Plans))
	return nil
}

func (s *PlanSeeder) buildPlan(seed config.PlanSeedConfig) (*subscription.Plan, error) {
	tier, err := vo.ParseTier(seed.Code)
	if err != nil {
		return nil, err
	}

	cycleStrings := seed.BillingCycles
	if len(cycleStrings) == 0 {
		cycleStrings = []string{"monthly", "quarterly", "annually"}
	}
	cycles := make([]vo.BillingCycle, 0, len(cycleStrings))
	for _, raw := range cycleStrings {
		cycle, err := vo.ParseBillingCycle(raw)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}

	return subscription.NewPlan(
		seed.Code,
		seed.Name,
		tier,
		seed.MonthlyPriceCents,
		cycles,
		seed.PreorderLimit,
		seed.PreorderValueCents,
		seed.EarlyAccessDays,
		seed.DiscountPercent,
		seed.MaxTrackedProducts,
	)
}
