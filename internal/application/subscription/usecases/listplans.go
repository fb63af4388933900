package usecases

import (
	"context"
	"fmt"

	"sokogate/internal/domain/subscription"
)

type ListPlansUseCase struct {
	planRepo subscription.PlanRepository
}

func NewListPlansUseCase(planRepo subscription.PlanRepository) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: planRepo}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context) ([]*subscription.Plan, error) {
	plans, err := uc.planRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

type GetPlanUseCase struct {
	planRepo subscription.PlanRepository
}

func NewGetPlanUseCase(planRepo subscription.PlanRepository) *GetPlanUseCase {
	return &GetPlanUseCase{planRepo: planRepo}
}

func (uc *GetPlanUseCase) Execute(ctx context.Context, planID uint) (*subscription.Plan, error) {
	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}
