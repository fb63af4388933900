package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sokogate/internal/domain/subscription"
	vo "sokogate/internal/domain/subscription/valueobjects"
	"sokogate/internal/infrastructure/persistence/models"
	"sokogate/internal/shared/db"
	"sokogate/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *subscription.Plan) error {
	model, err := r.toModel(plan)
	if err != nil {
		return fmt.Errorf("failed to convert plan to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "error", err, "code", plan.Code())
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if plan.ID() == 0 && model.ID > 0 {
		if err := plan.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetByCode(ctx context.Context, code string) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan by code: %w", err)
	}
	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) List(ctx context.Context) ([]*subscription.Plan, error) {
	var planModels []*models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).Order("monthly_price_cents ASC").Find(&planModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	plans := make([]*subscription.Plan, 0, len(planModels))
	for _, model := range planModels {
		plan, err := r.toEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to convert plan model ID %d: %w", model.ID, err)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (r *PlanRepositoryImpl) toEntity(model *models.PlanModel) (*subscription.Plan, error) {
	var cycleStrings []string
	if err := json.Unmarshal(model.BillingCycles, &cycleStrings); err != nil {
		return nil, fmt.Errorf("failed to decode billing cycles: %w", err)
	}
	cycles := make([]vo.BillingCycle, 0, len(cycleStrings))
	for _, s := range cycleStrings {
		cycle, err := vo.ParseBillingCycle(s)
		if err != nil {
			return nil, fmt.Errorf("invalid stored billing cycle %q: %w", s, err)
		}
		cycles = append(cycles, cycle)
	}

	return subscription.ReconstructPlan(
		model.ID,
		model.Code,
		model.Name,
		vo.Tier(model.Tier),
		model.MonthlyPriceCents,
		cycles,
		model.MaxPreorders,
		model.MaxPreorderValue,
		model.EarlyAccessDays,
		model.DiscountPercent,
		model.MaxTrackedProducts,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	), nil
}

func (r *PlanRepositoryImpl) toModel(plan *subscription.Plan) (*models.PlanModel, error) {
	cycleStrings := make([]string, 0, len(plan.BillingCycles()))
	for _, cycle := range plan.BillingCycles() {
		cycleStrings = append(cycleStrings, cycle.String())
	}
	cyclesJSON, err := json.Marshal(cycleStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode billing cycles: %w", err)
	}

	return &models.PlanModel{
		ID:                 plan.ID(),
		Code:               plan.Code(),
		Name:               plan.Name(),
		Tier:               plan.Tier().String(),
		MonthlyPriceCents:  plan.MonthlyPriceCents(),
		BillingCycles:      cyclesJSON,
		MaxPreorders:       plan.MaxPreordersPerPeriod(),
		MaxPreorderValue:   plan.MaxPreorderValueCents(),
		EarlyAccessDays:    plan.EarlyAccessDays(),
		DiscountPercent:    plan.DiscountPercent(),
		MaxTrackedProducts: plan.MaxTrackedProducts(),
		Version:            plan.Version(),
		CreatedAt:          plan.CreatedAt(),
		UpdatedAt:          plan.UpdatedAt(),
	}, nil
}
