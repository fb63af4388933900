package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sokogate/internal/domain/subscription"
	vo "sokogate/internal/domain/subscription/valueobjects"
	"sokogate/internal/infrastructure/persistence/models"
	"sokogate/internal/shared/db"
	"sokogate/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) subscription.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := r.toModel(sub)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription", "error", err, "customer_id", sub.CustomerID())
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if sub.ID() == 0 && model.ID > 0 {
		if err := sub.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return r.toEntity(&model), nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *subscription.Subscription) error {
	model := r.toModel(sub)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("id = ?", sub.ID()).
		Updates(map[string]interface{}{
			"status":               model.Status,
			"auto_renew":           model.AutoRenew,
			"current_period_start": model.CurrentPeriodStart,
			"current_period_end":   model.CurrentPeriodEnd,
			"paused_at":            model.PausedAt,
			"failed_attempts":      model.FailedAttempts,
			"next_retry_at":        model.NextRetryAt,
			"version":              model.Version,
			"updated_at":           time.Now(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "error", result.Error, "subscription_id", sub.ID())
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) GetNonCancelledByCustomerID(ctx context.Context, customerID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("customer_id = ? AND status <> ?", customerID, vo.StatusCancelled.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription by customer: %w", err)
	}
	return r.toEntity(&model), nil
}

func (r *SubscriptionRepositoryImpl) FindDue(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	var subModels []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("auto_renew = ?", true).
		Where("current_period_end <= ?", now).
		Where("status IN ?", []string{vo.StatusActive.String(), vo.StatusPastDue.String()}).
		Where("status = ? OR next_retry_at IS NULL OR next_retry_at <= ?", vo.StatusActive.String(), now).
		Order("current_period_end ASC").
		Find(&subModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find due subscriptions: %w", err)
	}

	subs := make([]*subscription.Subscription, 0, len(subModels))
	for _, model := range subModels {
		subs = append(subs, r.toEntity(model))
	}
	return subs, nil
}

func (r *SubscriptionRepositoryImpl) toEntity(model *models.SubscriptionModel) *subscription.Subscription {
	return subscription.ReconstructSubscription(
		model.ID,
		model.CustomerID,
		model.PlanID,
		vo.SubscriptionStatus(model.Status),
		vo.BillingCycle(model.BillingCycle),
		model.PaymentMethod,
		model.AutoRenew,
		model.CurrentPeriodStart,
		model.CurrentPeriodEnd,
		model.PausedAt,
		model.FailedAttempts,
		model.NextRetryAt,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
}

func (r *SubscriptionRepositoryImpl) toModel(sub *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:                 sub.ID(),
		CustomerID:         sub.CustomerID(),
		PlanID:             sub.PlanID(),
		Status:             sub.Status().String(),
		BillingCycle:       sub.BillingCycle().String(),
		PaymentMethod:      sub.PaymentMethod(),
		AutoRenew:          sub.AutoRenew(),
		CurrentPeriodStart: sub.CurrentPeriodStart(),
		CurrentPeriodEnd:   sub.CurrentPeriodEnd(),
		PausedAt:           sub.PausedAt(),
		FailedAttempts:     sub.FailedAttempts(),
		NextRetryAt:        sub.NextRetryAt(),
		Version:            sub.Version(),
		CreatedAt:          sub.CreatedAt(),
		UpdatedAt:          sub.UpdatedAt(),
	}
}
