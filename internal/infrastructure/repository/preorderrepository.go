package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sokogate/internal/domain/preorder"
	vo "sokogate/internal/domain/preorder/valueobjects"
	"sokogate/internal/infrastructure/persistence/models"
	"sokogate/internal/shared/db"
	"sokogate/internal/shared/logger"
)

type PreOrderRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPreOrderRepository(db *gorm.DB, logger logger.Interface) preorder.PreOrderRepository {
	return &PreOrderRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *PreOrderRepositoryImpl) Create(ctx context.Context, po *preorder.PreOrder) error {
	model := r.toModel(po)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create preorder", "error", err, "subscription_id", po.SubscriptionID())
		return fmt.Errorf("failed to create preorder: %w", err)
	}

	if po.ID() == 0 && model.ID > 0 {
		if err := po.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PreOrderRepositoryImpl) GetByID(ctx context.Context, id uint) (*preorder.PreOrder, error) {
	var model models.PreOrderModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, preorder.ErrPreOrderNotFound
		}
		return nil, fmt.Errorf("failed to get preorder: %w", err)
	}
	return r.toEntity(&model), nil
}

func (r *PreOrderRepositoryImpl) Update(ctx context.Context, po *preorder.PreOrder) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.PreOrderModel{}).
		Where("id = ?", po.ID()).
		Updates(map[string]interface{}{
			"status":     po.Status().String(),
			"version":    po.Version(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update preorder", "error", result.Error, "preorder_id", po.ID())
		return fmt.Errorf("failed to update preorder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return preorder.ErrPreOrderNotFound
	}
	return nil
}

func (r *PreOrderRepositoryImpl) List(ctx context.Context, filters preorder.PreOrderFilters) ([]*preorder.PreOrder, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PreOrderModel{})
	if filters.SubscriptionID != 0 {
		query = query.Where("subscription_id = ?", filters.SubscriptionID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status.String())
	}

	var poModels []*models.PreOrderModel
	if err := query.Order("created_at DESC").Find(&poModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list preorders: %w", err)
	}

	orders := make([]*preorder.PreOrder, 0, len(poModels))
	for _, model := range poModels {
		orders = append(orders, r.toEntity(model))
	}
	return orders, nil
}

func (r *PreOrderRepositoryImpl) CountConfirmedQuantityByProduct(ctx context.Context, productID uint) (int, error) {
	var total int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.PreOrderModel{}).
		Where("product_id = ? AND status IN ?", productID,
			[]string{vo.StatusConfirmed.String(), vo.StatusFulfilled.String()}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed quantity: %w", err)
	}
	return int(total), nil
}

func (r *PreOrderRepositoryImpl) toEntity(model *models.PreOrderModel) *preorder.PreOrder {
	return preorder.ReconstructPreOrder(
		model.ID,
		model.SubscriptionID,
		model.ProductID,
		model.Quantity,
		model.UnitPriceCents,
		model.DiscountPercent,
		model.FinalPriceCents,
		vo.PreOrderStatus(model.Status),
		model.PriorityLevel,
		model.PeriodStart,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
}

func (r *PreOrderRepositoryImpl) toModel(po *preorder.PreOrder) *models.PreOrderModel {
	return &models.PreOrderModel{
		ID:              po.ID(),
		SubscriptionID:  po.SubscriptionID(),
		ProductID:       po.ProductID(),
		Quantity:        po.Quantity(),
		UnitPriceCents:  po.UnitPriceCents(),
		DiscountPercent: po.DiscountPercent(),
		FinalPriceCents: po.FinalPriceCents(),
		Status:          po.Status().String(),
		PriorityLevel:   po.PriorityLevel(),
		PeriodStart:     po.PeriodStart(),
		Version:         po.Version(),
		CreatedAt:       po.CreatedAt(),
		UpdatedAt:       po.UpdatedAt(),
	}
}
