package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sokogate/internal/domain/preorder"
	"sokogate/internal/infrastructure/persistence/models"
	"sokogate/internal/shared/db"
	"sokogate/internal/shared/logger"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProductRepository(db *gorm.DB, logger logger.Interface) preorder.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *preorder.Product) error {
	model := r.toModel(product)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create product", "error", err, "sku", product.SKU())
		return fmt.Errorf("failed to create product: %w", err)
	}

	if product.ID() == 0 && model.ID > 0 {
		if err := product.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id uint) (*preorder.Product, error) {
	var model models.ProductModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, preorder.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return r.toEntity(&model), nil
}

func (r *ProductRepositoryImpl) GetBySKU(ctx context.Context, sku string) (*preorder.Product, error) {
	var model models.ProductModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sku = ?", sku).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, preorder.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by sku: %w", err)
	}
	return r.toEntity(&model), nil
}

func (r *ProductRepositoryImpl) List(ctx context.Context) ([]*preorder.Product, error) {
	var productModels []*models.ProductModel
	if err := db.GetTxFromContext(ctx, r.db).Order("id ASC").Find(&productModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*preorder.Product, 0, len(productModels))
	for _, model := range productModels {
		products = append(products, r.toEntity(model))
	}
	return products, nil
}

func (r *ProductRepositoryImpl) toEntity(model *models.ProductModel) *preorder.Product {
	return preorder.ReconstructProduct(
		model.ID,
		model.SKU,
		model.Name,
		model.PreorderEligible,
		model.WindowStart,
		model.WindowEnd,
		model.BasePriceCents,
		model.InventoryLimit,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
}

func (r *ProductRepositoryImpl) toModel(product *preorder.Product) *models.ProductModel {
	return &models.ProductModel{
		ID:               product.ID(),
		SKU:              product.SKU(),
		Name:             product.Name(),
		PreorderEligible: product.PreorderEligible(),
		WindowStart:      product.WindowStart(),
		WindowEnd:        product.WindowEnd(),
		BasePriceCents:   product.BasePriceCents(),
		InventoryLimit:   product.InventoryLimit(),
		Version:          product.Version(),
		CreatedAt:        product.CreatedAt(),
		UpdatedAt:        product.UpdatedAt(),
	}
}
