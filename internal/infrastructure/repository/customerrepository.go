package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sokogate/internal/domain/customer"
	"sokogate/internal/infrastructure/persistence/models"
	"sokogate/internal/shared/db"
	"sokogate/internal/shared/logger"
)

type CustomerRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCustomerRepository(db *gorm.DB, logger logger.Interface) customer.Repository {
	return &CustomerRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *CustomerRepositoryImpl) Create(ctx context.Context, c *customer.Customer) error {
	model := &models.CustomerModel{
		Name:      c.Name(),
		Email:     c.Email(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create customer", "error", err, "email", c.Email())
		return fmt.Errorf("failed to create customer: %w", err)
	}

	if c.ID() == 0 && model.ID > 0 {
		if err := c.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *CustomerRepositoryImpl) GetByID(ctx context.Context, id uint) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer.ReconstructCustomer(model.ID, model.Name, model.Email, model.CreatedAt, model.UpdatedAt), nil
}

func (r *CustomerRepositoryImpl) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := db.GetTxFromContext(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}
	return customer.ReconstructCustomer(model.ID, model.Name, model.Email, model.CreatedAt, model.UpdatedAt), nil
}
