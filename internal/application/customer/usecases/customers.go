package usecases

import (
	"context"
	"errors"
	"fmt"

	"sokogate/internal/domain/customer"
	apperrors "sokogate/internal/shared/errors"
)

type CreateCustomerCommand struct {
	Name  string
	Email string
}

type CreateCustomerUseCase struct {
	customerRepo customer.Repository
}

func NewCreateCustomerUseCase(customerRepo customer.Repository) *CreateCustomerUseCase {
	return &CreateCustomerUseCase{customerRepo: customerRepo}
}

func (uc *CreateCustomerUseCase) Execute(ctx context.Context, cmd CreateCustomerCommand) (*customer.Customer, error) {
	_, err := uc.customerRepo.GetByEmail(ctx, cmd.Email)
	if err == nil {
		return nil, apperrors.NewConflictError("customer with this email already exists")
	}
	if !errors.Is(err, customer.ErrCustomerNotFound) {
		return nil, fmt.Errorf("failed to check customer email: %w", err)
	}

	c, err := customer.NewCustomer(cmd.Name, cmd.Email)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.customerRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return c, nil
}

type GetCustomerUseCase struct {
	customerRepo customer.Repository
}

func NewGetCustomerUseCase(customerRepo customer.Repository) *GetCustomerUseCase {
	return &GetCustomerUseCase{customerRepo: customerRepo}
}

func (uc *GetCustomerUseCase) Execute(ctx context.Context, customerID uint) (*customer.Customer, error) {
	return uc.customerRepo.GetByID(ctx, customerID)
}
