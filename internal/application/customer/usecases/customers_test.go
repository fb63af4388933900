package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sokogate/internal/domain/customer"
	apperrors "sokogate/internal/shared/errors"
)

type fakeCustomerRepo struct {
	customers map[uint]*customer.Customer
	nextID    uint
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uint]*customer.Customer)}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	r.nextID++
	if err := c.SetID(r.nextID); err != nil {
		return err
	}
	r.customers[c.ID()] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uint) (*customer.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	for _, c := range r.customers {
		if c.Email() == email {
			return c, nil
		}
	}
	return nil, customer.ErrCustomerNotFound
}

// ============================================================================
// CreateCustomer / GetCustomer
// ============================================================================

func TestCreateCustomer_Success(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCreateCustomerUseCase(repo)

	c, err := uc.Execute(context.Background(), CreateCustomerCommand{
		Name:  "Acme Retail",
		Email: "buyer@acme.test",
	})
	require.NoError(t, err)
	assert.NotZero(t, c.ID())
	assert.Equal(t, "buyer@acme.test", c.Email())
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCreateCustomerUseCase(repo)

	_, err := uc.Execute(context.Background(), CreateCustomerCommand{Name: "Acme Retail", Email: "buyer@acme.test"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), CreateCustomerCommand{Name: "Acme Retail Two", Email: "buyer@acme.test"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}

func TestCreateCustomer_InvalidEmail(t *testing.T) {
	uc := NewCreateCustomerUseCase(newFakeCustomerRepo())

	_, err := uc.Execute(context.Background(), CreateCustomerCommand{Name: "Acme Retail", Email: "nope"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestGetCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	now := time.Now()
	repo.customers[3] = customer.ReconstructCustomer(3, "Acme Retail", "buyer@acme.test", now, now)

	uc := NewGetCustomerUseCase(repo)

	c, err := uc.Execute(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Acme Retail", c.Name())

	_, err = uc.Execute(context.Background(), 9)
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}
