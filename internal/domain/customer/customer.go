package customer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Customer is the B2B account that owns subscriptions. Kept deliberately
// thin: identity plus the contact address notifications go to.
type Customer struct {
	id        uint
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

func NewCustomer(name, email string) (*Customer, error) {
	if name == "" {
		return nil, fmt.Errorf("customer name cannot be empty")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid customer email: %q", email)
	}

	now := time.Now()
	return &Customer{
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructCustomer rebuilds a customer from persistence.
func ReconstructCustomer(id uint, name, email string, createdAt, updatedAt time.Time) *Customer {
	return &Customer{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c *Customer) ID() uint             { return c.id }
func (c *Customer) Name() string         { return c.name }
func (c *Customer) Email() string        { return c.email }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }

// SetID assigns the persistence identity once.
func (c *Customer) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("customer ID already set")
	}
	c.id = id
	return nil
}
