package preorder

import (
	"fmt"
	"time"

	vo "sokogate/internal/domain/preorder/valueobjects"
)

const (
	MinPriorityLevel = 1
	MaxPriorityLevel = 5
)

// PreOrder is the admitted pre-order record. Pricing fields are frozen at
// confirmation: discount and final price never change when the subscriber
// later switches plans. PeriodStart remembers which ledger entry the
// reservation was taken against so cancellation releases the right period.
type PreOrder struct {
	id              uint
	subscriptionID  uint
	productID       uint
	quantity        int
	unitPriceCents  int64
	discountPercent float64
	finalPriceCents int64
	status          vo.PreOrderStatus
	priorityLevel   int
	periodStart     time.Time
	createdAt       time.Time
	updatedAt       time.Time
	version         int
}

func NewPreOrder(
	subscriptionID uint,
	productID uint,
	quantity int,
	unitPriceCents int64,
	discountPercent float64,
	finalPriceCents int64,
	priorityLevel int,
	periodStart time.Time,
) (*PreOrder, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if productID == 0 {
		return nil, fmt.Errorf("product ID cannot be zero")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if unitPriceCents <= 0 {
		return nil, fmt.Errorf("unit price must be positive")
	}
	if discountPercent < 0 || discountPercent >= 100 {
		return nil, fmt.Errorf("discount percent must be in [0, 100)")
	}
	if finalPriceCents < 0 {
		return nil, fmt.Errorf("final price cannot be negative")
	}
	if priorityLevel < MinPriorityLevel || priorityLevel > MaxPriorityLevel {
		return nil, fmt.Errorf("priority level must be between %d and %d", MinPriorityLevel, MaxPriorityLevel)
	}
	if periodStart.IsZero() {
		return nil, fmt.Errorf("period start cannot be zero")
	}

	now := time.Now()
	return &PreOrder{
		subscriptionID:  subscriptionID,
		productID:       productID,
		quantity:        quantity,
		unitPriceCents:  unitPriceCents,
		discountPercent: discountPercent,
		finalPriceCents: finalPriceCents,
		status:          vo.StatusPending,
		priorityLevel:   priorityLevel,
		periodStart:     periodStart.UTC(),
		createdAt:       now,
		updatedAt:       now,
		version:         1,
	}, nil
}

// ReconstructPreOrder rebuilds a pre-order from persistence.
func ReconstructPreOrder(
	id uint,
	subscriptionID uint,
	productID uint,
	quantity int,
	unitPriceCents int64,
	discountPercent float64,
	finalPriceCents int64,
	status vo.PreOrderStatus,
	priorityLevel int,
	periodStart time.Time,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) *PreOrder {
	return &PreOrder{
		id:              id,
		subscriptionID:  subscriptionID,
		productID:       productID,
		quantity:        quantity,
		unitPriceCents:  unitPriceCents,
		discountPercent: discountPercent,
		finalPriceCents: finalPriceCents,
		status:          status,
		priorityLevel:   priorityLevel,
		periodStart:     periodStart,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		version:         version,
	}
}

func (p *PreOrder) ID() uint                  { return p.id }
func (p *PreOrder) SubscriptionID() uint      { return p.subscriptionID }
func (p *PreOrder) ProductID() uint           { return p.productID }
func (p *PreOrder) Quantity() int             { return p.quantity }
func (p *PreOrder) UnitPriceCents() int64     { return p.unitPriceCents }
func (p *PreOrder) DiscountPercent() float64  { return p.discountPercent }
func (p *PreOrder) FinalPriceCents() int64    { return p.finalPriceCents }
func (p *PreOrder) Status() vo.PreOrderStatus { return p.status }
func (p *PreOrder) PriorityLevel() int        { return p.priorityLevel }
func (p *PreOrder) PeriodStart() time.Time    { return p.periodStart }
func (p *PreOrder) CreatedAt() time.Time      { return p.createdAt }
func (p *PreOrder) UpdatedAt() time.Time      { return p.updatedAt }
func (p *PreOrder) Version() int              { return p.version }

// SetID assigns the persistence identity once.
func (p *PreOrder) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("preorder ID already set")
	}
	p.id = id
	return nil
}

// Confirm marks the pre-order admitted. Only pending pre-orders confirm.
func (p *PreOrder) Confirm() error {
	if !p.status.CanTransitionTo(vo.StatusConfirmed) {
		return ErrInvalidStatusTransition(p.status.String(), vo.StatusConfirmed.String())
	}
	p.status = vo.StatusConfirmed
	p.touch()
	return nil
}

// Cancel releases the pre-order. Legal only while pending or confirmed,
// before fulfillment begins.
func (p *PreOrder) Cancel() error {
	if !p.status.CanCancel() {
		return ErrInvalidStatusTransition(p.status.String(), vo.StatusCancelled.String())
	}
	p.status = vo.StatusCancelled
	p.touch()
	return nil
}

// Fulfill marks a confirmed pre-order as shipped.
func (p *PreOrder) Fulfill() error {
	if !p.status.CanTransitionTo(vo.StatusFulfilled) {
		return ErrInvalidStatusTransition(p.status.String(), vo.StatusFulfilled.String())
	}
	p.status = vo.StatusFulfilled
	p.touch()
	return nil
}

func (p *PreOrder) touch() {
	p.updatedAt = time.Now()
	p.version++
}
