package preorder

import (
	"fmt"
	"time"
)

// Product is the catalog item a pre-order targets. Inventory accounting is
// an external collaborator; the product only carries the per-product cap.
type Product struct {
	id               uint
	sku              string
	name             string
	preorderEligible bool
	windowStart      time.Time
	windowEnd        time.Time
	basePriceCents   int64
	inventoryLimit   int
	createdAt        time.Time
	updatedAt        time.Time
	version          int
}

func NewProduct(
	sku string,
	name string,
	preorderEligible bool,
	windowStart time.Time,
	windowEnd time.Time,
	basePriceCents int64,
	inventoryLimit int,
) (*Product, error) {
	if sku == "" {
		return nil, fmt.Errorf("product SKU cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if basePriceCents <= 0 {
		return nil, fmt.Errorf("base price must be positive")
	}
	if inventoryLimit < 0 {
		return nil, fmt.Errorf("inventory limit cannot be negative")
	}
	if !windowEnd.IsZero() && !windowStart.IsZero() && windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("availability window end cannot precede start")
	}

	now := time.Now()
	return &Product{
		sku:              sku,
		name:             name,
		preorderEligible: preorderEligible,
		windowStart:      windowStart.UTC(),
		windowEnd:        windowEnd.UTC(),
		basePriceCents:   basePriceCents,
		inventoryLimit:   inventoryLimit,
		createdAt:        now,
		updatedAt:        now,
		version:          1,
	}, nil
}

// ReconstructProduct rebuilds a product from persistence.
func ReconstructProduct(
	id uint,
	sku string,
	name string,
	preorderEligible bool,
	windowStart time.Time,
	windowEnd time.Time,
	basePriceCents int64,
	inventoryLimit int,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) *Product {
	return &Product{
		id:               id,
		sku:              sku,
		name:             name,
		preorderEligible: preorderEligible,
		windowStart:      windowStart,
		windowEnd:        windowEnd,
		basePriceCents:   basePriceCents,
		inventoryLimit:   inventoryLimit,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
		version:          version,
	}
}

func (p *Product) ID() uint               { return p.id }
func (p *Product) SKU() string            { return p.sku }
func (p *Product) Name() string           { return p.name }
func (p *Product) PreorderEligible() bool { return p.preorderEligible }
func (p *Product) WindowStart() time.Time { return p.windowStart }
func (p *Product) WindowEnd() time.Time   { return p.windowEnd }
func (p *Product) BasePriceCents() int64  { return p.basePriceCents }
func (p *Product) InventoryLimit() int    { return p.inventoryLimit }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }
func (p *Product) Version() int           { return p.version }

// SetID assigns the persistence identity once.
func (p *Product) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("product ID already set")
	}
	p.id = id
	return nil
}

// EffectiveWindowOpen returns the moment the availability window opens for a
// subscriber with the given early access. N days of early access shift the
// open earlier by N days.
func (p *Product) EffectiveWindowOpen(earlyAccessDays int) time.Time {
	return p.windowStart.AddDate(0, 0, -earlyAccessDays)
}

// CheckAvailability validates the availability window for a subscriber with
// the given early access at the given time.
func (p *Product) CheckAvailability(now time.Time, earlyAccessDays int) error {
	if !p.preorderEligible {
		return ErrProductNotEligible
	}
	opensAt := p.EffectiveWindowOpen(earlyAccessDays)
	if now.Before(opensAt) {
		return ErrWindowNotOpenUntil(opensAt)
	}
	if !p.windowEnd.IsZero() && now.After(p.windowEnd) {
		return ErrOutsideAvailabilityWindow
	}
	return nil
}
