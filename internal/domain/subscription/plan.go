package subscription

import (
	"fmt"
	"math"
	"time"

	vo "sokogate/internal/domain/subscription/valueobjects"
)

// UnlimitedLimit is the sentinel meaning "no limit" for plan quota fields.
const UnlimitedLimit = 0

// Plan is an immutable tier definition. Tier behavior is data on the plan,
// never per-tier code: limits, discount and early access drive all three
// tiers through the same fields.
type Plan struct {
	id                 uint
	code               string
	name               string
	tier               vo.Tier
	monthlyPriceCents  int64
	billingCycles      []vo.BillingCycle
	maxPreorders       int
	maxPreorderValue   int64
	earlyAccessDays    int
	discountPercent    float64
	maxTrackedProducts int
	createdAt          time.Time
	updatedAt          time.Time
	version            int
}

func NewPlan(
	code string,
	name string,
	tier vo.Tier,
	monthlyPriceCents int64,
	billingCycles []vo.BillingCycle,
	maxPreorders int,
	maxPreorderValueCents int64,
	earlyAccessDays int,
	discountPercent float64,
	maxTrackedProducts int,
) (*Plan, error) {
	if code == "" {
		return nil, fmt.Errorf("plan code cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("plan name cannot be empty")
	}
	if !tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", tier)
	}
	if monthlyPriceCents <= 0 {
		return nil, fmt.Errorf("monthly price must be positive")
	}
	if len(billingCycles) == 0 {
		return nil, fmt.Errorf("plan must offer at least one billing cycle")
	}
	for _, cycle := range billingCycles {
		if !cycle.IsValid() {
			return nil, fmt.Errorf("invalid billing cycle: %s", cycle)
		}
	}
	if maxPreorders < 0 {
		return nil, fmt.Errorf("max preorders per period cannot be negative")
	}
	if maxPreorderValueCents < 0 {
		return nil, fmt.Errorf("max preorder value per period cannot be negative")
	}
	if earlyAccessDays < 0 {
		return nil, fmt.Errorf("early access days cannot be negative")
	}
	if discountPercent < 0 || discountPercent >= 100 {
		return nil, fmt.Errorf("discount percent must be in [0, 100)")
	}
	if maxTrackedProducts < 0 {
		return nil, fmt.Errorf("max tracked products cannot be negative")
	}

	now := time.Now()
	return &Plan{
		code:               code,
		name:               name,
		tier:               tier,
		monthlyPriceCents:  monthlyPriceCents,
		billingCycles:      billingCycles,
		maxPreorders:       maxPreorders,
		maxPreorderValue:   maxPreorderValueCents,
		earlyAccessDays:    earlyAccessDays,
		discountPercent:    discountPercent,
		maxTrackedProducts: maxTrackedProducts,
		createdAt:          now,
		updatedAt:          now,
		version:            1,
	}, nil
}

// ReconstructPlan rebuilds a plan from persistence without validation.
func ReconstructPlan(
	id uint,
	code string,
	name string,
	tier vo.Tier,
	monthlyPriceCents int64,
	billingCycles []vo.BillingCycle,
	maxPreorders int,
	maxPreorderValueCents int64,
	earlyAccessDays int,
	discountPercent float64,
	maxTrackedProducts int,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) *Plan {
	return &Plan{
		id:                 id,
		code:               code,
		name:               name,
		tier:               tier,
		monthlyPriceCents:  monthlyPriceCents,
		billingCycles:      billingCycles,
		maxPreorders:       maxPreorders,
		maxPreorderValue:   maxPreorderValueCents,
		earlyAccessDays:    earlyAccessDays,
		discountPercent:    discountPercent,
		maxTrackedProducts: maxTrackedProducts,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
		version:            version,
	}
}

func (p *Plan) ID() uint                         { return p.id }
func (p *Plan) Code() string                     { return p.code }
func (p *Plan) Name() string                     { return p.name }
func (p *Plan) Tier() vo.Tier                    { return p.tier }
func (p *Plan) MonthlyPriceCents() int64         { return p.monthlyPriceCents }
func (p *Plan) BillingCycles() []vo.BillingCycle { return p.billingCycles }
func (p *Plan) MaxPreordersPerPeriod() int       { return p.maxPreorders }
func (p *Plan) MaxPreorderValueCents() int64     { return p.maxPreorderValue }
func (p *Plan) EarlyAccessDays() int             { return p.earlyAccessDays }
func (p *Plan) DiscountPercent() float64         { return p.discountPercent }
func (p *Plan) MaxTrackedProducts() int          { return p.maxTrackedProducts }
func (p *Plan) CreatedAt() time.Time             { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time             { return p.updatedAt }
func (p *Plan) Version() int                     { return p.version }

// SetID assigns the persistence identity once.
func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID already set")
	}
	p.id = id
	return nil
}

func (p *Plan) IsCountUnlimited() bool {
	return p.maxPreorders == UnlimitedLimit
}

func (p *Plan) IsValueUnlimited() bool {
	return p.maxPreorderValue == UnlimitedLimit
}

// SupportsBillingCycle reports whether the plan offers the given cycle.
func (p *Plan) SupportsBillingCycle(cycle vo.BillingCycle) bool {
	for _, c := range p.billingCycles {
		if c == cycle {
			return true
		}
	}
	return false
}

// ApplyDiscountCents returns amount after the plan discount, rounded to the
// nearest cent.
func (p *Plan) ApplyDiscountCents(amountCents int64) int64 {
	if p.discountPercent == 0 {
		return amountCents
	}
	return int64(math.Round(float64(amountCents) * (100 - p.discountPercent) / 100))
}

// ChargeAmountCents returns the recurring charge for one period of the
// given cycle.
func (p *Plan) ChargeAmountCents(cycle vo.BillingCycle) int64 {
	switch cycle {
	case vo.BillingCycleMonthly:
		return p.monthlyPriceCents
	case vo.BillingCycleQuarterly:
		return p.monthlyPriceCents * 3
	case vo.BillingCycleAnnually:
		return p.monthlyPriceCents * 12
	default:
		return p.monthlyPriceCents
	}
}
