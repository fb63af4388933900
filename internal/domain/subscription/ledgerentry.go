package subscription

import (
	"fmt"
	"time"
)

// LedgerEntry holds the pre-order usage counters for one subscription and
// one billing period. Entries are append-only per period: a rollover always
// creates a new entry instead of mutating the previous one, so history stays
// queryable. Counters only move through Reserve and Release.
type LedgerEntry struct {
	id                 uint
	subscriptionID     uint
	periodStart        time.Time
	preorderCount      int
	preorderValueCents int64
	createdAt          time.Time
	updatedAt          time.Time
	version            int
}

func NewLedgerEntry(subscriptionID uint, periodStart time.Time) (*LedgerEntry, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if periodStart.IsZero() {
		return nil, fmt.Errorf("period start cannot be zero")
	}

	now := time.Now()
	return &LedgerEntry{
		subscriptionID: subscriptionID,
		periodStart:    periodStart.UTC(),
		createdAt:      now,
		updatedAt:      now,
		version:        1,
	}, nil
}

// ReconstructLedgerEntry rebuilds an entry from persistence.
func ReconstructLedgerEntry(
	id uint,
	subscriptionID uint,
	periodStart time.Time,
	preorderCount int,
	preorderValueCents int64,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) *LedgerEntry {
	return &LedgerEntry{
		id:                 id,
		subscriptionID:     subscriptionID,
		periodStart:        periodStart,
		preorderCount:      preorderCount,
		preorderValueCents: preorderValueCents,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
		version:            version,
	}
}

func (e *LedgerEntry) ID() uint                  { return e.id }
func (e *LedgerEntry) SubscriptionID() uint      { return e.subscriptionID }
func (e *LedgerEntry) PeriodStart() time.Time    { return e.periodStart }
func (e *LedgerEntry) PreorderCount() int        { return e.preorderCount }
func (e *LedgerEntry) PreorderValueCents() int64 { return e.preorderValueCents }
func (e *LedgerEntry) CreatedAt() time.Time      { return e.createdAt }
func (e *LedgerEntry) UpdatedAt() time.Time      { return e.updatedAt }
func (e *LedgerEntry) Version() int              { return e.version }

// SetID assigns the persistence identity once.
func (e *LedgerEntry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("ledger entry ID already set")
	}
	e.id = id
	return nil
}

// RemainingCount returns the order headroom under the plan, not meaningful
// when the count limit is unlimited.
func (e *LedgerEntry) RemainingCount(plan *Plan) int64 {
	remaining := int64(plan.MaxPreordersPerPeriod()) - int64(e.preorderCount)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingValueCents returns the value headroom under the plan in cents,
// not meaningful when the value limit is unlimited.
func (e *LedgerEntry) RemainingValueCents(plan *Plan) int64 {
	remaining := plan.MaxPreorderValueCents() - e.preorderValueCents
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CheckReserve verifies that adding count orders and valueCents of value
// would stay within the plan limits. Unlimited limits short-circuit to pass.
// When both dimensions would be exceeded the value violation is reported,
// value being the stricter business constraint.
func (e *LedgerEntry) CheckReserve(plan *Plan, count int, valueCents int64) error {
	countExceeded := !plan.IsCountUnlimited() &&
		e.preorderCount+count > plan.MaxPreordersPerPeriod()
	valueExceeded := !plan.IsValueUnlimited() &&
		e.preorderValueCents+valueCents > plan.MaxPreorderValueCents()

	if valueExceeded {
		return NewQuotaExceededError(DimensionValue, e.RemainingValueCents(plan))
	}
	if countExceeded {
		return NewQuotaExceededError(DimensionCount, e.RemainingCount(plan))
	}
	return nil
}

// Reserve is the check-and-increment over both dimensions. Callers that go
// through the repository get the same semantics as a single conditional SQL
// update; this in-memory form backs that path and the domain tests.
func (e *LedgerEntry) Reserve(plan *Plan, count int, valueCents int64) error {
	if count <= 0 {
		return fmt.Errorf("reservation count must be positive")
	}
	if valueCents < 0 {
		return fmt.Errorf("reservation value cannot be negative")
	}
	if err := e.CheckReserve(plan, count, valueCents); err != nil {
		return err
	}
	e.preorderCount += count
	e.preorderValueCents += valueCents
	e.touch()
	return nil
}

// Release reverses a prior reservation. Counters never go negative: a
// release that would underflow is a consistency violation, surfaced loudly
// rather than clamped silently.
func (e *LedgerEntry) Release(count int, valueCents int64) error {
	if count <= 0 {
		return fmt.Errorf("release count must be positive")
	}
	if valueCents < 0 {
		return fmt.Errorf("release value cannot be negative")
	}
	if e.preorderCount-count < 0 {
		return fmt.Errorf("%w: releasing %d orders from entry holding %d", ErrConsistency, count, e.preorderCount)
	}
	if e.preorderValueCents-valueCents < 0 {
		return fmt.Errorf("%w: releasing %d cents from entry holding %d", ErrConsistency, valueCents, e.preorderValueCents)
	}
	e.preorderCount -= count
	e.preorderValueCents -= valueCents
	e.touch()
	return nil
}

func (e *LedgerEntry) touch() {
	e.updatedAt = time.Now()
	e.version++
}
