package subscription

import (
	"context"
	"time"
)

// PlanRepository is the read-mostly plan catalog. Plans are immutable once
// published, so there is no update operation.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetByCode(ctx context.Context, code string) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error

	// GetNonCancelledByCustomerID returns the customer's live subscription
	// (any status except cancelled), or ErrSubscriptionNotFound.
	GetNonCancelledByCustomerID(ctx context.Context, customerID uint) (*Subscription, error)

	// FindDue returns billable auto-renew subscriptions whose period has
	// ended and whose retry schedule, if any, has come due.
	FindDue(ctx context.Context, now time.Time) ([]*Subscription, error)
}

// LedgerRepository persists per-period usage entries. Reserve and Release
// must be atomic per (subscription_id, period_start): implementations use a
// conditional update so no two reservations can pass the limit check against
// the same stale counters.
type LedgerRepository interface {
	// GetOrCreate is idempotent and race-safe: at most one entry ever
	// exists per (subscription_id, period_start).
	GetOrCreate(ctx context.Context, subscriptionID uint, periodStart time.Time) (*LedgerEntry, error)

	Get(ctx context.Context, subscriptionID uint, periodStart time.Time) (*LedgerEntry, error)

	// Reserve atomically applies the check-and-increment for count orders
	// and valueCents against the plan limits. On quota violation it returns
	// a QuotaExceededError naming the exceeded dimension and the remaining
	// headroom; on success it returns the updated entry.
	Reserve(ctx context.Context, subscriptionID uint, periodStart time.Time, plan *Plan, count int, valueCents int64) (*LedgerEntry, error)

	// Release reverses a prior reservation. Underflow is ErrConsistency.
	Release(ctx context.Context, subscriptionID uint, periodStart time.Time, count int, valueCents int64) error

	// ListBySubscription returns all periods' entries, newest first. Old
	// entries are retained for history and never deleted.
	ListBySubscription(ctx context.Context, subscriptionID uint) ([]*LedgerEntry, error)
}
