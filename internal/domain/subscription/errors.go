package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrLedgerEntryNotFound  = errors.New("ledger entry not found")

	ErrSubscriptionNotActive = errors.New("subscription is not active")
	ErrDuplicateSubscription = errors.New("customer already has a non-cancelled subscription")
	ErrPaymentFailed         = errors.New("payment failed")
	ErrQuotaExceeded         = errors.New("quota exceeded")

	// ErrConsistency indicates an invariant violation such as a counter that
	// would go negative. It is a data corruption signal, never retried.
	ErrConsistency = errors.New("ledger consistency violation")
)

// ErrInvalidTransition reports an illegal subscription status change.
func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("invalid subscription status transition from %s to %s", from, to)
}

// Quota dimensions reported by a rejected reservation.
const (
	DimensionCount = "count"
	DimensionValue = "value"
)

// QuotaExceededError is returned when a reservation would push a ledger
// entry past one of its plan limits. Dimension names the exceeded limit and
// Remaining is the headroom still available before this request (orders for
// the count dimension, cents for the value dimension).
type QuotaExceededError struct {
	Dimension string
	Remaining int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded on %s dimension, remaining %d", e.Dimension, e.Remaining)
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}

// NewQuotaExceededError builds a typed quota rejection.
func NewQuotaExceededError(dimension string, remaining int64) *QuotaExceededError {
	return &QuotaExceededError{Dimension: dimension, Remaining: remaining}
}

// AsQuotaExceeded extracts a QuotaExceededError from an error chain.
func AsQuotaExceeded(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
