package preorder

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrPreOrderNotFound = errors.New("preorder not found")
	ErrProductNotFound  = errors.New("product not found")

	ErrProductNotEligible = errors.New("product is not eligible for preorder")

	// ErrOutsideAvailabilityWindow covers both requests before the tier's
	// effective window opens and requests after the window closes.
	ErrOutsideAvailabilityWindow = errors.New("outside product availability window")

	ErrInsufficientInventory = errors.New("insufficient preorder inventory")
)

// ErrWindowNotOpenUntil reports a request placed before the subscriber's
// effective window open, which already includes the tier's early access.
func ErrWindowNotOpenUntil(opensAt time.Time) error {
	return fmt.Errorf("%w: opens at %s", ErrOutsideAvailabilityWindow, opensAt.UTC().Format(time.RFC3339))
}

// ErrInvalidStatusTransition reports an illegal pre-order status change.
func ErrInvalidStatusTransition(from, to string) error {
	return fmt.Errorf("invalid preorder status transition from %s to %s", from, to)
}
