package valueobjects

type PreOrderStatus string

const (
	StatusPending   PreOrderStatus = "pending"
	StatusConfirmed PreOrderStatus = "confirmed"
	StatusCancelled PreOrderStatus = "cancelled"
	StatusFulfilled PreOrderStatus = "fulfilled"
)

func (s PreOrderStatus) String() string {
	return string(s)
}

// CanCancel reports whether the pre-order may still be cancelled. Once
// fulfillment begins the frozen quota can no longer be released.
func (s PreOrderStatus) CanCancel() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s PreOrderStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusFulfilled
}

func (s PreOrderStatus) CanTransitionTo(target PreOrderStatus) bool {
	transitions := map[PreOrderStatus][]PreOrderStatus{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusFulfilled, StatusCancelled},
		StatusCancelled: {},
		StatusFulfilled: {},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[PreOrderStatus]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusCancelled: true,
	StatusFulfilled: true,
}
