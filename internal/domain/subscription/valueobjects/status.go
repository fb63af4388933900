package valueobjects

type SubscriptionStatus string

const (
	StatusPending   SubscriptionStatus = "pending"
	StatusActive    SubscriptionStatus = "active"
	StatusPaused    SubscriptionStatus = "paused"
	StatusPastDue   SubscriptionStatus = "past_due"
	StatusCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanPlacePreOrders reports whether pre-order admission is allowed in this
// state. Only active subscriptions may place pre-orders.
func (s SubscriptionStatus) CanPlacePreOrders() bool {
	return s == StatusActive
}

// IsBillable reports whether the recurring billing sweep should consider
// this subscription.
func (s SubscriptionStatus) IsBillable() bool {
	return s == StatusActive || s == StatusPastDue
}

func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusCancelled
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusPending:   {StatusActive, StatusCancelled},
		StatusActive:    {StatusPaused, StatusPastDue, StatusCancelled},
		StatusPaused:    {StatusActive, StatusCancelled},
		StatusPastDue:   {StatusActive, StatusCancelled},
		StatusCancelled: {},
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

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPending:   true,
	StatusActive:    true,
	StatusPaused:    true,
	StatusPastDue:   true,
	StatusCancelled: true,
}
