package subscription

import (
	"fmt"
	"time"

	vo "sokogate/internal/domain/subscription/valueobjects"
)

// Subscription ties one customer to one plan and carries the billing period
// state the sweep and the admission path operate on. Usage counters live in
// per-period LedgerEntry records, not on the subscription itself.
type Subscription struct {
	id                 uint
	customerID         uint
	planID             uint
	status             vo.SubscriptionStatus
	billingCycle       vo.BillingCycle
	paymentMethod      string
	autoRenew          bool
	currentPeriodStart time.Time
	currentPeriodEnd   time.Time
	pausedAt           *time.Time
	failedAttempts     int
	nextRetryAt        *time.Time
	createdAt          time.Time
	updatedAt          time.Time
	version            int
}

func NewSubscription(customerID, planID uint, billingCycle vo.BillingCycle, paymentMethod string) (*Subscription, error) {
	if customerID == 0 {
		return nil, fmt.Errorf("customer ID cannot be zero")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if !billingCycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", billingCycle)
	}
	if paymentMethod == "" {
		return nil, fmt.Errorf("payment method cannot be empty")
	}

	now := time.Now()
	return &Subscription{
		customerID:    customerID,
		planID:        planID,
		status:        vo.StatusPending,
		billingCycle:  billingCycle,
		paymentMethod: paymentMethod,
		autoRenew:     true,
		createdAt:     now,
		updatedAt:     now,
		version:       1,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(
	id uint,
	customerID uint,
	planID uint,
	status vo.SubscriptionStatus,
	billingCycle vo.BillingCycle,
	paymentMethod string,
	autoRenew bool,
	currentPeriodStart time.Time,
	currentPeriodEnd time.Time,
	pausedAt *time.Time,
	failedAttempts int,
	nextRetryAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) *Subscription {
	return &Subscription{
		id:                 id,
		customerID:         customerID,
		planID:             planID,
		status:             status,
		billingCycle:       billingCycle,
		paymentMethod:      paymentMethod,
		autoRenew:          autoRenew,
		currentPeriodStart: currentPeriodStart,
		currentPeriodEnd:   currentPeriodEnd,
		pausedAt:           pausedAt,
		failedAttempts:     failedAttempts,
		nextRetryAt:        nextRetryAt,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
		version:            version,
	}
}

func (s *Subscription) ID() uint                      { return s.id }
func (s *Subscription) CustomerID() uint              { return s.customerID }
func (s *Subscription) PlanID() uint                  { return s.planID }
func (s *Subscription) Status() vo.SubscriptionStatus { return s.status }
func (s *Subscription) BillingCycle() vo.BillingCycle { return s.billingCycle }
func (s *Subscription) PaymentMethod() string         { return s.paymentMethod }
func (s *Subscription) AutoRenew() bool               { return s.autoRenew }
func (s *Subscription) CurrentPeriodStart() time.Time { return s.currentPeriodStart }
func (s *Subscription) CurrentPeriodEnd() time.Time   { return s.currentPeriodEnd }
func (s *Subscription) PausedAt() *time.Time          { return s.pausedAt }
func (s *Subscription) FailedAttempts() int           { return s.failedAttempts }
func (s *Subscription) NextRetryAt() *time.Time       { return s.nextRetryAt }
func (s *Subscription) CreatedAt() time.Time          { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time          { return s.updatedAt }
func (s *Subscription) Version() int                  { return s.version }

// SetID assigns the persistence identity once.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID already set")
	}
	s.id = id
	return nil
}

// Activate opens the first billing period after the initial charge succeeds.
func (s *Subscription) Activate(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusActive) {
		return ErrInvalidTransition(s.status.String(), vo.StatusActive.String())
	}
	s.status = vo.StatusActive
	s.currentPeriodStart = now.UTC()
	s.currentPeriodEnd = s.billingCycle.NextPeriodEnd(s.currentPeriodStart)
	s.failedAttempts = 0
	s.nextRetryAt = nil
	s.touch()
	return nil
}

// Pause suspends recurring billing without ending the subscription.
func (s *Subscription) Pause(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusPaused) {
		return ErrInvalidTransition(s.status.String(), vo.StatusPaused.String())
	}
	s.status = vo.StatusPaused
	paused := now.UTC()
	s.pausedAt = &paused
	s.touch()
	return nil
}

// Resume restores billing and extends the period end by the paused duration
// so no paid time is lost to the pause.
func (s *Subscription) Resume(now time.Time) error {
	if s.status != vo.StatusPaused {
		return ErrInvalidTransition(s.status.String(), vo.StatusActive.String())
	}
	if s.pausedAt != nil {
		s.currentPeriodEnd = s.currentPeriodEnd.Add(now.UTC().Sub(*s.pausedAt))
	}
	s.status = vo.StatusActive
	s.pausedAt = nil
	s.touch()
	return nil
}

// Cancel terminates the subscription. Legal from any non-terminal state and
// effective immediately: auto renew stops with it.
func (s *Subscription) Cancel() error {
	if s.status.IsTerminal() {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}
	s.status = vo.StatusCancelled
	s.autoRenew = false
	s.nextRetryAt = nil
	s.touch()
	return nil
}

// RenewPeriod advances the billing period after a successful recurring
// charge. The new period starts exactly where the old one ended; the prior
// period's ledger entry is retained for history.
func (s *Subscription) RenewPeriod() error {
	if !s.status.IsBillable() {
		return fmt.Errorf("cannot renew subscription in status %s", s.status)
	}
	if s.status == vo.StatusPastDue {
		if !s.status.CanTransitionTo(vo.StatusActive) {
			return ErrInvalidTransition(s.status.String(), vo.StatusActive.String())
		}
		s.status = vo.StatusActive
	}
	s.currentPeriodStart = s.currentPeriodEnd
	s.currentPeriodEnd = s.billingCycle.NextPeriodEnd(s.currentPeriodStart)
	s.failedAttempts = 0
	s.nextRetryAt = nil
	s.touch()
	return nil
}

// RecordFailedCharge marks a failed billing attempt and schedules the next
// retry. A nil retryAt means the schedule is exhausted; the caller is then
// expected to cancel.
func (s *Subscription) RecordFailedCharge(retryAt *time.Time) error {
	if s.status == vo.StatusActive {
		if !s.status.CanTransitionTo(vo.StatusPastDue) {
			return ErrInvalidTransition(s.status.String(), vo.StatusPastDue.String())
		}
		s.status = vo.StatusPastDue
	} else if s.status != vo.StatusPastDue {
		return fmt.Errorf("cannot record failed charge in status %s", s.status)
	}
	s.failedAttempts++
	s.nextRetryAt = retryAt
	s.touch()
	return nil
}

// IsDue reports whether the billing sweep should charge this subscription
// at the given time. Past-due subscriptions wait for their scheduled retry.
func (s *Subscription) IsDue(now time.Time) bool {
	if !s.status.IsBillable() || !s.autoRenew {
		return false
	}
	if s.currentPeriodEnd.After(now) {
		return false
	}
	if s.status == vo.StatusPastDue && s.nextRetryAt != nil && s.nextRetryAt.After(now) {
		return false
	}
	return true
}

func (s *Subscription) touch() {
	s.updatedAt = time.Now()
	s.version++
}
