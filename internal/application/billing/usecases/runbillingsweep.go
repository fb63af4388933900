package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sokogate/internal/application/billing/gateway"
	"sokogate/internal/application/notification"
	subusecases "sokogate/internal/application/subscription/usecases"
	"sokogate/internal/domain/customer"
	"sokogate/internal/domain/subscription"
	"sokogate/internal/shared/goroutine"
	"sokogate/internal/shared/keymutex"
	"sokogate/internal/shared/logger"
)

type RunBillingSweepCommand struct {
	Now time.Time
}

type RunBillingSweepResult struct {
	Processed     int
	Renewed       int
	MarkedPastDue int
	Cancelled     int
}

// RunBillingSweepUseCase finds due subscriptions and settles them. Charges
// for different subscriptions run in parallel; per-subscription work is
// serialized through a keyed mutex so no two billing attempts for the same
// subscription are ever in flight at once. The retry schedule is an explicit
// list of day offsets from the period end; exhausting it cancels the
// subscription.
type RunBillingSweepUseCase struct {
	subscriptionRepo  subscription.SubscriptionRepository
	planRepo          subscription.PlanRepository
	ledgerRepo        subscription.LedgerRepository
	customerRepo      customer.Repository
	paymentGateway    gateway.PaymentGateway
	notifier          notification.Sender
	usageCache        subusecases.UsageCache // optional
	locks             *keymutex.KeyMutex
	retryScheduleDays []int
	gatewayTimeout    time.Duration
	logger            logger.Interface
}

func NewRunBillingSweepUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	ledgerRepo subscription.LedgerRepository,
	customerRepo customer.Repository,
	paymentGateway gateway.PaymentGateway,
	notifier notification.Sender,
	usageCache subusecases.UsageCache,
	retryScheduleDays []int,
	gatewayTimeout time.Duration,
	logger logger.Interface,
) *RunBillingSweepUseCase {
	return &RunBillingSweepUseCase{
		subscriptionRepo:  subscriptionRepo,
		planRepo:          planRepo,
		ledgerRepo:        ledgerRepo,
		customerRepo:      customerRepo,
		paymentGateway:    paymentGateway,
		notifier:          notifier,
		usageCache:        usageCache,
		locks:             keymutex.New(),
		retryScheduleDays: retryScheduleDays,
		gatewayTimeout:    gatewayTimeout,
		logger:            logger,
	}
}

func (uc *RunBillingSweepUseCase) Execute(ctx context.Context, cmd RunBillingSweepCommand) (*RunBillingSweepResult, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	due, err := uc.subscriptionRepo.FindDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find due subscriptions: %w", err)
	}

	result := &RunBillingSweepResult{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, sub := range due {
		subscriptionID := sub.ID()
		wg.Add(1)
		goroutine.SafeGo(uc.logger, fmt.Sprintf("billing-sweep-%d", subscriptionID), func() {
			defer wg.Done()

			outcome := uc.processOne(ctx, subscriptionID, now)

			mu.Lock()
			result.Processed++
			switch outcome {
			case outcomeRenewed:
				result.Renewed++
			case outcomePastDue:
				result.MarkedPastDue++
			case outcomeCancelled:
				result.Cancelled++
			}
			mu.Unlock()
		})
	}

	wg.Wait()

	uc.logger.Infow("billing sweep completed",
		"due", len(due),
		"renewed", result.Renewed,
		"past_due", result.MarkedPastDue,
		"cancelled", result.Cancelled,
	)

	return result, nil
}

type sweepOutcome int

const (
	outcomeSkipped sweepOutcome = iota
	outcomeRenewed
	outcomePastDue
	outcomeCancelled
)

func (uc *RunBillingSweepUseCase) processOne(ctx context.Context, subscriptionID uint, now time.Time) sweepOutcome {
	key := fmt.Sprintf("billing:%d", subscriptionID)
	uc.locks.Lock(key)
	defer uc.locks.Unlock(key)

	// Re-read under the lock: another sweep or a manual cancel may have
	// moved the subscription since FindDue ran.
	sub, err := uc.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to reload subscription for billing", "error", err, "subscription_id", subscriptionID)
		return outcomeSkipped
	}
	if !sub.IsDue(now) {
		return outcomeSkipped
	}

	plan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		uc.logger.Errorw("failed to load plan for billing", "error", err, "subscription_id", subscriptionID)
		return outcomeSkipped
	}

	amount := plan.ChargeAmountCents(sub.BillingCycle())
	chargeCtx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
	defer cancel()

	chargeResult, err := uc.paymentGateway.Charge(chargeCtx, gateway.ChargeRequest{
		SubscriptionID: sub.ID(),
		CustomerID:     sub.CustomerID(),
		AmountCents:    amount,
		Currency:       "USD",
		PaymentMethod:  sub.PaymentMethod(),
		Description:    fmt.Sprintf("%s renewal (%s)", plan.Name(), sub.BillingCycle()),
	})
	// A gateway error, including a timeout, is a failed attempt for retry
	// purposes, never fatal to the sweep.
	if err != nil || !chargeResult.Succeeded {
		reason := "gateway error"
		if err != nil {
			reason = err.Error()
		} else if chargeResult.FailureReason != "" {
			reason = chargeResult.FailureReason
		}
		return uc.handleFailedCharge(ctx, sub, plan, amount, reason)
	}

	return uc.handleSuccessfulCharge(ctx, sub, plan, amount, chargeResult.TransactionID)
}

func (uc *RunBillingSweepUseCase) handleSuccessfulCharge(
	ctx context.Context,
	sub *subscription.Subscription,
	plan *subscription.Plan,
	amountCents int64,
	transactionID string,
) sweepOutcome {
	if err := sub.RenewPeriod(); err != nil {
		uc.logger.Errorw("failed to advance period after charge", "error", err, "subscription_id", sub.ID())
		return outcomeSkipped
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist renewed subscription", "error", err, "subscription_id", sub.ID())
		return outcomeSkipped
	}

	// Fresh entry for the new period; the previous period's entry stays
	// untouched for history.
	if _, err := uc.ledgerRepo.GetOrCreate(ctx, sub.ID(), sub.CurrentPeriodStart()); err != nil {
		uc.logger.Warnw("failed to open ledger entry for new period", "error", err, "subscription_id", sub.ID())
	}
	uc.invalidateUsage(ctx, sub.ID())

	uc.logger.Infow("subscription renewed",
		"subscription_id", sub.ID(),
		"charged_cents", amountCents,
		"transaction_id", transactionID,
		"new_period_end", sub.CurrentPeriodEnd(),
	)

	uc.notifyCustomer(ctx, sub, notification.EventBillingSucceeded, map[string]any{
		"subscription_id": sub.ID(),
		"plan":            plan.Name(),
		"charged_cents":   amountCents,
		"period_end":      sub.CurrentPeriodEnd(),
	})
	return outcomeRenewed
}

func (uc *RunBillingSweepUseCase) handleFailedCharge(
	ctx context.Context,
	sub *subscription.Subscription,
	plan *subscription.Plan,
	amountCents int64,
	reason string,
) sweepOutcome {
	attempts := sub.FailedAttempts()

	if attempts >= len(uc.retryScheduleDays) {
		// Schedule exhausted: terminal cancellation.
		if err := sub.RecordFailedCharge(nil); err != nil {
			uc.logger.Errorw("failed to record final failed charge", "error", err, "subscription_id", sub.ID())
			return outcomeSkipped
		}
		if err := sub.Cancel(); err != nil {
			uc.logger.Errorw("failed to cancel after retry exhaustion", "error", err, "subscription_id", sub.ID())
			return outcomeSkipped
		}
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to persist cancellation", "error", err, "subscription_id", sub.ID())
			return outcomeSkipped
		}

		uc.logger.Warnw("subscription cancelled after exhausting payment retries",
			"subscription_id", sub.ID(),
			"attempts", sub.FailedAttempts(),
			"reason", reason,
		)
		uc.notifyCustomer(ctx, sub, notification.EventBillingFailed, map[string]any{
			"subscription_id": sub.ID(),
			"plan":            plan.Name(),
			"amount_cents":    amountCents,
			"reason":          reason,
			"final":           true,
		})
		return outcomeCancelled
	}

	retryAt := sub.CurrentPeriodEnd().AddDate(0, 0, uc.retryScheduleDays[attempts])
	if err := sub.RecordFailedCharge(&retryAt); err != nil {
		uc.logger.Errorw("failed to record failed charge", "error", err, "subscription_id", sub.ID())
		return outcomeSkipped
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist past-due state", "error", err, "subscription_id", sub.ID())
		return outcomeSkipped
	}

	uc.logger.Warnw("charge failed, subscription past due",
		"subscription_id", sub.ID(),
		"attempt", sub.FailedAttempts(),
		"next_retry_at", retryAt,
		"reason", reason,
	)
	uc.notifyCustomer(ctx, sub, notification.EventBillingFailed, map[string]any{
		"subscription_id": sub.ID(),
		"plan":            plan.Name(),
		"amount_cents":    amountCents,
		"reason":          reason,
		"next_retry_at":   retryAt,
		"final":           false,
	})
	return outcomePastDue
}

func (uc *RunBillingSweepUseCase) notifyCustomer(ctx context.Context, sub *subscription.Subscription, event notification.EventType, payload map[string]any) {
	cust, err := uc.customerRepo.GetByID(ctx, sub.CustomerID())
	if err != nil {
		uc.logger.Warnw("customer lookup failed for billing notification", "error", err, "customer_id", sub.CustomerID())
		return
	}
	uc.notifier.Send(ctx, event, cust.Email(), payload)
}

func (uc *RunBillingSweepUseCase) invalidateUsage(ctx context.Context, subscriptionID uint) {
	if uc.usageCache == nil {
		return
	}
	if err := uc.usageCache.Invalidate(ctx, subscriptionID); err != nil {
		uc.logger.Warnw("usage cache invalidation failed", "error", err, "subscription_id", subscriptionID)
	}
}
