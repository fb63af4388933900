package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sokogate/internal/application/billing/gateway"
	"sokogate/internal/application/notification"
	"sokogate/internal/domain/customer"
	"sokogate/internal/domain/subscription"
	vo "sokogate/internal/domain/subscription/valueobjects"
	"sokogate/internal/shared/biztime"
	"sokogate/internal/shared/logger"
)

type CreateSubscriptionCommand struct {
	CustomerID    uint
	PlanID        uint   // Internal plan ID (used if PlanCode is empty)
	PlanCode      string // Plan code such as "basic" (takes precedence over PlanID)
	BillingCycle  string
	PaymentMethod string
}

type CreateSubscriptionResult struct {
	Subscription *subscription.Subscription
	Plan         *subscription.Plan
	ChargedCents int64
}

type CreateSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	ledgerRepo       subscription.LedgerRepository
	customerRepo     customer.Repository
	paymentGateway   gateway.PaymentGateway
	notifier         notification.Sender
	gatewayTimeout   time.Duration
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	ledgerRepo subscription.LedgerRepository,
	customerRepo customer.Repository,
	paymentGateway gateway.PaymentGateway,
	notifier notification.Sender,
	gatewayTimeout time.Duration,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		ledgerRepo:       ledgerRepo,
		customerRepo:     customerRepo,
		paymentGateway:   paymentGateway,
		notifier:         notifier,
		gatewayTimeout:   gatewayTimeout,
		logger:           logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*CreateSubscriptionResult, error) {
	cust, err := uc.customerRepo.GetByID(ctx, cmd.CustomerID)
	if err != nil {
		uc.logger.Warnw("customer lookup failed", "error", err, "customer_id", cmd.CustomerID)
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	var plan *subscription.Plan
	if cmd.PlanCode != "" {
		plan, err = uc.planRepo.GetByCode(ctx, cmd.PlanCode)
	} else {
		plan, err = uc.planRepo.GetByID(ctx, cmd.PlanID)
	}
	if err != nil {
		uc.logger.Warnw("plan lookup failed", "error", err, "plan_id", cmd.PlanID, "plan_code", cmd.PlanCode)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	// At most one live subscription per customer.
	existing, err := uc.subscriptionRepo.GetNonCancelledByCustomerID(ctx, cmd.CustomerID)
	if err != nil && !errors.Is(err, subscription.ErrSubscriptionNotFound) {
		uc.logger.Errorw("failed to check existing subscription", "error", err, "customer_id", cmd.CustomerID)
		return nil, fmt.Errorf("failed to check existing subscription: %w", err)
	}
	if existing != nil {
		uc.logger.Warnw("duplicate subscription rejected",
			"customer_id", cmd.CustomerID,
			"existing_subscription_id", existing.ID(),
			"existing_status", existing.Status(),
		)
		return nil, subscription.ErrDuplicateSubscription
	}

	billingCycle, err := vo.ParseBillingCycle(cmd.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("invalid billing cycle: %w", err)
	}
	if !plan.SupportsBillingCycle(billingCycle) {
		return nil, fmt.Errorf("plan %s does not offer billing cycle %s", plan.Code(), billingCycle)
	}

	sub, err := subscription.NewSubscription(cmd.CustomerID, plan.ID(), billingCycle, cmd.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	// Initial charge happens before any row is written so a declined card
	// leaves no partial subscription behind.
	amount := plan.ChargeAmountCents(billingCycle)
	chargeCtx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
	defer cancel()

	result, err := uc.paymentGateway.Charge(chargeCtx, gateway.ChargeRequest{
		CustomerID:    cmd.CustomerID,
		AmountCents:   amount,
		Currency:      "USD",
		PaymentMethod: cmd.PaymentMethod,
		Description:   fmt.Sprintf("%s subscription (%s)", plan.Name(), billingCycle),
	})
	if err != nil {
		uc.logger.Warnw("initial charge errored", "error", err, "customer_id", cmd.CustomerID, "amount_cents", amount)
		return nil, fmt.Errorf("%w: %v", subscription.ErrPaymentFailed, err)
	}
	if !result.Succeeded {
		uc.logger.Warnw("initial charge declined",
			"customer_id", cmd.CustomerID,
			"amount_cents", amount,
			"reason", result.FailureReason,
		)
		return nil, fmt.Errorf("%w: %s", subscription.ErrPaymentFailed, result.FailureReason)
	}

	now := biztime.NowUTC()
	if err := sub.Activate(now); err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist subscription after successful charge",
			"error", err,
			"customer_id", cmd.CustomerID,
			"transaction_id", result.TransactionID,
		)
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	// Open the first period's ledger entry eagerly. Admission would create
	// it lazily anyway, so a failure here is logged, not fatal.
	if _, err := uc.ledgerRepo.GetOrCreate(ctx, sub.ID(), sub.CurrentPeriodStart()); err != nil {
		uc.logger.Warnw("failed to create initial ledger entry",
			"error", err,
			"subscription_id", sub.ID(),
		)
	}

	uc.logger.Infow("subscription created",
		"subscription_id", sub.ID(),
		"customer_id", cmd.CustomerID,
		"plan", plan.Code(),
		"billing_cycle", billingCycle,
		"charged_cents", amount,
	)

	uc.notifier.Send(ctx, notification.EventSubscriptionCreated, cust.Email(), map[string]any{
		"subscription_id": sub.ID(),
		"plan":            plan.Name(),
		"billing_cycle":   billingCycle.String(),
		"period_end":      sub.CurrentPeriodEnd(),
	})

	return &CreateSubscriptionResult{
		Subscription: sub,
		Plan:         plan,
		ChargedCents: amount,
	}, nil
}
