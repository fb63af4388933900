package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sokogate/internal/application/billing/gateway"
	"sokogate/internal/application/notification"
	"sokogate/internal/domain/subscription"
	subvo "sokogate/internal/domain/subscription/valueobjects"
)

type createFixture struct {
	uc         *CreateSubscriptionUseCase
	subRepo    *fakeSubscriptionRepo
	ledgerRepo *fakeLedgerRepo
	gw         *gateway.MockGateway
	sender     *fakeSender
}

func newCreateFixture(t *testing.T, gatewaySucceeds bool) *createFixture {
	t.Helper()
	plan := testPlan(t, 1)
	cust := testCustomer(t, 7, "buyer@acme.test")

	subRepo := newFakeSubscriptionRepo()
	ledgerRepo := newFakeLedgerRepo()
	gw := gateway.NewMockGateway(gatewaySucceeds)
	sender := &fakeSender{}

	uc := NewCreateSubscriptionUseCase(
		subRepo,
		newFakePlanRepo(plan),
		ledgerRepo,
		newFakeCustomerRepo(cust),
		gw,
		sender,
		5*time.Second,
		testLogger(),
	)

	return &createFixture{uc: uc, subRepo: subRepo, ledgerRepo: ledgerRepo, gw: gw, sender: sender}
}

// ============================================================================
// CreateSubscription
// ============================================================================

func TestCreateSubscription_ActivatesAndChargesUpfront(t *testing.T) {
	f := newCreateFixture(t, true)

	result, err := f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    7,
		PlanCode:      "basic",
		BillingCycle:  "annually",
		PaymentMethod: "card_test",
	})
	require.NoError(t, err)

	sub := result.Subscription
	assert.Equal(t, subvo.StatusActive, sub.Status())
	assert.NotZero(t, sub.ID())
	assert.Equal(t, int64(35988), result.ChargedCents, "annual charge is twelve monthly prices")
	assert.Equal(t, sub.CurrentPeriodStart().AddDate(0, 0, 365), sub.CurrentPeriodEnd())

	charges := f.gw.Charges()
	require.Len(t, charges, 1)
	assert.Equal(t, int64(35988), charges[0].AmountCents)

	// The first period's ledger entry is opened eagerly.
	entry, err := f.ledgerRepo.Get(context.Background(), sub.ID(), sub.CurrentPeriodStart())
	require.NoError(t, err)
	assert.Equal(t, 0, entry.PreorderCount())

	require.Len(t, f.sender.events, 1)
	assert.Equal(t, notification.EventSubscriptionCreated, f.sender.events[0].eventType)
	assert.Equal(t, "buyer@acme.test", f.sender.events[0].recipient)
}

func TestCreateSubscription_ByPlanID(t *testing.T) {
	f := newCreateFixture(t, true)

	result, err := f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    7,
		PlanID:        1,
		BillingCycle:  "monthly",
		PaymentMethod: "card_test",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2999), result.ChargedCents)
}

func TestCreateSubscription_DeclinedCardLeavesNoRow(t *testing.T) {
	f := newCreateFixture(t, false)

	_, err := f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    7,
		PlanCode:      "basic",
		BillingCycle:  "monthly",
		PaymentMethod: "card_declined",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, subscription.ErrPaymentFailed)

	assert.Empty(t, f.subRepo.subs, "declined charge persists nothing")
	assert.Empty(t, f.sender.events)
}

func TestCreateSubscription_DuplicateRejected(t *testing.T) {
	f := newCreateFixture(t, true)

	_, err := f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    7,
		PlanCode:      "basic",
		BillingCycle:  "monthly",
		PaymentMethod: "card_test",
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    7,
		PlanCode:      "basic",
		BillingCycle:  "monthly",
		PaymentMethod: "card_test",
	})
	assert.ErrorIs(t, err, subscription.ErrDuplicateSubscription)
	assert.Len(t, f.gw.Charges(), 1, "duplicate is rejected before charging")
}

func TestCreateSubscription_DuplicateAllowedAfterCancellation(t *testing.T) {
	f := newCreateFixture(t, true)

	first, err := f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    7,
		PlanCode:      "basic",
		BillingCycle:  "monthly",
		PaymentMethod: "card_test",
	})
	require.NoError(t, err)
	require.NoError(t, first.Subscription.Cancel())

	_, err = f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    7,
		PlanCode:      "basic",
		BillingCycle:  "monthly",
		PaymentMethod: "card_test",
	})
	assert.NoError(t, err, "a cancelled subscription does not block a new one")
}

func TestCreateSubscription_UnsupportedBillingCycle(t *testing.T) {
	f := newCreateFixture(t, true)

	// The test plan offers monthly and annually only.
	_, err := f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    7,
		PlanCode:      "basic",
		BillingCycle:  "quarterly",
		PaymentMethod: "card_test",
	})
	assert.Error(t, err)
	assert.Empty(t, f.gw.Charges())
}

func TestCreateSubscription_InvalidBillingCycle(t *testing.T) {
	f := newCreateFixture(t, true)

	_, err := f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    7,
		PlanCode:      "basic",
		BillingCycle:  "weekly",
		PaymentMethod: "card_test",
	})
	assert.ErrorIs(t, err, subvo.ErrInvalidBillingCycle)
}

func TestCreateSubscription_UnknownCustomer(t *testing.T) {
	f := newCreateFixture(t, true)

	_, err := f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    99,
		PlanCode:      "basic",
		BillingCycle:  "monthly",
		PaymentMethod: "card_test",
	})
	assert.Error(t, err)
}

func TestCreateSubscription_UnknownPlan(t *testing.T) {
	f := newCreateFixture(t, true)

	_, err := f.uc.Execute(context.Background(), CreateSubscriptionCommand{
		CustomerID:    7,
		PlanCode:      "platinum",
		BillingCycle:  "monthly",
		PaymentMethod: "card_test",
	})
	assert.ErrorIs(t, err, subscription.ErrPlanNotFound)
}
