package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sokogate/internal/domain/preorder"
	"sokogate/internal/domain/subscription"
	subvo "sokogate/internal/domain/subscription/valueobjects"
)

func testPlan(t *testing.T, id uint, maxPreorders int, maxValueCents int64, earlyAccessDays int, discountPercent float64) *subscription.Plan {
	t.Helper()
	plan, err := subscription.NewPlan(
		"basic", "Basic", subvo.TierBasic, 2999,
		[]subvo.BillingCycle{subvo.BillingCycleMonthly},
		maxPreorders, maxValueCents, earlyAccessDays, discountPercent, 25,
	)
	require.NoError(t, err)
	require.NoError(t, plan.SetID(id))
	return plan
}

func testActiveSubscription(t *testing.T, id, customerID, planID uint) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewSubscription(customerID, planID, subvo.BillingCycleMonthly, "card_test")
	require.NoError(t, err)
	require.NoError(t, sub.Activate(time.Now().UTC().AddDate(0, 0, -1)))
	require.NoError(t, sub.SetID(id))
	return sub
}

func testProduct(t *testing.T, id uint, eligible bool, windowStart, windowEnd time.Time, basePriceCents int64) *preorder.Product {
	t.Helper()
	product, err := preorder.NewProduct("SKU-100", "Widget", eligible, windowStart, windowEnd, basePriceCents, 100)
	require.NoError(t, err)
	require.NoError(t, product.SetID(id))
	return product
}

func newTestEngine(planRepo *fakePlanRepo, ledgerRepo *fakeLedgerRepo, inventory InventoryService) *EligibilityEngine {
	return NewEligibilityEngine(planRepo, ledgerRepo, inventory, testLogger())
}

// ============================================================================
// Evaluate rejections
// ============================================================================

func TestEligibilityEngine_Evaluate_InactiveSubscription(t *testing.T) {
	now := time.Now().UTC()
	plan := testPlan(t, 1, 10, 500000, 0, 0)
	sub := testActiveSubscription(t, 1, 1, plan.ID())
	require.NoError(t, sub.Pause(now))
	product := testProduct(t, 1, true, now.AddDate(0, 0, -1), now.AddDate(0, 0, 20), 10000)

	engine := newTestEngine(newFakePlanRepo(plan), newFakeLedgerRepo(), &fakeInventory{remaining: 100})

	_, err := engine.Evaluate(context.Background(), sub, product, 1)
	assert.ErrorIs(t, err, subscription.ErrSubscriptionNotActive)
}

func TestEligibilityEngine_Evaluate_IneligibleProduct(t *testing.T) {
	now := time.Now().UTC()
	plan := testPlan(t, 1, 10, 500000, 0, 0)
	sub := testActiveSubscription(t, 1, 1, plan.ID())
	product := testProduct(t, 1, false, now.AddDate(0, 0, -1), now.AddDate(0, 0, 20), 10000)

	engine := newTestEngine(newFakePlanRepo(plan), newFakeLedgerRepo(), &fakeInventory{remaining: 100})

	_, err := engine.Evaluate(context.Background(), sub, product, 1)
	assert.ErrorIs(t, err, preorder.ErrProductNotEligible)
}

func TestEligibilityEngine_Evaluate_WindowNotOpen(t *testing.T) {
	now := time.Now().UTC()
	plan := testPlan(t, 1, 10, 500000, 0, 0)
	sub := testActiveSubscription(t, 1, 1, plan.ID())
	product := testProduct(t, 1, true, now.AddDate(0, 0, 5), now.AddDate(0, 0, 30), 10000)

	engine := newTestEngine(newFakePlanRepo(plan), newFakeLedgerRepo(), &fakeInventory{remaining: 100})

	_, err := engine.Evaluate(context.Background(), sub, product, 1)
	assert.ErrorIs(t, err, preorder.ErrOutsideAvailabilityWindow)
}

func TestEligibilityEngine_Evaluate_EarlyAccessOpensWindow(t *testing.T) {
	now := time.Now().UTC()
	// Window opens in 5 days; 7 days of early access make it available now.
	plan := testPlan(t, 1, 10, 500000, 7, 5)
	sub := testActiveSubscription(t, 1, 1, plan.ID())
	product := testProduct(t, 1, true, now.AddDate(0, 0, 5), now.AddDate(0, 0, 30), 10000)

	engine := newTestEngine(newFakePlanRepo(plan), newFakeLedgerRepo(), &fakeInventory{remaining: 100})

	priced, err := engine.Evaluate(context.Background(), sub, product, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9500), priced.FinalPriceCents)
}

func TestEligibilityEngine_Evaluate_WindowClosed(t *testing.T) {
	now := time.Now().UTC()
	plan := testPlan(t, 1, 10, 500000, 14, 0)
	sub := testActiveSubscription(t, 1, 1, plan.ID())
	product := testProduct(t, 1, true, now.AddDate(0, 0, -30), now.AddDate(0, 0, -1), 10000)

	engine := newTestEngine(newFakePlanRepo(plan), newFakeLedgerRepo(), &fakeInventory{remaining: 100})

	_, err := engine.Evaluate(context.Background(), sub, product, 1)
	assert.ErrorIs(t, err, preorder.ErrOutsideAvailabilityWindow)
}

func TestEligibilityEngine_Evaluate_InsufficientInventory(t *testing.T) {
	now := time.Now().UTC()
	plan := testPlan(t, 1, 10, 500000, 0, 0)
	sub := testActiveSubscription(t, 1, 1, plan.ID())
	product := testProduct(t, 1, true, now.AddDate(0, 0, -1), now.AddDate(0, 0, 20), 10000)

	engine := newTestEngine(newFakePlanRepo(plan), newFakeLedgerRepo(), &fakeInventory{remaining: 2})

	_, err := engine.Evaluate(context.Background(), sub, product, 3)
	assert.ErrorIs(t, err, preorder.ErrInsufficientInventory)
}

func TestEligibilityEngine_Evaluate_QuotaExceeded(t *testing.T) {
	now := time.Now().UTC()
	plan := testPlan(t, 1, 1, 500000, 0, 0)
	sub := testActiveSubscription(t, 1, 1, plan.ID())
	product := testProduct(t, 1, true, now.AddDate(0, 0, -1), now.AddDate(0, 0, 20), 10000)

	ledgerRepo := newFakeLedgerRepo()
	engine := newTestEngine(newFakePlanRepo(plan), ledgerRepo, &fakeInventory{remaining: 100})

	// First order consumes the only count slot.
	_, err := engine.Evaluate(context.Background(), sub, product, 1)
	require.NoError(t, err)

	_, err = engine.Evaluate(context.Background(), sub, product, 1)
	require.Error(t, err)

	qe, ok := subscription.AsQuotaExceeded(err)
	require.True(t, ok)
	assert.Equal(t, subscription.DimensionCount, qe.Dimension)
	assert.Equal(t, int64(0), qe.Remaining)

	// The rejected attempt must not have moved the counters.
	entry, err := ledgerRepo.Get(context.Background(), sub.ID(), sub.CurrentPeriodStart())
	require.NoError(t, err)
	assert.Equal(t, 1, entry.PreorderCount())
}

// ============================================================================
// Evaluate admission and pricing
// ============================================================================

func TestEligibilityEngine_Evaluate_AdmitsAndReserves(t *testing.T) {
	now := time.Now().UTC()
	plan := testPlan(t, 1, 10, 500000, 3, 2.5)
	sub := testActiveSubscription(t, 1, 1, plan.ID())
	product := testProduct(t, 1, true, now.AddDate(0, 0, -1), now.AddDate(0, 0, 20), 10000)

	ledgerRepo := newFakeLedgerRepo()
	engine := newTestEngine(newFakePlanRepo(plan), ledgerRepo, &fakeInventory{remaining: 100})

	priced, err := engine.Evaluate(context.Background(), sub, product, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, priced.Quantity)
	assert.Equal(t, int64(10000), priced.UnitPriceCents)
	assert.Equal(t, int64(20000), priced.LineValueCents)
	assert.Equal(t, 2.5, priced.DiscountPercent)
	assert.Equal(t, int64(19500), priced.FinalPriceCents, "discounted value is the admitted price")
	assert.Equal(t, sub.CurrentPeriodStart(), priced.PeriodStart)

	// One order and the discounted value reserved against the period ledger.
	entry, err := ledgerRepo.Get(context.Background(), sub.ID(), sub.CurrentPeriodStart())
	require.NoError(t, err)
	assert.Equal(t, 1, entry.PreorderCount())
	assert.Equal(t, int64(19500), entry.PreorderValueCents())
}

func TestEligibilityEngine_Evaluate_NonPositiveQuantity(t *testing.T) {
	now := time.Now().UTC()
	plan := testPlan(t, 1, 10, 500000, 0, 0)
	sub := testActiveSubscription(t, 1, 1, plan.ID())
	product := testProduct(t, 1, true, now.AddDate(0, 0, -1), now.AddDate(0, 0, 20), 10000)

	engine := newTestEngine(newFakePlanRepo(plan), newFakeLedgerRepo(), &fakeInventory{remaining: 100})

	_, err := engine.Evaluate(context.Background(), sub, product, 0)
	assert.Error(t, err)
}
