package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sokogate/internal/domain/subscription"
	subvo "sokogate/internal/domain/subscription/valueobjects"
)

// ============================================================================
// GetUsage
// ============================================================================

func TestGetUsage_BuildsSnapshotWithPercentages(t *testing.T) {
	plan := testPlan(t, 1)
	sub := activeSubscription(t, 1, 7, plan.ID())

	ledgerRepo := newFakeLedgerRepo()
	_, err := ledgerRepo.Reserve(context.Background(), sub.ID(), sub.CurrentPeriodStart(), plan, 4, 250000)
	require.NoError(t, err)

	uc := NewGetUsageUseCase(newFakeSubscriptionRepo(sub), newFakePlanRepo(plan), ledgerRepo, nil, testLogger())

	snapshot, err := uc.Execute(context.Background(), GetUsageCommand{SubscriptionID: 1})
	require.NoError(t, err)

	assert.Equal(t, "basic", snapshot.PlanCode)
	assert.Equal(t, 4, snapshot.PreorderCount)
	assert.Equal(t, 10, snapshot.CountLimit)
	assert.Equal(t, int64(250000), snapshot.PreorderValueCents)
	assert.Equal(t, int64(500000), snapshot.ValueLimitCents)
	require.NotNil(t, snapshot.CountPercent)
	assert.InDelta(t, 40.0, *snapshot.CountPercent, 0.001)
	require.NotNil(t, snapshot.ValuePercent)
	assert.InDelta(t, 50.0, *snapshot.ValuePercent, 0.001)
}

func TestGetUsage_UnlimitedPlanOmitsPercentages(t *testing.T) {
	plan, err := subscription.NewPlan(
		"enterprise", "Enterprise", subvo.TierEnterprise, 19999,
		[]subvo.BillingCycle{subvo.BillingCycleMonthly},
		subscription.UnlimitedLimit, subscription.UnlimitedLimit, 14, 10, subscription.UnlimitedLimit,
	)
	require.NoError(t, err)
	require.NoError(t, plan.SetID(2))
	sub := activeSubscription(t, 1, 7, plan.ID())

	uc := NewGetUsageUseCase(newFakeSubscriptionRepo(sub), newFakePlanRepo(plan), newFakeLedgerRepo(), nil, testLogger())

	snapshot, err := uc.Execute(context.Background(), GetUsageCommand{SubscriptionID: 1})
	require.NoError(t, err)

	assert.Nil(t, snapshot.CountPercent, "percentage is undefined for unlimited limits")
	assert.Nil(t, snapshot.ValuePercent)
}

func TestGetUsage_CacheHitSkipsRepositories(t *testing.T) {
	plan := testPlan(t, 1)
	cache := newFakeUsageCache()

	cached := &UsageSnapshot{SubscriptionID: 1, PlanCode: "basic", PreorderCount: 9}
	require.NoError(t, cache.Set(context.Background(), 1, cached))

	// Empty repositories: a repository read would fail loudly.
	uc := NewGetUsageUseCase(newFakeSubscriptionRepo(), newFakePlanRepo(plan), newFakeLedgerRepo(), cache, testLogger())

	snapshot, err := uc.Execute(context.Background(), GetUsageCommand{SubscriptionID: 1})
	require.NoError(t, err)
	assert.Equal(t, 9, snapshot.PreorderCount)
}

func TestGetUsage_CacheMissFillsCache(t *testing.T) {
	plan := testPlan(t, 1)
	sub := activeSubscription(t, 1, 7, plan.ID())
	cache := newFakeUsageCache()

	uc := NewGetUsageUseCase(newFakeSubscriptionRepo(sub), newFakePlanRepo(plan), newFakeLedgerRepo(), cache, testLogger())

	_, err := uc.Execute(context.Background(), GetUsageCommand{SubscriptionID: 1})
	require.NoError(t, err)

	_, hit, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, hit, "miss populates the cache")
}
