package usecases

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sokogate/internal/application/notification"
	"sokogate/internal/domain/customer"
	"sokogate/internal/domain/subscription"
	subvo "sokogate/internal/domain/subscription/valueobjects"
	"sokogate/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testPlan(t *testing.T, id uint) *subscription.Plan {
	t.Helper()
	plan, err := subscription.NewPlan(
		"basic", "Basic", subvo.TierBasic, 2999,
		[]subvo.BillingCycle{subvo.BillingCycleMonthly},
		10, 500000, 3, 2.5, 25,
	)
	require.NoError(t, err)
	require.NoError(t, plan.SetID(id))
	return plan
}

func testCustomer(id uint, email string) *customer.Customer {
	now := time.Now()
	return customer.ReconstructCustomer(id, "Acme Retail", email, now, now)
}

// dueSubscription returns an active subscription whose period ended one day
// before now.
func dueSubscription(t *testing.T, id, customerID, planID uint, now time.Time) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewSubscription(customerID, planID, subvo.BillingCycleMonthly, "card_test")
	require.NoError(t, err)
	require.NoError(t, sub.Activate(now.AddDate(0, 0, -31)))
	require.NoError(t, sub.SetID(id))
	return sub
}

// pastDueSubscription returns a subscription that already burned the given
// number of failed attempts and whose retry came due before now.
func pastDueSubscription(id, customerID, planID uint, now time.Time, attempts int) *subscription.Subscription {
	periodStart := now.AddDate(0, 0, -40)
	periodEnd := periodStart.AddDate(0, 0, 30)
	retryAt := now.AddDate(0, 0, -1)
	return subscription.ReconstructSubscription(
		id, customerID, planID,
		subvo.StatusPastDue, subvo.BillingCycleMonthly, "card_test",
		true, periodStart, periodEnd, nil,
		attempts, &retryAt,
		periodStart, retryAt, attempts+1,
	)
}

// ----------------------------------------------------------------------------
// in-memory fakes
// ----------------------------------------------------------------------------

type fakePlanRepo struct {
	plans map[uint]*subscription.Plan
}

func newFakePlanRepo(plans ...*subscription.Plan) *fakePlanRepo {
	repo := &fakePlanRepo{plans: make(map[uint]*subscription.Plan)}
	for _, p := range plans {
		repo.plans[p.ID()] = p
	}
	return repo
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *subscription.Plan) error {
	r.plans[plan.ID()] = plan
	return nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, subscription.ErrPlanNotFound
	}
	return plan, nil
}

func (r *fakePlanRepo) GetByCode(ctx context.Context, code string) (*subscription.Plan, error) {
	for _, plan := range r.plans {
		if plan.Code() == code {
			return plan, nil
		}
	}
	return nil, subscription.ErrPlanNotFound
}

func (r *fakePlanRepo) List(ctx context.Context) ([]*subscription.Plan, error) {
	out := make([]*subscription.Plan, 0, len(r.plans))
	for _, plan := range r.plans {
		out = append(out, plan)
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[uint]*subscription.Subscription
}

func newFakeSubscriptionRepo(subs ...*subscription.Subscription) *fakeSubscriptionRepo {
	repo := &fakeSubscriptionRepo{subs: make(map[uint]*subscription.Subscription)}
	for _, s := range subs {
		repo.subs[s.ID()] = s
	}
	return repo
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ID()] = sub
	return nil
}

func (r *fakeSubscriptionRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.ID()]; !ok {
		return subscription.ErrSubscriptionNotFound
	}
	r.subs[sub.ID()] = sub
	return nil
}

func (r *fakeSubscriptionRepo) GetNonCancelledByCustomerID(ctx context.Context, customerID uint) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.CustomerID() == customerID && !sub.Status().IsTerminal() {
			return sub, nil
		}
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) FindDue(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscription.Subscription
	for _, sub := range r.subs {
		if sub.IsDue(now) {
			out = append(out, sub)
		}
	}
	return out, nil
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries map[string]*subscription.LedgerEntry
	nextID  uint
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{entries: make(map[string]*subscription.LedgerEntry)}
}

func ledgerKey(subscriptionID uint, periodStart time.Time) string {
	return fmt.Sprintf("%d|%d", subscriptionID, periodStart.UTC().UnixNano())
}

func (r *fakeLedgerRepo) GetOrCreate(ctx context.Context, subscriptionID uint, periodStart time.Time) (*subscription.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ledgerKey(subscriptionID, periodStart)
	if entry, ok := r.entries[key]; ok {
		return entry, nil
	}
	entry, err := subscription.NewLedgerEntry(subscriptionID, periodStart)
	if err != nil {
		return nil, err
	}
	r.nextID++
	if err := entry.SetID(r.nextID); err != nil {
		return nil, err
	}
	r.entries[key] = entry
	return entry, nil
}

func (r *fakeLedgerRepo) Get(ctx context.Context, subscriptionID uint, periodStart time.Time) (*subscription.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[ledgerKey(subscriptionID, periodStart)]
	if !ok {
		return nil, subscription.ErrLedgerEntryNotFound
	}
	return entry, nil
}

func (r *fakeLedgerRepo) Reserve(ctx context.Context, subscriptionID uint, periodStart time.Time, plan *subscription.Plan, count int, valueCents int64) (*subscription.LedgerEntry, error) {
	entry, err := r.GetOrCreate(ctx, subscriptionID, periodStart)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := entry.Reserve(plan, count, valueCents); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *fakeLedgerRepo) Release(ctx context.Context, subscriptionID uint, periodStart time.Time, count int, valueCents int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[ledgerKey(subscriptionID, periodStart)]
	if !ok {
		return subscription.ErrLedgerEntryNotFound
	}
	return entry.Release(count, valueCents)
}

func (r *fakeLedgerRepo) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*subscription.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscription.LedgerEntry
	for _, entry := range r.entries {
		if entry.SubscriptionID() == subscriptionID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeCustomerRepo struct {
	customers map[uint]*customer.Customer
}

func newFakeCustomerRepo(customers ...*customer.Customer) *fakeCustomerRepo {
	repo := &fakeCustomerRepo{customers: make(map[uint]*customer.Customer)}
	for _, c := range customers {
		repo.customers[c.ID()] = c
	}
	return repo
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	r.customers[c.ID()] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uint) (*customer.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	for _, c := range r.customers {
		if c.Email() == email {
			return c, nil
		}
	}
	return nil, customer.ErrCustomerNotFound
}

type recordedEvent struct {
	eventType notification.EventType
	recipient string
}

type fakeSender struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeSender) Send(ctx context.Context, eventType notification.EventType, recipient string, payload map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{eventType: eventType, recipient: recipient})
}

func (f *fakeSender) eventTypes() []notification.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notification.EventType, len(f.events))
	for i, e := range f.events {
		out[i] = e.eventType
	}
	return out
}
