package usecases

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"sokogate/internal/application/notification"
	subusecases "sokogate/internal/application/subscription/usecases"
	"sokogate/internal/domain/customer"
	"sokogate/internal/domain/preorder"
	vo "sokogate/internal/domain/preorder/valueobjects"
	"sokogate/internal/domain/subscription"
	"sokogate/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ledgerKey(subscriptionID uint, periodStart time.Time) string {
	return fmt.Sprintf("%d|%d", subscriptionID, periodStart.UTC().UnixNano())
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

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries map[string]*subscription.LedgerEntry
	nextID  uint
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{entries: make(map[string]*subscription.LedgerEntry)}
}

func (r *fakeLedgerRepo) GetOrCreate(ctx context.Context, subscriptionID uint, periodStart time.Time) (*subscription.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreateLocked(subscriptionID, periodStart)
}

func (r *fakeLedgerRepo) getOrCreateLocked(subscriptionID uint, periodStart time.Time) (*subscription.LedgerEntry, error) {
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
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, err := r.getOrCreateLocked(subscriptionID, periodStart)
	if err != nil {
		return nil, err
	}
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

type fakeSubscriptionRepo struct {
	subs   map[uint]*subscription.Subscription
	nextID uint
}

func newFakeSubscriptionRepo(subs ...*subscription.Subscription) *fakeSubscriptionRepo {
	repo := &fakeSubscriptionRepo{subs: make(map[uint]*subscription.Subscription)}
	for _, s := range subs {
		repo.subs[s.ID()] = s
		if s.ID() > repo.nextID {
			repo.nextID = s.ID()
		}
	}
	return repo
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	r.nextID++
	if err := sub.SetID(r.nextID); err != nil {
		return err
	}
	r.subs[sub.ID()] = sub
	return nil
}

func (r *fakeSubscriptionRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	sub, ok := r.subs[id]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	if _, ok := r.subs[sub.ID()]; !ok {
		return subscription.ErrSubscriptionNotFound
	}
	r.subs[sub.ID()] = sub
	return nil
}

func (r *fakeSubscriptionRepo) GetNonCancelledByCustomerID(ctx context.Context, customerID uint) (*subscription.Subscription, error) {
	for _, sub := range r.subs {
		if sub.CustomerID() == customerID && !sub.Status().IsTerminal() {
			return sub, nil
		}
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) FindDue(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	var out []*subscription.Subscription
	for _, sub := range r.subs {
		if sub.IsDue(now) {
			out = append(out, sub)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[uint]*preorder.Product
}

func newFakeProductRepo(products ...*preorder.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[uint]*preorder.Product)}
	for _, p := range products {
		repo.products[p.ID()] = p
	}
	return repo
}

func (r *fakeProductRepo) Create(ctx context.Context, product *preorder.Product) error {
	r.products[product.ID()] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uint) (*preorder.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, preorder.ErrProductNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) GetBySKU(ctx context.Context, sku string) (*preorder.Product, error) {
	for _, product := range r.products {
		if product.SKU() == sku {
			return product, nil
		}
	}
	return nil, preorder.ErrProductNotFound
}

func (r *fakeProductRepo) List(ctx context.Context) ([]*preorder.Product, error) {
	out := make([]*preorder.Product, 0, len(r.products))
	for _, product := range r.products {
		out = append(out, product)
	}
	return out, nil
}

type fakePreOrderRepo struct {
	orders    map[uint]*preorder.PreOrder
	nextID    uint
	createErr error
}

func newFakePreOrderRepo() *fakePreOrderRepo {
	return &fakePreOrderRepo{orders: make(map[uint]*preorder.PreOrder)}
}

func (r *fakePreOrderRepo) Create(ctx context.Context, po *preorder.PreOrder) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	if err := po.SetID(r.nextID); err != nil {
		return err
	}
	r.orders[po.ID()] = po
	return nil
}

func (r *fakePreOrderRepo) GetByID(ctx context.Context, id uint) (*preorder.PreOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return nil, preorder.ErrPreOrderNotFound
	}
	return po, nil
}

func (r *fakePreOrderRepo) Update(ctx context.Context, po *preorder.PreOrder) error {
	if _, ok := r.orders[po.ID()]; !ok {
		return preorder.ErrPreOrderNotFound
	}
	r.orders[po.ID()] = po
	return nil
}

func (r *fakePreOrderRepo) List(ctx context.Context, filters preorder.PreOrderFilters) ([]*preorder.PreOrder, error) {
	var out []*preorder.PreOrder
	for _, po := range r.orders {
		if filters.SubscriptionID != 0 && po.SubscriptionID() != filters.SubscriptionID {
			continue
		}
		if filters.Status != "" && po.Status() != filters.Status {
			continue
		}
		out = append(out, po)
	}
	return out, nil
}

func (r *fakePreOrderRepo) CountConfirmedQuantityByProduct(ctx context.Context, productID uint) (int, error) {
	total := 0
	for _, po := range r.orders {
		if po.ProductID() != productID {
			continue
		}
		if po.Status() == vo.StatusConfirmed || po.Status() == vo.StatusFulfilled {
			total += po.Quantity()
		}
	}
	return total, nil
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

type fakeInventory struct {
	remaining int
	err       error
}

func (f *fakeInventory) RemainingPreorderInventory(ctx context.Context, productID uint) (int, error) {
	return f.remaining, f.err
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

type fakeUsageCache struct {
	mu          sync.Mutex
	invalidated []uint
	snapshots   map[uint]*subusecases.UsageSnapshot
}

func newFakeUsageCache() *fakeUsageCache {
	return &fakeUsageCache{snapshots: make(map[uint]*subusecases.UsageSnapshot)}
}

func (f *fakeUsageCache) Get(ctx context.Context, subscriptionID uint) (*subusecases.UsageSnapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot, ok := f.snapshots[subscriptionID]
	return snapshot, ok, nil
}

func (f *fakeUsageCache) Set(ctx context.Context, subscriptionID uint, snapshot *subusecases.UsageSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[subscriptionID] = snapshot
	return nil
}

func (f *fakeUsageCache) Invalidate(ctx context.Context, subscriptionID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, subscriptionID)
	delete(f.snapshots, subscriptionID)
	return nil
}
