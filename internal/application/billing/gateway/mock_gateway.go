package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockGateway is an in-process gateway for development and tests. Outcomes
// can be scripted per subscription; unscripted charges follow the default.
type MockGateway struct {
	mu             sync.Mutex
	defaultSucceed bool
	outcomes       map[uint][]bool
	charges        []ChargeRequest
}

func NewMockGateway(defaultSucceed bool) *MockGateway {
	return &MockGateway{
		defaultSucceed: defaultSucceed,
		outcomes:       make(map[uint][]bool),
	}
}

// ScriptOutcomes queues per-subscription charge outcomes, consumed in order.
func (m *MockGateway) ScriptOutcomes(subscriptionID uint, outcomes ...bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[subscriptionID] = append(m.outcomes[subscriptionID], outcomes...)
}

func (m *MockGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	succeed := m.defaultSucceed
	if queue, ok := m.outcomes[req.SubscriptionID]; ok && len(queue) > 0 {
		succeed = queue[0]
		m.outcomes[req.SubscriptionID] = queue[1:]
	}
	m.charges = append(m.charges, req)
	m.mu.Unlock()

	result := &ChargeResult{
		TransactionID: fmt.Sprintf("MOCK_%d_%d", req.SubscriptionID, time.Now().UnixNano()),
		Succeeded:     succeed,
		ChargedAt:     time.Now().UTC(),
	}
	if !succeed {
		result.FailureReason = "card declined"
	}
	return result, nil
}

// Charges returns a copy of every charge request seen so far.
func (m *MockGateway) Charges() []ChargeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChargeRequest, len(m.charges))
	copy(out, m.charges)
	return out
}
