package gateway

import (
	"context"
	"time"
)

// PaymentGateway is the external charging collaborator. Calls are bounded by
// the context deadline; a timeout counts as a failed attempt for retry
// purposes, never as a fatal error.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

type ChargeRequest struct {
	SubscriptionID uint
	CustomerID     uint
	AmountCents    int64
	Currency       string
	PaymentMethod  string
	Description    string
}

type ChargeResult struct {
	TransactionID string
	Succeeded     bool
	FailureReason string
	ChargedAt     time.Time
}
