// Package notification defines the outbound event port. Delivery is
// fire-and-forget: failures are logged by implementations and never block
// billing or admission.
package notification

import "context"

type EventType string

const (
	EventSubscriptionCreated   EventType = "subscription.created"
	EventSubscriptionPaused    EventType = "subscription.paused"
	EventSubscriptionResumed   EventType = "subscription.resumed"
	EventSubscriptionCancelled EventType = "subscription.cancelled"
	EventBillingSucceeded      EventType = "billing.succeeded"
	EventBillingFailed         EventType = "billing.failed"
	EventPreOrderConfirmed     EventType = "preorder.confirmed"
	EventPreOrderCancelled     EventType = "preorder.cancelled"
)

type Sender interface {
	Send(ctx context.Context, eventType EventType, recipient string, payload map[string]any)
}
