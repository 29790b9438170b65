package events

import "time"

// Event is anything published on the domain bus.
type Event interface {
	// EventType is the subject suffix, e.g. "SUBSCRIPTION_ACTIVATED".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// Subscription lifecycle event types.
const (
	SubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	SubscriptionRenewed   = "SUBSCRIPTION_RENEWED"
	SubscriptionUpgraded  = "SUBSCRIPTION_UPGRADED"
	SubscriptionCancelled = "SUBSCRIPTION_CANCELLED"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
