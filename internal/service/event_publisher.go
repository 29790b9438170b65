package service

import (
	"context"
	"time"

	"meal-subscription-be/internal/entity"
	"meal-subscription-be/internal/pkg/logger"
	"meal-subscription-be/pkg/events"
)

// EventBus is satisfied by *nats.Publisher.
type EventBus interface {
	Publish(ctx context.Context, event events.Event) error
}

// ILifecyclePublisher announces subscription state changes after commit.
// Publishing is best effort; failures are logged, never returned.
type ILifecyclePublisher interface {
	Activated(ctx context.Context, sub *entity.Subscription, plan *entity.Plan)
	Renewed(ctx context.Context, sub *entity.Subscription, plan *entity.Plan)
	Upgraded(ctx context.Context, previous, current *entity.Subscription, plan *entity.Plan, charged float64)
	Cancelled(ctx context.Context, sub *entity.Subscription, byAdmin bool)
}

type lifecyclePublisher struct {
	bus    EventBus
	logger logger.ILogger
}

// NewLifecyclePublisher tolerates a nil bus (NATS unavailable at boot).
func NewLifecyclePublisher(bus EventBus, log logger.ILogger) ILifecyclePublisher {
	return &lifecyclePublisher{bus: bus, logger: log}
}

func (p *lifecyclePublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.bus == nil {
		return
	}

	now := time.Now()
	data["entity_type"] = "subscription"
	data["occurred_at"] = now

	evt := events.BaseEvent{Type: eventType, Data: data, OccurredAt: now}
	if err := p.bus.Publish(ctx, evt); err != nil {
		p.logger.Error("SUBSCRIPTION", "Failed to publish "+eventType+" event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func subscriptionData(sub *entity.Subscription) map[string]interface{} {
	return map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"entity_id":       sub.Id.String(),
		"user_id":         sub.UserId.String(),
		"plan_id":         sub.PlanId.String(),
		"status":          string(sub.Status),
		"meal_type":       string(sub.MealType),
		"amount_paid":     sub.AmountPaid,
		"end_date":        sub.EndDate,
	}
}

func (p *lifecyclePublisher) Activated(ctx context.Context, sub *entity.Subscription, plan *entity.Plan) {
	data := subscriptionData(sub)
	data["plan_name"] = plan.Name
	p.publish(ctx, events.SubscriptionActivated, data)
}

func (p *lifecyclePublisher) Renewed(ctx context.Context, sub *entity.Subscription, plan *entity.Plan) {
	data := subscriptionData(sub)
	data["plan_name"] = plan.Name
	p.publish(ctx, events.SubscriptionRenewed, data)
}

func (p *lifecyclePublisher) Upgraded(ctx context.Context, previous, current *entity.Subscription, plan *entity.Plan, charged float64) {
	data := subscriptionData(current)
	data["plan_name"] = plan.Name
	data["previous_subscription_id"] = previous.Id.String()
	data["charged_amount"] = charged
	p.publish(ctx, events.SubscriptionUpgraded, data)
}

func (p *lifecyclePublisher) Cancelled(ctx context.Context, sub *entity.Subscription, byAdmin bool) {
	data := subscriptionData(sub)
	data["by_admin"] = byAdmin
	p.publish(ctx, events.SubscriptionCancelled, data)
}
