package contract

import (
	"context"

	"meal-subscription-be/internal/entity"
	"meal-subscription-be/internal/repository/specification"
)

type SubscriptionRepository interface {
	// Plans
	CreatePlan(ctx context.Context, plan *entity.Plan) error
	FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error)
	FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, subscription *entity.Subscription) error
	UpdateSubscription(ctx context.Context, subscription *entity.Subscription) error
	FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)
	FindAllSubscriptionDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionDetail, error)

	// Payment ledger
	CreatePaymentRecord(ctx context.Context, record *entity.PaymentRecord) error
	FindOnePaymentRecord(ctx context.Context, specs ...specification.Specification) (*entity.PaymentRecord, error)
}
