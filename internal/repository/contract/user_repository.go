package contract

import (
	"context"

	"meal-subscription-be/internal/entity"
	"meal-subscription-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)

	// SetCurrentSubscription points the back-reference at subscriptionId (nil clears it).
	SetCurrentSubscription(ctx context.Context, userId uuid.UUID, subscriptionId *uuid.UUID) error
}
