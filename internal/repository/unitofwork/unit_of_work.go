package unitofwork

import (
	"context"

	"meal-subscription-be/internal/repository/contract"
)

// UnitOfWork groups repository writes into a single transaction.
// Repositories obtained after Begin share the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SubscriptionRepository() contract.SubscriptionRepository
	OrderRepository() contract.OrderRepository
}
