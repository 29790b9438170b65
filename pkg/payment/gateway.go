// Package payment wraps the payment provider: order creation and
// verification of the checkout callback signature.
package payment

import "context"

// Order is the provider-side record created before the customer pays.
type Order struct {
	ID       string
	Amount   int64 // minor units (paise)
	Currency string
	Receipt  string
}

// Callback is what the checkout widget hands back after a successful payment.
type Callback struct {
	OrderID   string
	PaymentID string
	Signature string
}

type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
}
