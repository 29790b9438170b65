// FILE: internal/entity/payment_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentPurpose string

const (
	PaymentPurposePurchase PaymentPurpose = "purchase"
	PaymentPurposeRenewal  PaymentPurpose = "renewal"
	PaymentPurposeUpgrade  PaymentPurpose = "upgrade"
)

// PaymentRecord is the ledger entry proving a gateway payment was applied.
// PaymentId is unique; a second Verify for the same payment finds this row.
type PaymentRecord struct {
	PaymentId      string
	OrderId        string
	UserId         uuid.UUID
	SubscriptionId uuid.UUID
	Purpose        PaymentPurpose
	Amount         float64
	CreatedAt      time.Time
}
