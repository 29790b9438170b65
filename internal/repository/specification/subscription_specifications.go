package specification

import (
	"meal-subscription-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByStatus struct {
	Status entity.SubscriptionStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// ActiveSubscriptionOf is the derived "current subscription" query.
func ActiveSubscriptionOf(userID uuid.UUID) []Specification {
	return []Specification{
		UserOwnedBy{UserID: userID},
		ByStatus{Status: entity.SubscriptionStatusActive},
		OrderBy{Field: "created_at", Desc: true},
	}
}

type BySubscription struct {
	SubscriptionID uuid.UUID
}

func (s BySubscription) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subscription_id = ?", s.SubscriptionID)
}

type ByPaymentID struct {
	PaymentID string
}

func (s ByPaymentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_id = ?", s.PaymentID)
}
