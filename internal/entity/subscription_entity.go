// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type PlanDuration string
type MealType string

const (
	SubscriptionStatusActive    SubscriptionStatus = "Active"
	SubscriptionStatusCancelled SubscriptionStatus = "Cancelled"

	PlanDurationMonthly PlanDuration = "monthly"
	PlanDurationYearly  PlanDuration = "yearly"

	MealTypeBoth   MealType = "both"
	MealTypeLunch  MealType = "lunch"
	MealTypeDinner MealType = "dinner"
)

// Label is the human readable form used on order line items.
func (m MealType) Label() string {
	switch m {
	case MealTypeLunch:
		return "Lunch"
	case MealTypeDinner:
		return "Dinner"
	default:
		return "Lunch + Dinner"
	}
}

type Plan struct {
	Id          uuid.UUID
	Name        string // tier name: Basic, Premium, Exotic
	Duration    PlanDuration
	Price       float64 // full price for MealTypeBoth
	Features    []string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Subscription struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	PlanId          uuid.UUID
	StartDate       time.Time
	EndDate         time.Time
	Status          SubscriptionStatus
	AmountPaid      float64
	MealType        MealType
	DeliveryAddress string
	PaymentId       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// SubscriptionDetail is the admin listing view joined with user and plan.
type SubscriptionDetail struct {
	Subscription
	UserName     string
	UserEmail    string
	PlanName     string
	PlanPrice    float64
	PlanDuration PlanDuration
}
