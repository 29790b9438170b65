// FILE: internal/dto/subscription_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// Field names follow the storefront client, which also posts the gateway's
// razorpay_* callback fields unchanged.

// --- Plans ---

type PlanResponse struct {
	Id          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Duration    string    `json:"duration"`
	Price       float64   `json:"price"`
	Features    []string  `json:"features"`
	Description string    `json:"description"`
}

// --- Gateway callback ---

type PaymentCallback struct {
	RazorpayOrderId   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentId string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// --- Purchase ---

type InitiatePurchaseRequest struct {
	PlanId   uuid.UUID `json:"planId" validate:"required"`
	MealType string    `json:"mealType" validate:"omitempty,oneof=both lunch dinner"`
}

type InitiatePurchaseResponse struct {
	OrderId  string    `json:"orderId"`
	Amount   int64     `json:"amount"`
	Currency string    `json:"currency"`
	PlanId   uuid.UUID `json:"planId"`
	MealType string    `json:"mealType"`
}

type VerifyPurchaseRequest struct {
	PaymentCallback
	PlanId          uuid.UUID `json:"planId" validate:"required"`
	MealType        string    `json:"mealType" validate:"omitempty,oneof=both lunch dinner"`
	DeliveryAddress string    `json:"deliveryAddress"`
}

// --- Renewal ---

type InitiateRenewalRequest struct {
	SubscriptionId uuid.UUID `json:"subscriptionId" validate:"required"`
}

type InitiateRenewalResponse struct {
	OrderId        string    `json:"orderId"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	SubscriptionId uuid.UUID `json:"subscriptionId"`
	PlanId         uuid.UUID `json:"planId"`
}

type VerifyRenewalRequest struct {
	PaymentCallback
	SubscriptionId uuid.UUID `json:"subscriptionId" validate:"required"`
}

// --- Upgrade ---

type UpgradeOption struct {
	PlanResponse
	UpgradePrice  float64 `json:"upgradePrice"`
	OriginalPrice float64 `json:"originalPrice"`
	Discount      float64 `json:"discount"`
}

type AvailableUpgradesResponse struct {
	CurrentSubscription *SubscriptionResponse `json:"currentSubscription"`
	AvailableUpgrades   []*UpgradeOption      `json:"availableUpgrades"`
}

type InitiateUpgradeRequest struct {
	NewPlanId          uuid.UUID `json:"newPlanId" validate:"required"`
	NewMealType        string    `json:"newMealType" validate:"omitempty,oneof=both lunch dinner"`
	NewDeliveryAddress string    `json:"newDeliveryAddress"`
}

type InitiateUpgradeResponse struct {
	OrderId               string    `json:"orderId"`
	Amount                int64     `json:"amount"`
	Currency              string    `json:"currency"`
	CurrentSubscriptionId uuid.UUID `json:"currentSubscriptionId"`
	NewPlanId             uuid.UUID `json:"newPlanId"`
	UpgradePrice          float64   `json:"upgradePrice"`
	Discount              float64   `json:"discount"`
	NewMealType           string    `json:"newMealType"`
	NewDeliveryAddress    string    `json:"newDeliveryAddress"`
}

type VerifyUpgradeRequest struct {
	PaymentCallback
	CurrentSubscriptionId uuid.UUID `json:"currentSubscriptionId" validate:"required"`
	NewPlanId             uuid.UUID `json:"newPlanId" validate:"required"`
	NewMealType           string    `json:"newMealType" validate:"omitempty,oneof=both lunch dinner"`
	NewDeliveryAddress    string    `json:"newDeliveryAddress"`
}

// --- Cancellation ---

type CancelSubscriptionRequest struct {
	SubscriptionId uuid.UUID `json:"subscriptionId" validate:"required"`
}

// --- Views ---

type SubscriptionResponse struct {
	Id              uuid.UUID     `json:"_id"`
	UserId          uuid.UUID     `json:"user"`
	PlanId          uuid.UUID     `json:"planId"`
	Plan            *PlanResponse `json:"plan,omitempty"`
	StartDate       time.Time     `json:"startDate"`
	EndDate         time.Time     `json:"endDate"`
	Status          string        `json:"status"`
	AmountPaid      float64       `json:"amountPaid"`
	MealType        string        `json:"mealType"`
	DeliveryAddress string        `json:"deliveryAddress"`
	PaymentId       string        `json:"paymentId"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

type OrderItemResponse struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type OrderResponse struct {
	Id              uuid.UUID           `json:"_id"`
	UserId          uuid.UUID           `json:"user"`
	SubscriptionId  *uuid.UUID          `json:"subscription,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     float64             `json:"totalAmount"`
	Type            string              `json:"type"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"paymentStatus"`
	PaymentId       string              `json:"paymentId"`
	DeliveryDate    time.Time           `json:"deliveryDate"`
	DeliveryAddress string              `json:"deliveryAddress"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// SubscriptionActionResponse is returned by verify, renew and cancel.
type SubscriptionActionResponse struct {
	Subscription *SubscriptionResponse `json:"subscription"`
	Order        *OrderResponse        `json:"order,omitempty"`
}

type AdminUserRef struct {
	Id    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type AdminPlanRef struct {
	Id       uuid.UUID `json:"_id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Duration string    `json:"duration"`
}

type AdminSubscriptionResponse struct {
	SubscriptionResponse
	User AdminUserRef `json:"user"`
	Plan AdminPlanRef `json:"plan"`
}

// --- Receipt queue ---

// ReceiptMessage is queued after a committed payment and turned into an e-mail.
type ReceiptMessage struct {
	UserId          uuid.UUID           `json:"user_id"`
	SubscriptionId  uuid.UUID           `json:"subscription_id"`
	PaymentId       string              `json:"payment_id"`
	Purpose         string              `json:"purpose"`
	Items           []OrderItemResponse `json:"items"`
	Total           float64             `json:"total"`
	Currency        string              `json:"currency"`
	ValidUntil      time.Time           `json:"valid_until"`
	DeliveryAddress string              `json:"delivery_address"`
}
