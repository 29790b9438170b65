// FILE: internal/entity/order_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderType string
type OrderStatus string
type OrderPaymentStatus string

const (
	OrderTypeSubscriptionPurchase OrderType = "subscription_purchase"
	OrderTypeSubscriptionUpgrade  OrderType = "subscription_upgrade"

	OrderStatusConfirmed OrderStatus = "Confirmed"

	OrderPaymentStatusPaid OrderPaymentStatus = "Paid"
)

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	SubscriptionId  *uuid.UUID
	Items           []OrderItem
	TotalAmount     float64
	Type            OrderType
	Status          OrderStatus
	PaymentStatus   OrderPaymentStatus
	PaymentId       string
	DeliveryDate    time.Time
	DeliveryAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
