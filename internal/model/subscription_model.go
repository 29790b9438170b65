package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Plan struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string         `gorm:"type:varchar(100);not null"`
	Duration    string         `gorm:"type:varchar(20);not null"`
	Price       float64        `gorm:"type:decimal(10,2);not null"`
	Features    datatypes.JSON `gorm:"type:jsonb"`
	Description string         `gorm:"type:text"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (Plan) TableName() string {
	return "plans"
}

type Subscription struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanId          uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate       time.Time `gorm:"not null"`
	EndDate         time.Time `gorm:"not null"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	AmountPaid      float64   `gorm:"type:decimal(10,2);not null"`
	MealType        string    `gorm:"type:varchar(20);not null;default:'both'"`
	DeliveryAddress string    `gorm:"type:text"`
	PaymentId       string    `gorm:"type:varchar(255)"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionDetail is a scan target for the admin listing join.
type SubscriptionDetail struct {
	Subscription
	UserName     string
	UserEmail    string
	PlanName     string
	PlanPrice    float64
	PlanDuration string
}

type PaymentRecord struct {
	PaymentId      string    `gorm:"type:varchar(255);primaryKey"`
	OrderId        string    `gorm:"type:varchar(255);not null;index"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	SubscriptionId uuid.UUID `gorm:"type:uuid;not null"`
	Purpose        string    `gorm:"type:varchar(20);not null"`
	Amount         float64   `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}
