package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Order struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	SubscriptionId  *uuid.UUID     `gorm:"type:uuid;index"`
	Items           datatypes.JSON `gorm:"type:jsonb"`
	TotalAmount     float64        `gorm:"type:decimal(10,2);not null"`
	Type            string         `gorm:"type:varchar(50);not null"`
	Status          string         `gorm:"type:varchar(50);not null"`
	PaymentStatus   string         `gorm:"type:varchar(50);not null"`
	PaymentId       string         `gorm:"type:varchar(255)"`
	DeliveryDate    time.Time
	DeliveryAddress string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
