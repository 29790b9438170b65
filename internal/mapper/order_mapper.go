package mapper

import (
	"encoding/json"

	"meal-subscription-be/internal/entity"
	"meal-subscription-be/internal/model"

	"gorm.io/datatypes"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) ToEntity(o *model.Order) *entity.Order {
	if o == nil {
		return nil
	}
	var items []entity.OrderItem
	if len(o.Items) > 0 {
		_ = json.Unmarshal(o.Items, &items)
	}
	return &entity.Order{
		Id:              o.Id,
		UserId:          o.UserId,
		SubscriptionId:  o.SubscriptionId,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		Type:            entity.OrderType(o.Type),
		Status:          entity.OrderStatus(o.Status),
		PaymentStatus:   entity.OrderPaymentStatus(o.PaymentStatus),
		PaymentId:       o.PaymentId,
		DeliveryDate:    o.DeliveryDate,
		DeliveryAddress: o.DeliveryAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (m *OrderMapper) ToModel(o *entity.Order) *model.Order {
	if o == nil {
		return nil
	}
	items := datatypes.JSON("[]")
	if len(o.Items) > 0 {
		if raw, err := json.Marshal(o.Items); err == nil {
			items = datatypes.JSON(raw)
		}
	}
	return &model.Order{
		Id:              o.Id,
		UserId:          o.UserId,
		SubscriptionId:  o.SubscriptionId,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		Type:            string(o.Type),
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentId:       o.PaymentId,
		DeliveryDate:    o.DeliveryDate,
		DeliveryAddress: o.DeliveryAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
