package mapper

import (
	"encoding/json"

	"meal-subscription-be/internal/entity"
	"meal-subscription-be/internal/model"

	"gorm.io/datatypes"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.Plan) *entity.Plan {
	if p == nil {
		return nil
	}
	var features []string
	if len(p.Features) > 0 {
		// Malformed rows keep an empty feature list rather than failing the read.
		_ = json.Unmarshal(p.Features, &features)
	}
	return &entity.Plan{
		Id:          p.Id,
		Name:        p.Name,
		Duration:    entity.PlanDuration(p.Duration),
		Price:       p.Price,
		Features:    features,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	features := datatypes.JSON("[]")
	if len(p.Features) > 0 {
		if raw, err := json.Marshal(p.Features); err == nil {
			features = datatypes.JSON(raw)
		}
	}
	return &model.Plan{
		Id:          p.Id,
		Name:        p.Name,
		Duration:    string(p.Duration),
		Price:       p.Price,
		Features:    features,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:              s.Id,
		UserId:          s.UserId,
		PlanId:          s.PlanId,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		Status:          entity.SubscriptionStatus(s.Status),
		AmountPaid:      s.AmountPaid,
		MealType:        entity.MealType(s.MealType),
		DeliveryAddress: s.DeliveryAddress,
		PaymentId:       s.PaymentId,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:              s.Id,
		UserId:          s.UserId,
		PlanId:          s.PlanId,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		Status:          string(s.Status),
		AmountPaid:      s.AmountPaid,
		MealType:        string(s.MealType),
		DeliveryAddress: s.DeliveryAddress,
		PaymentId:       s.PaymentId,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) DetailToEntity(d *model.SubscriptionDetail) *entity.SubscriptionDetail {
	if d == nil {
		return nil
	}
	return &entity.SubscriptionDetail{
		Subscription: *m.SubscriptionToEntity(&d.Subscription),
		UserName:     d.UserName,
		UserEmail:    d.UserEmail,
		PlanName:     d.PlanName,
		PlanPrice:    d.PlanPrice,
		PlanDuration: entity.PlanDuration(d.PlanDuration),
	}
}

func (m *SubscriptionMapper) PaymentRecordToEntity(p *model.PaymentRecord) *entity.PaymentRecord {
	if p == nil {
		return nil
	}
	return &entity.PaymentRecord{
		PaymentId:      p.PaymentId,
		OrderId:        p.OrderId,
		UserId:         p.UserId,
		SubscriptionId: p.SubscriptionId,
		Purpose:        entity.PaymentPurpose(p.Purpose),
		Amount:         p.Amount,
		CreatedAt:      p.CreatedAt,
	}
}

func (m *SubscriptionMapper) PaymentRecordToModel(p *entity.PaymentRecord) *model.PaymentRecord {
	if p == nil {
		return nil
	}
	return &model.PaymentRecord{
		PaymentId:      p.PaymentId,
		OrderId:        p.OrderId,
		UserId:         p.UserId,
		SubscriptionId: p.SubscriptionId,
		Purpose:        string(p.Purpose),
		Amount:         p.Amount,
		CreatedAt:      p.CreatedAt,
	}
}
