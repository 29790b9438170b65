package service

import (
	"meal-subscription-be/internal/dto"
	"meal-subscription-be/internal/entity"
)

func toPlanResponse(p *entity.Plan) *dto.PlanResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return &dto.PlanResponse{
		Id:          p.Id,
		Name:        p.Name,
		Duration:    string(p.Duration),
		Price:       p.Price,
		Features:    features,
		Description: p.Description,
	}
}

// toSubscriptionResponse embeds the plan when it is known.
func toSubscriptionResponse(s *entity.Subscription, plan *entity.Plan) *dto.SubscriptionResponse {
	res := &dto.SubscriptionResponse{
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
	if plan != nil {
		res.Plan = toPlanResponse(plan)
	}
	return res
}

func toOrderItemResponses(items []entity.OrderItem) []dto.OrderItemResponse {
	res := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.OrderItemResponse{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return res
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		Id:              o.Id,
		UserId:          o.UserId,
		SubscriptionId:  o.SubscriptionId,
		Items:           toOrderItemResponses(o.Items),
		TotalAmount:     o.TotalAmount,
		Type:            string(o.Type),
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentId:       o.PaymentId,
		DeliveryDate:    o.DeliveryDate,
		DeliveryAddress: o.DeliveryAddress,
		CreatedAt:       o.CreatedAt,
	}
}
