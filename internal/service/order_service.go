package service

import (
	"context"

	"meal-subscription-be/internal/dto"
	"meal-subscription-be/internal/repository/specification"
	"meal-subscription-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IOrderService interface {
	ListMyOrders(ctx context.Context, userId uuid.UUID) ([]*dto.OrderResponse, error)
}

type orderService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewOrderService(uowFactory unitofwork.RepositoryFactory) IOrderService {
	return &orderService{uowFactory: uowFactory}
}

func (s *orderService) ListMyOrders(ctx context.Context, userId uuid.UUID) ([]*dto.OrderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	orders, err := uow.OrderRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, toOrderResponse(o))
	}
	return res, nil
}
