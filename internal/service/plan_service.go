// FILE: internal/service/plan_service.go
package service

import (
	"context"

	"meal-subscription-be/internal/dto"
	"meal-subscription-be/internal/repository/specification"
	"meal-subscription-be/internal/repository/unitofwork"
)

type IPlanService interface {
	ListPlans(ctx context.Context) ([]*dto.PlanResponse, error)
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory) IPlanService {
	return &planService{
		uowFactory: uowFactory,
	}
}

// ListPlans returns the public catalog, cheapest first.
func (s *planService) ListPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx, specification.OrderBy{Field: "price"})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		res = append(res, toPlanResponse(p))
	}
	return res, nil
}
