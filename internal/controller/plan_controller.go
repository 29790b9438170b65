// FILE: internal/controller/plan_controller.go
package controller

import (
	"meal-subscription-be/internal/pkg/serverutils"
	"meal-subscription-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPlanController interface {
	RegisterRoutes(r fiber.Router)
}

type planController struct {
	planService service.IPlanService
}

func NewPlanController(planService service.IPlanService) IPlanController {
	return &planController{
		planService: planService,
	}
}

func (c *planController) RegisterRoutes(r fiber.Router) {
	r.Get("/plans", c.ListPlans)
}

// ListPlans is public.
func (c *planController) ListPlans(ctx *fiber.Ctx) error {
	plans, err := c.planService.ListPlans(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plans retrieved", plans))
}
