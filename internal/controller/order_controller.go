package controller

import (
	"meal-subscription-be/internal/pkg/serverutils"
	"meal-subscription-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOrderController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
}

type orderController struct {
	orderService service.IOrderService
}

func NewOrderController(orderService service.IOrderService) IOrderController {
	return &orderController{orderService: orderService}
}

func (c *orderController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/orders", auth)
	h.Get("/myorders", c.ListMyOrders)
}

func (c *orderController) ListMyOrders(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserId(ctx)
	if err != nil {
		return err
	}

	orders, err := c.orderService.ListMyOrders(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Orders retrieved", orders))
}
