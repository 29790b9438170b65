// FILE: internal/controller/subscription_controller.go
package controller

import (
	"meal-subscription-be/internal/dto"
	"meal-subscription-be/internal/pkg/serverutils"
	"meal-subscription-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler, admin fiber.Handler)
}

type subscriptionController struct {
	service service.ISubscriptionService
}

func NewSubscriptionController(service service.ISubscriptionService) ISubscriptionController {
	return &subscriptionController{service: service}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router, auth fiber.Handler, admin fiber.Handler) {
	h := r.Group("/subscriptions", auth)

	h.Post("/", c.InitiatePurchase)
	h.Post("/verify", c.VerifyPurchase)
	h.Post("/cancel", c.Cancel)
	h.Post("/renew-init", c.InitiateRenewal)
	h.Post("/renew-verify", c.VerifyRenewal)
	h.Get("/me", c.GetMine)
	h.Get("/available-upgrades", c.ListAvailableUpgrades)
	h.Post("/upgrade-init", c.InitiateUpgrade)
	h.Post("/upgrade-verify", c.VerifyUpgrade)

	h.Get("/", admin, c.ListAll)
	h.Put("/:id/cancel", admin, c.AdminCancel)
}

// parseBody decodes and validates the request body into req.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

func (c *subscriptionController) InitiatePurchase(ctx *fiber.Ctx) error {
	var req dto.InitiatePurchaseRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	userId, err := serverutils.UserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.InitiatePurchase(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment order created", res))
}

func (c *subscriptionController) VerifyPurchase(ctx *fiber.Ctx) error {
	var req dto.VerifyPurchaseRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	userId, err := serverutils.UserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.VerifyPurchase(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Subscription activated", res))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	var req dto.CancelSubscriptionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	userId, err := serverutils.UserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CancelSubscription(ctx.Context(), userId, req.SubscriptionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription cancelled successfully", res))
}

func (c *subscriptionController) InitiateRenewal(ctx *fiber.Ctx) error {
	var req dto.InitiateRenewalRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	userId, err := serverutils.UserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.InitiateRenewal(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Renewal order created", res))
}

func (c *subscriptionController) VerifyRenewal(ctx *fiber.Ctx) error {
	var req dto.VerifyRenewalRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	userId, err := serverutils.UserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.VerifyRenewal(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription renewed successfully", res))
}

func (c *subscriptionController) GetMine(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetMySubscription(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription retrieved", res))
}

func (c *subscriptionController) ListAvailableUpgrades(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListAvailableUpgrades(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Available upgrades", res))
}

func (c *subscriptionController) InitiateUpgrade(ctx *fiber.Ctx) error {
	var req dto.InitiateUpgradeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	userId, err := serverutils.UserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.InitiateUpgrade(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Upgrade order created", res))
}

func (c *subscriptionController) VerifyUpgrade(ctx *fiber.Ctx) error {
	var req dto.VerifyUpgradeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	userId, err := serverutils.UserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.VerifyUpgrade(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Subscription upgraded successfully", res))
}

// --- Admin ---

func (c *subscriptionController) ListAll(ctx *fiber.Ctx) error {
	res, err := c.service.ListAllSubscriptions(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscriptions retrieved", res))
}

func (c *subscriptionController) AdminCancel(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid subscription id")
	}

	res, err := c.service.AdminCancelSubscription(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription cancelled by admin", res))
}
