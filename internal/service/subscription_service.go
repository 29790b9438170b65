// FILE: internal/service/subscription_service.go
// Subscription lifecycle: purchase, renewal, upgrade and cancellation.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meal-subscription-be/internal/dto"
	"meal-subscription-be/internal/entity"
	"meal-subscription-be/internal/pkg/apperror"
	"meal-subscription-be/internal/pkg/logger"
	"meal-subscription-be/internal/pricing"
	"meal-subscription-be/internal/repository/contract"
	"meal-subscription-be/internal/repository/memory"
	"meal-subscription-be/internal/repository/specification"
	"meal-subscription-be/internal/repository/unitofwork"
	"meal-subscription-be/pkg/lock"
	"meal-subscription-be/pkg/payment"

	"github.com/google/uuid"
)

const (
	logModule     = "SUBSCRIPTION"
	verifyLockTTL = 30 * time.Second
)

type ISubscriptionService interface {
	InitiatePurchase(ctx context.Context, userId uuid.UUID, req *dto.InitiatePurchaseRequest) (*dto.InitiatePurchaseResponse, error)
	VerifyPurchase(ctx context.Context, userId uuid.UUID, req *dto.VerifyPurchaseRequest) (*dto.SubscriptionActionResponse, error)

	InitiateRenewal(ctx context.Context, userId uuid.UUID, req *dto.InitiateRenewalRequest) (*dto.InitiateRenewalResponse, error)
	VerifyRenewal(ctx context.Context, userId uuid.UUID, req *dto.VerifyRenewalRequest) (*dto.SubscriptionActionResponse, error)

	ListAvailableUpgrades(ctx context.Context, userId uuid.UUID) (*dto.AvailableUpgradesResponse, error)
	InitiateUpgrade(ctx context.Context, userId uuid.UUID, req *dto.InitiateUpgradeRequest) (*dto.InitiateUpgradeResponse, error)
	VerifyUpgrade(ctx context.Context, userId uuid.UUID, req *dto.VerifyUpgradeRequest) (*dto.SubscriptionActionResponse, error)

	CancelSubscription(ctx context.Context, userId uuid.UUID, subscriptionId uuid.UUID) (*dto.SubscriptionActionResponse, error)
	AdminCancelSubscription(ctx context.Context, subscriptionId uuid.UUID) (*dto.SubscriptionActionResponse, error)

	GetMySubscription(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionResponse, error)
	ListAllSubscriptions(ctx context.Context) ([]*dto.AdminSubscriptionResponse, error)
}

// PaymentSettings are the gateway credentials the service needs besides the client.
type PaymentSettings struct {
	KeySecret string
	Currency  string
}

type subscriptionService struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    payment.Gateway
	settings   PaymentSettings
	locker     lock.Locker
	quotes     *memory.QuoteRepository
	events     ILifecyclePublisher
	receipts   IPublisherService
	logger     logger.ILogger
	now        func() time.Time
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	gateway payment.Gateway,
	settings PaymentSettings,
	locker lock.Locker,
	quotes *memory.QuoteRepository,
	events ILifecyclePublisher,
	receipts IPublisherService,
	log logger.ILogger,
) ISubscriptionService {
	if settings.Currency == "" {
		settings.Currency = "INR"
	}
	return &subscriptionService{
		uowFactory: uowFactory,
		gateway:    gateway,
		settings:   settings,
		locker:     locker,
		quotes:     quotes,
		events:     events,
		receipts:   receipts,
		logger:     log,
		now:        time.Now,
	}
}

// --- Purchase ---

func (s *subscriptionService) InitiatePurchase(ctx context.Context, userId uuid.UUID, req *dto.InitiatePurchaseRequest) (*dto.InitiatePurchaseResponse, error) {
	mealType, err := pricing.ParseMealType(req.MealType)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperror.NotFound("Plan not found")
	}

	amount := pricing.PriceFor(plan, mealType)
	if err := pricing.CheckMinimumCharge(amount); err != nil {
		return nil, err
	}

	active, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ActiveSubscriptionOf(userId)...)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperror.InvalidState("You already have an active subscription. Upgrade or renew it instead.")
	}

	order, err := s.createGatewayOrder(ctx, amount, "receipt_order_")
	if err != nil {
		return nil, err
	}

	s.quotes.Save(&memory.Quote{
		OrderId:  order.ID,
		Purpose:  entity.PaymentPurposePurchase,
		UserId:   userId,
		PlanId:   plan.Id,
		MealType: mealType,
		Amount:   amount,
	})

	return &dto.InitiatePurchaseResponse{
		OrderId:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		PlanId:   plan.Id,
		MealType: string(mealType),
	}, nil
}

func (s *subscriptionService) VerifyPurchase(ctx context.Context, userId uuid.UUID, req *dto.VerifyPurchaseRequest) (*dto.SubscriptionActionResponse, error) {
	release, err := s.authorizePayment(ctx, req.PaymentCallback)
	if err != nil {
		return nil, err
	}
	defer release()

	mealType, err := pricing.ParseMealType(req.MealType)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := s.ensureUnapplied(ctx, uow, req.RazorpayPaymentId); err != nil {
		return nil, err
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperror.NotFound("Plan not found")
	}

	amount := pricing.PriceFor(plan, mealType)
	if err := s.matchQuote(req.RazorpayOrderId, memory.Quote{
		Purpose:  entity.PaymentPurposePurchase,
		UserId:   userId,
		PlanId:   plan.Id,
		MealType: mealType,
		Amount:   amount,
	}); err != nil {
		return nil, err
	}

	// Another purchase may have committed between initiate and verify.
	superseded, err := s.supersedeActive(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	now := s.now()

	sub := &entity.Subscription{
		Id:              uuid.New(),
		UserId:          userId,
		PlanId:          plan.Id,
		StartDate:       now,
		EndDate:         pricing.PeriodEnd(now, plan.Duration),
		Status:          entity.SubscriptionStatusActive,
		AmountPaid:      amount,
		MealType:        mealType,
		DeliveryAddress: req.DeliveryAddress,
		PaymentId:       req.RazorpayPaymentId,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().SetCurrentSubscription(ctx, userId, &sub.Id); err != nil {
		return nil, err
	}

	order := &entity.Order{
		Id:             uuid.New(),
		UserId:         userId,
		SubscriptionId: &sub.Id,
		Items: []entity.OrderItem{{
			Name:     fmt.Sprintf("%s Plan (%s) - %s", plan.Name, plan.Duration, mealType.Label()),
			Quantity: 1,
			Price:    amount,
		}},
		TotalAmount:     amount,
		Type:            entity.OrderTypeSubscriptionPurchase,
		Status:          entity.OrderStatusConfirmed,
		PaymentStatus:   entity.OrderPaymentStatusPaid,
		PaymentId:       req.RazorpayPaymentId,
		DeliveryDate:    now,
		DeliveryAddress: req.DeliveryAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uow.OrderRepository().Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.recordPayment(ctx, uow, req.PaymentCallback, userId, sub.Id, entity.PaymentPurposePurchase, amount); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.quotes.Delete(req.RazorpayOrderId)
	s.logger.Info(logModule, "Subscription activated", map[string]interface{}{
		"user_id":         userId.String(),
		"subscription_id": sub.Id.String(),
		"plan":            plan.Name,
		"meal_type":       string(mealType),
		"amount":          amount,
		"superseded":      len(superseded),
	})
	s.events.Activated(ctx, sub, plan)
	s.enqueueReceipt(sub, order.Items, amount, entity.PaymentPurposePurchase)

	return &dto.SubscriptionActionResponse{
		Subscription: toSubscriptionResponse(sub, plan),
		Order:        toOrderResponse(order),
	}, nil
}

// --- Renewal ---

func (s *subscriptionService) InitiateRenewal(ctx context.Context, userId uuid.UUID, req *dto.InitiateRenewalRequest) (*dto.InitiateRenewalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx,
		specification.ByID{ID: req.SubscriptionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NotFound("Subscription not found")
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperror.NotFound("Plan associated with this subscription was not found. Please buy a new subscription.")
	}

	// Renewal charges the full plan price regardless of meal type.
	if err := pricing.CheckMinimumCharge(plan.Price); err != nil {
		return nil, err
	}

	order, err := s.createGatewayOrder(ctx, plan.Price, "receipt_renew_")
	if err != nil {
		return nil, err
	}

	s.quotes.Save(&memory.Quote{
		OrderId:        order.ID,
		Purpose:        entity.PaymentPurposeRenewal,
		UserId:         userId,
		SubscriptionId: sub.Id,
		PlanId:         plan.Id,
		Amount:         plan.Price,
	})

	return &dto.InitiateRenewalResponse{
		OrderId:        order.ID,
		Amount:         order.Amount,
		Currency:       order.Currency,
		SubscriptionId: sub.Id,
		PlanId:         plan.Id,
	}, nil
}

func (s *subscriptionService) VerifyRenewal(ctx context.Context, userId uuid.UUID, req *dto.VerifyRenewalRequest) (*dto.SubscriptionActionResponse, error) {
	release, err := s.authorizePayment(ctx, req.PaymentCallback)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := s.ensureUnapplied(ctx, uow, req.RazorpayPaymentId); err != nil {
		return nil, err
	}

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx,
		specification.ByID{ID: req.SubscriptionId},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NotFound("Subscription not found")
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperror.NotFound("Plan associated with this subscription was not found. Please buy a new subscription.")
	}

	if err := s.matchQuote(req.RazorpayOrderId, memory.Quote{
		Purpose:        entity.PaymentPurposeRenewal,
		UserId:         userId,
		SubscriptionId: sub.Id,
		PlanId:         plan.Id,
		Amount:         plan.Price,
	}); err != nil {
		return nil, err
	}

	if !sub.IsActive() {
		active, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ActiveSubscriptionOf(userId)...)
		if err != nil {
			return nil, err
		}
		if active != nil && active.Id != sub.Id {
			return nil, apperror.InvalidState("Another subscription is already active")
		}
	}

	now := s.now()
	sub.StartDate = now
	sub.EndDate = pricing.PeriodEnd(now, plan.Duration)
	sub.Status = entity.SubscriptionStatusActive
	sub.PaymentId = req.RazorpayPaymentId
	sub.AmountPaid = plan.Price
	sub.UpdatedAt = now

	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().SetCurrentSubscription(ctx, userId, &sub.Id); err != nil {
		return nil, err
	}

	// The linked order is refreshed when present; subscriptions created before
	// orders were recorded have none.
	order, err := uow.OrderRepository().FindOne(ctx,
		specification.BySubscription{SubscriptionID: sub.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if order != nil {
		order.PaymentStatus = entity.OrderPaymentStatusPaid
		order.Status = entity.OrderStatusConfirmed
		order.DeliveryDate = now
		order.PaymentId = req.RazorpayPaymentId
		order.UpdatedAt = now
		if err := uow.OrderRepository().Update(ctx, order); err != nil {
			return nil, err
		}
	}

	if err := s.recordPayment(ctx, uow, req.PaymentCallback, userId, sub.Id, entity.PaymentPurposeRenewal, plan.Price); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.quotes.Delete(req.RazorpayOrderId)
	s.logger.Info(logModule, "Subscription renewed", map[string]interface{}{
		"user_id":         userId.String(),
		"subscription_id": sub.Id.String(),
		"end_date":        sub.EndDate,
	})
	s.events.Renewed(ctx, sub, plan)
	s.enqueueReceipt(sub, []entity.OrderItem{{
		Name:     fmt.Sprintf("Renewal: %s Plan (%s)", plan.Name, plan.Duration),
		Quantity: 1,
		Price:    plan.Price,
	}}, plan.Price, entity.PaymentPurposeRenewal)

	res := &dto.SubscriptionActionResponse{Subscription: toSubscriptionResponse(sub, plan)}
	if order != nil {
		res.Order = toOrderResponse(order)
	}
	return res, nil
}

// --- Upgrade ---

func (s *subscriptionService) ListAvailableUpgrades(ctx context.Context, userId uuid.UUID) (*dto.AvailableUpgradesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx, specification.OrderBy{Field: "price"})
	if err != nil {
		return nil, err
	}

	current, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ActiveSubscriptionOf(userId)...)
	if err != nil {
		return nil, err
	}

	res := &dto.AvailableUpgradesResponse{AvailableUpgrades: []*dto.UpgradeOption{}}

	if current == nil {
		for _, p := range plans {
			res.AvailableUpgrades = append(res.AvailableUpgrades, &dto.UpgradeOption{
				PlanResponse:  *toPlanResponse(p),
				UpgradePrice:  p.Price,
				OriginalPrice: p.Price,
			})
		}
		return res, nil
	}

	var currentPlan *entity.Plan
	for _, p := range plans {
		if p.Id == current.PlanId {
			currentPlan = p
			break
		}
	}
	if currentPlan == nil {
		return nil, apperror.NotFound("Current plan not found")
	}

	res.CurrentSubscription = toSubscriptionResponse(current, currentPlan)
	for _, p := range plans {
		if !pricing.IsValidUpgrade(currentPlan, p) {
			continue
		}
		res.AvailableUpgrades = append(res.AvailableUpgrades, &dto.UpgradeOption{
			PlanResponse:  *toPlanResponse(p),
			UpgradePrice:  pricing.UpgradeCost(p.Price, current.AmountPaid),
			OriginalPrice: p.Price,
			Discount:      current.AmountPaid,
		})
	}
	return res, nil
}

func (s *subscriptionService) InitiateUpgrade(ctx context.Context, userId uuid.UUID, req *dto.InitiateUpgradeRequest) (*dto.InitiateUpgradeResponse, error) {
	mealType, err := pricing.ParseMealType(req.NewMealType)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	current, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ActiveSubscriptionOf(userId)...)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.InvalidState("No active subscription found to upgrade")
	}

	newPlan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.NewPlanId})
	if err != nil {
		return nil, err
	}
	if newPlan == nil {
		return nil, apperror.NotFound("New plan not found")
	}

	currentPlan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: current.PlanId})
	if err != nil {
		return nil, err
	}
	if currentPlan == nil {
		return nil, apperror.NotFound("Current plan not found")
	}

	if !pricing.CanTransition(currentPlan, newPlan) {
		return nil, apperror.PolicyViolation("Can only upgrade to higher tier or longer duration.")
	}

	newTotal := pricing.PriceFor(newPlan, mealType)
	cost, err := pricing.CheckUpgradeCharge(newTotal, current.AmountPaid)
	if err != nil {
		return nil, err
	}
	if err := pricing.CheckMinimumCharge(cost); err != nil {
		return nil, apperror.PolicyViolation("Upgrade amount must be at least ₹1")
	}

	order, err := s.createGatewayOrder(ctx, cost, "receipt_upgrade_")
	if err != nil {
		return nil, err
	}

	s.quotes.Save(&memory.Quote{
		OrderId:        order.ID,
		Purpose:        entity.PaymentPurposeUpgrade,
		UserId:         userId,
		SubscriptionId: current.Id,
		PlanId:         newPlan.Id,
		MealType:       mealType,
		Amount:         cost,
	})

	return &dto.InitiateUpgradeResponse{
		OrderId:               order.ID,
		Amount:                order.Amount,
		Currency:              order.Currency,
		CurrentSubscriptionId: current.Id,
		NewPlanId:             newPlan.Id,
		UpgradePrice:          cost,
		Discount:              current.AmountPaid,
		NewMealType:           string(mealType),
		NewDeliveryAddress:    req.NewDeliveryAddress,
	}, nil
}

func (s *subscriptionService) VerifyUpgrade(ctx context.Context, userId uuid.UUID, req *dto.VerifyUpgradeRequest) (*dto.SubscriptionActionResponse, error) {
	release, err := s.authorizePayment(ctx, req.PaymentCallback)
	if err != nil {
		return nil, err
	}
	defer release()

	mealType, err := pricing.ParseMealType(req.NewMealType)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := s.ensureUnapplied(ctx, uow, req.RazorpayPaymentId); err != nil {
		return nil, err
	}

	current, err := uow.SubscriptionRepository().FindOneSubscription(ctx,
		specification.ByID{ID: req.CurrentSubscriptionId},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.NotFound("Current subscription not found")
	}
	if !current.IsActive() {
		return nil, apperror.InvalidState("Current subscription is not active")
	}

	newPlan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.NewPlanId})
	if err != nil {
		return nil, err
	}
	if newPlan == nil {
		return nil, apperror.NotFound("New plan not found")
	}

	currentPlan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: current.PlanId})
	if err != nil {
		return nil, err
	}
	if currentPlan == nil {
		return nil, apperror.NotFound("Current plan not found")
	}

	if !pricing.CanTransition(currentPlan, newPlan) {
		return nil, apperror.PolicyViolation("Can only upgrade to higher tier or longer duration.")
	}
	newTotal := pricing.PriceFor(newPlan, mealType)
	charged, err := pricing.CheckUpgradeCharge(newTotal, current.AmountPaid)
	if err != nil {
		return nil, err
	}
	if err := s.matchQuote(req.RazorpayOrderId, memory.Quote{
		Purpose:        entity.PaymentPurposeUpgrade,
		UserId:         userId,
		SubscriptionId: current.Id,
		PlanId:         newPlan.Id,
		MealType:       mealType,
		Amount:         charged,
	}); err != nil {
		return nil, err
	}

	now := s.now()

	address := req.NewDeliveryAddress
	if address == "" {
		address = current.DeliveryAddress
	}

	current.Status = entity.SubscriptionStatusCancelled
	current.UpdatedAt = now
	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, current); err != nil {
		return nil, err
	}

	upgraded := &entity.Subscription{
		Id:              uuid.New(),
		UserId:          userId,
		PlanId:          newPlan.Id,
		StartDate:       now,
		EndDate:         pricing.PeriodEnd(now, newPlan.Duration),
		Status:          entity.SubscriptionStatusActive,
		AmountPaid:      newTotal,
		MealType:        mealType,
		DeliveryAddress: address,
		PaymentId:       req.RazorpayPaymentId,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uow.SubscriptionRepository().CreateSubscription(ctx, upgraded); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().SetCurrentSubscription(ctx, userId, &upgraded.Id); err != nil {
		return nil, err
	}

	order := &entity.Order{
		Id:             uuid.New(),
		UserId:         userId,
		SubscriptionId: &upgraded.Id,
		Items: []entity.OrderItem{{
			Name:     fmt.Sprintf("Upgrade to %s Plan (%s) - %s", newPlan.Name, newPlan.Duration, mealType.Label()),
			Quantity: 1,
			Price:    charged,
		}},
		TotalAmount:     charged,
		Type:            entity.OrderTypeSubscriptionUpgrade,
		Status:          entity.OrderStatusConfirmed,
		PaymentStatus:   entity.OrderPaymentStatusPaid,
		PaymentId:       req.RazorpayPaymentId,
		DeliveryDate:    now,
		DeliveryAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uow.OrderRepository().Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.recordPayment(ctx, uow, req.PaymentCallback, userId, upgraded.Id, entity.PaymentPurposeUpgrade, charged); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.quotes.Delete(req.RazorpayOrderId)
	s.logger.Info(logModule, "Subscription upgraded", map[string]interface{}{
		"user_id":           userId.String(),
		"from_subscription": current.Id.String(),
		"to_subscription":   upgraded.Id.String(),
		"plan":              newPlan.Name,
		"charged":           charged,
	})
	s.events.Upgraded(ctx, current, upgraded, newPlan, charged)
	s.enqueueReceipt(upgraded, order.Items, charged, entity.PaymentPurposeUpgrade)

	return &dto.SubscriptionActionResponse{
		Subscription: toSubscriptionResponse(upgraded, newPlan),
		Order:        toOrderResponse(order),
	}, nil
}

// --- Cancellation ---

func (s *subscriptionService) CancelSubscription(ctx context.Context, userId uuid.UUID, subscriptionId uuid.UUID) (*dto.SubscriptionActionResponse, error) {
	return s.cancel(ctx, subscriptionId, &userId)
}

func (s *subscriptionService) AdminCancelSubscription(ctx context.Context, subscriptionId uuid.UUID) (*dto.SubscriptionActionResponse, error) {
	return s.cancel(ctx, subscriptionId, nil)
}

// cancel restricts the lookup to ownerId when it is set.
func (s *subscriptionService) cancel(ctx context.Context, subscriptionId uuid.UUID, ownerId *uuid.UUID) (*dto.SubscriptionActionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	specs := []specification.Specification{specification.ByID{ID: subscriptionId}, specification.ForUpdate{}}
	if ownerId != nil {
		specs = append(specs, specification.UserOwnedBy{UserID: *ownerId})
	}

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NotFound("Subscription not found")
	}
	if !sub.IsActive() {
		return nil, apperror.InvalidState("Subscription is not active")
	}

	sub.Status = entity.SubscriptionStatusCancelled
	sub.UpdatedAt = s.now()
	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId})
	if err != nil {
		return nil, err
	}
	if user != nil && user.CurrentSubscriptionId != nil && *user.CurrentSubscriptionId == sub.Id {
		if err := uow.UserRepository().SetCurrentSubscription(ctx, sub.UserId, nil); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(logModule, "Subscription cancelled", map[string]interface{}{
		"user_id":         sub.UserId.String(),
		"subscription_id": sub.Id.String(),
		"by_admin":        ownerId == nil,
	})
	s.events.Cancelled(ctx, sub, ownerId == nil)

	return &dto.SubscriptionActionResponse{Subscription: toSubscriptionResponse(sub, nil)}, nil
}

// --- Queries ---

func (s *subscriptionService) GetMySubscription(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ActiveSubscriptionOf(userId)...)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NotFound("No active subscription found")
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(sub, plan), nil
}

func (s *subscriptionService) ListAllSubscriptions(ctx context.Context) ([]*dto.AdminSubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	details, err := uow.SubscriptionRepository().FindAllSubscriptionDetails(ctx,
		specification.OrderBy{Field: "subscriptions.created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AdminSubscriptionResponse, 0, len(details))
	for _, d := range details {
		res = append(res, &dto.AdminSubscriptionResponse{
			SubscriptionResponse: *toSubscriptionResponse(&d.Subscription, nil),
			User:                 dto.AdminUserRef{Id: d.UserId, Name: d.UserName, Email: d.UserEmail},
			Plan: dto.AdminPlanRef{
				Id:       d.PlanId,
				Name:     d.PlanName,
				Price:    d.PlanPrice,
				Duration: string(d.PlanDuration),
			},
		})
	}
	return res, nil
}

// --- Helpers ---

func (s *subscriptionService) createGatewayOrder(ctx context.Context, amount float64, receiptPrefix string) (*payment.Order, error) {
	receipt := fmt.Sprintf("%s%d", receiptPrefix, s.now().UnixMilli())
	order, err := s.gateway.CreateOrder(ctx, pricing.ToMinorUnits(amount), s.settings.Currency, receipt)
	if err != nil {
		s.logger.Error(logModule, "Failed to create gateway order", map[string]interface{}{
			"error":   err.Error(),
			"receipt": receipt,
		})
		return nil, apperror.Upstream("Error creating payment order", err)
	}
	return order, nil
}

// authorizePayment checks the callback signature and takes the payment-id lock.
// The returned release must always be called.
func (s *subscriptionService) authorizePayment(ctx context.Context, cb dto.PaymentCallback) (func(), error) {
	ok := payment.VerifySignature(s.settings.KeySecret, payment.Callback{
		OrderID:   cb.RazorpayOrderId,
		PaymentID: cb.RazorpayPaymentId,
		Signature: cb.RazorpaySignature,
	})
	if !ok {
		s.logger.Warn(logModule, "Rejected payment callback with invalid signature", map[string]interface{}{
			"order_id":   cb.RazorpayOrderId,
			"payment_id": cb.RazorpayPaymentId,
		})
		return nil, apperror.InvalidSignature("Invalid payment signature")
	}

	release, err := s.locker.Acquire(ctx, cb.RazorpayPaymentId, verifyLockTTL)
	if errors.Is(err, lock.ErrLockHeld) {
		return nil, apperror.InvalidState("Payment is already being processed")
	}
	if err != nil {
		// The ledger still rejects duplicates; the lock only short-circuits them.
		s.logger.Warn(logModule, "Payment lock unavailable, relying on ledger", map[string]interface{}{
			"error":      err.Error(),
			"payment_id": cb.RazorpayPaymentId,
		})
		return func() {}, nil
	}
	return release, nil
}

// matchQuote requires the quote priced for orderId to describe exactly what
// verify is about to apply, amount included. Without a quote nothing is applied.
func (s *subscriptionService) matchQuote(orderId string, want memory.Quote) error {
	quote, ok := s.quotes.Get(orderId)
	if !ok {
		s.logger.Warn(logModule, "No quote for verified payment order", map[string]interface{}{
			"order_id": orderId,
			"purpose":  string(want.Purpose),
			"user_id":  want.UserId.String(),
		})
		return apperror.PolicyViolation("Payment quote has expired. Please start the checkout again.")
	}
	if quote.Purpose != want.Purpose ||
		quote.UserId != want.UserId ||
		quote.SubscriptionId != want.SubscriptionId ||
		quote.PlanId != want.PlanId ||
		quote.MealType != want.MealType {
		return apperror.PolicyViolation("Payment does not match the quoted plan")
	}
	if pricing.ToMinorUnits(quote.Amount) != pricing.ToMinorUnits(want.Amount) {
		return apperror.PolicyViolation("Payment amount does not match the quoted price")
	}
	return nil
}

func (s *subscriptionService) ensureUnapplied(ctx context.Context, uow unitofwork.UnitOfWork, paymentId string) error {
	existing, err := uow.SubscriptionRepository().FindOnePaymentRecord(ctx, specification.ByPaymentID{PaymentID: paymentId})
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.InvalidState("Payment has already been applied")
	}
	return nil
}

func (s *subscriptionService) recordPayment(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	cb dto.PaymentCallback,
	userId, subscriptionId uuid.UUID,
	purpose entity.PaymentPurpose,
	amount float64,
) error {
	err := uow.SubscriptionRepository().CreatePaymentRecord(ctx, &entity.PaymentRecord{
		PaymentId:      cb.RazorpayPaymentId,
		OrderId:        cb.RazorpayOrderId,
		UserId:         userId,
		SubscriptionId: subscriptionId,
		Purpose:        purpose,
		Amount:         amount,
		CreatedAt:      s.now(),
	})
	if errors.Is(err, contract.ErrDuplicatePayment) {
		return apperror.InvalidState("Payment has already been applied")
	}
	return err
}

// supersedeActive cancels every Active subscription of the user inside uow.
func (s *subscriptionService) supersedeActive(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) ([]*entity.Subscription, error) {
	specs := append(specification.ActiveSubscriptionOf(userId), specification.ForUpdate{})
	active, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx, specs...)
	if err != nil {
		return nil, err
	}
	for _, sub := range active {
		sub.Status = entity.SubscriptionStatusCancelled
		sub.UpdatedAt = s.now()
		if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
			return nil, err
		}
	}
	return active, nil
}

func (s *subscriptionService) enqueueReceipt(sub *entity.Subscription, items []entity.OrderItem, total float64, purpose entity.PaymentPurpose) {
	if s.receipts == nil {
		return
	}

	msg := dto.ReceiptMessage{
		UserId:          sub.UserId,
		SubscriptionId:  sub.Id,
		PaymentId:       sub.PaymentId,
		Purpose:         string(purpose),
		Items:           toOrderItemResponses(items),
		Total:           total,
		Currency:        s.settings.Currency,
		ValidUntil:      sub.EndDate,
		DeliveryAddress: sub.DeliveryAddress,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error(logModule, "Failed to encode receipt", map[string]interface{}{
			"error":      err.Error(),
			"payment_id": sub.PaymentId,
		})
		return
	}
	if err := s.receipts.Publish(payload); err != nil {
		s.logger.Error(logModule, "Failed to enqueue receipt", map[string]interface{}{
			"error":      err.Error(),
			"payment_id": sub.PaymentId,
		})
	}
}
