package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"meal-subscription-be/internal/dto"
	"meal-subscription-be/internal/pkg/apperror"
	"meal-subscription-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-secret"

// stubSubscriptionService records the last call and returns canned results.
type stubSubscriptionService struct {
	userId    uuid.UUID
	purchase  *dto.VerifyPurchaseRequest
	cancelled uuid.UUID
	err       error
}

func (s *stubSubscriptionService) InitiatePurchase(ctx context.Context, userId uuid.UUID, req *dto.InitiatePurchaseRequest) (*dto.InitiatePurchaseResponse, error) {
	s.userId = userId
	if s.err != nil {
		return nil, s.err
	}
	return &dto.InitiatePurchaseResponse{OrderId: "order_1", Amount: 50000, Currency: "INR", PlanId: req.PlanId, MealType: "both"}, nil
}

func (s *stubSubscriptionService) VerifyPurchase(ctx context.Context, userId uuid.UUID, req *dto.VerifyPurchaseRequest) (*dto.SubscriptionActionResponse, error) {
	s.userId = userId
	s.purchase = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubscriptionActionResponse{Subscription: &dto.SubscriptionResponse{Id: uuid.New(), Status: "Active"}}, nil
}

func (s *stubSubscriptionService) InitiateRenewal(ctx context.Context, userId uuid.UUID, req *dto.InitiateRenewalRequest) (*dto.InitiateRenewalResponse, error) {
	return &dto.InitiateRenewalResponse{OrderId: "order_r", SubscriptionId: req.SubscriptionId}, s.err
}

func (s *stubSubscriptionService) VerifyRenewal(ctx context.Context, userId uuid.UUID, req *dto.VerifyRenewalRequest) (*dto.SubscriptionActionResponse, error) {
	return &dto.SubscriptionActionResponse{}, s.err
}

func (s *stubSubscriptionService) ListAvailableUpgrades(ctx context.Context, userId uuid.UUID) (*dto.AvailableUpgradesResponse, error) {
	return &dto.AvailableUpgradesResponse{}, s.err
}

func (s *stubSubscriptionService) InitiateUpgrade(ctx context.Context, userId uuid.UUID, req *dto.InitiateUpgradeRequest) (*dto.InitiateUpgradeResponse, error) {
	return &dto.InitiateUpgradeResponse{OrderId: "order_u"}, s.err
}

func (s *stubSubscriptionService) VerifyUpgrade(ctx context.Context, userId uuid.UUID, req *dto.VerifyUpgradeRequest) (*dto.SubscriptionActionResponse, error) {
	return &dto.SubscriptionActionResponse{}, s.err
}

func (s *stubSubscriptionService) CancelSubscription(ctx context.Context, userId uuid.UUID, subscriptionId uuid.UUID) (*dto.SubscriptionActionResponse, error) {
	s.userId = userId
	s.cancelled = subscriptionId
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubscriptionActionResponse{Subscription: &dto.SubscriptionResponse{Id: subscriptionId, Status: "Cancelled"}}, nil
}

func (s *stubSubscriptionService) AdminCancelSubscription(ctx context.Context, subscriptionId uuid.UUID) (*dto.SubscriptionActionResponse, error) {
	s.cancelled = subscriptionId
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubscriptionActionResponse{Subscription: &dto.SubscriptionResponse{Id: subscriptionId, Status: "Cancelled"}}, nil
}

func (s *stubSubscriptionService) GetMySubscription(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionResponse, error) {
	s.userId = userId
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubscriptionResponse{Id: uuid.New(), UserId: userId, Status: "Active"}, nil
}

func (s *stubSubscriptionService) ListAllSubscriptions(ctx context.Context) ([]*dto.AdminSubscriptionResponse, error) {
	return []*dto.AdminSubscriptionResponse{}, s.err
}

type stubPlanService struct{}

func (stubPlanService) ListPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	return []*dto.PlanResponse{{Id: uuid.New(), Name: "Basic", Duration: "monthly", Price: 500, Features: []string{}}}, nil
}

type stubOrderService struct{ userId uuid.UUID }

func (s *stubOrderService) ListMyOrders(ctx context.Context, userId uuid.UUID) ([]*dto.OrderResponse, error) {
	s.userId = userId
	return []*dto.OrderResponse{}, nil
}

type harness struct {
	app    *fiber.App
	subs   *stubSubscriptionService
	orders *stubOrderService
}

func newHarness() *harness {
	h := &harness{subs: &stubSubscriptionService{}, orders: &stubOrderService{}}

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	api := app.Group("/api")
	auth := serverutils.JwtMiddleware(testSecret)

	NewPlanController(stubPlanService{}).RegisterRoutes(api)
	NewSubscriptionController(h.subs).RegisterRoutes(api, auth, serverutils.AdminMiddleware)
	NewOrderController(h.orders).RegisterRoutes(api, auth)

	h.app = app
	return h
}

func token(t *testing.T, userId uuid.UUID, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (h *harness) do(t *testing.T, method, path, bearer string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestListPlansIsPublic(t *testing.T) {
	h := newHarness()

	status, env := h.do(t, "GET", "/api/plans", "", nil)
	require.Equal(t, 200, status)
	assert.True(t, env.Success)

	var plans []dto.PlanResponse
	require.NoError(t, json.Unmarshal(env.Data, &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, "Basic", plans[0].Name)
}

func TestSubscriptionRoutesRequireAuth(t *testing.T) {
	h := newHarness()

	status, env := h.do(t, "GET", "/api/subscriptions/me", "", nil)
	assert.Equal(t, 401, status)
	assert.False(t, env.Success)
}

func TestInitiatePurchase(t *testing.T) {
	h := newHarness()
	userId := uuid.New()
	planId := uuid.New()

	status, env := h.do(t, "POST", "/api/subscriptions/", token(t, userId, "user"), map[string]string{
		"planId":   planId.String(),
		"mealType": "both",
	})
	require.Equal(t, 200, status)
	assert.Equal(t, userId, h.subs.userId)

	var res dto.InitiatePurchaseResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "order_1", res.OrderId)
	assert.Equal(t, planId, res.PlanId)
}

func TestInitiatePurchaseValidation(t *testing.T) {
	h := newHarness()
	bearer := token(t, uuid.New(), "user")

	status, env := h.do(t, "POST", "/api/subscriptions/", bearer, map[string]string{"mealType": "breakfast"})
	assert.Equal(t, 400, status)
	assert.Contains(t, env.Message, "planId: required")
	assert.Contains(t, env.Message, "mealType: oneof")

	status, env = h.do(t, "POST", "/api/subscriptions/", bearer, map[string]string{"planId": "not-a-uuid"})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid request body", env.Message)
}

func TestVerifyPurchaseReturnsCreated(t *testing.T) {
	h := newHarness()
	userId := uuid.New()

	status, env := h.do(t, "POST", "/api/subscriptions/verify", token(t, userId, "user"), map[string]string{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "sig",
		"planId":              uuid.NewString(),
		"deliveryAddress":     "12 MG Road",
	})
	require.Equal(t, 201, status)
	assert.Equal(t, "Subscription activated", env.Message)
	require.NotNil(t, h.subs.purchase)
	assert.Equal(t, "pay_1", h.subs.purchase.RazorpayPaymentId)
	assert.Equal(t, "12 MG Road", h.subs.purchase.DeliveryAddress)
}

func TestVerifyPurchaseMissingSignature(t *testing.T) {
	h := newHarness()

	status, env := h.do(t, "POST", "/api/subscriptions/verify", token(t, uuid.New(), "user"), map[string]string{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"planId":              uuid.NewString(),
	})
	assert.Equal(t, 400, status)
	assert.Contains(t, env.Message, "razorpay_signature: required")
	assert.Nil(t, h.subs.purchase)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperror.InvalidSignature("Invalid payment signature"), 400},
		{apperror.NotFound("No active subscription found"), 404},
		{apperror.InvalidState("You already have an active subscription"), 409},
		{apperror.PolicyViolation("Order amount must be at least ₹1"), 422},
	}

	for _, tt := range tests {
		t.Run(apperror.Message(tt.err), func(t *testing.T) {
			h := newHarness()
			h.subs.err = tt.err

			status, env := h.do(t, "GET", "/api/subscriptions/me", token(t, uuid.New(), "user"), nil)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, apperror.Message(tt.err), env.Message)
			assert.False(t, env.Success)
		})
	}
}

func TestCancelSubscription(t *testing.T) {
	h := newHarness()
	userId := uuid.New()
	subId := uuid.New()

	status, env := h.do(t, "POST", "/api/subscriptions/cancel", token(t, userId, "user"), map[string]string{
		"subscriptionId": subId.String(),
	})
	require.Equal(t, 200, status)
	assert.Equal(t, "Subscription cancelled successfully", env.Message)
	assert.Equal(t, userId, h.subs.userId)
	assert.Equal(t, subId, h.subs.cancelled)
}

func TestAdminRoutes(t *testing.T) {
	h := newHarness()
	subId := uuid.New()

	status, _ := h.do(t, "GET", "/api/subscriptions/", token(t, uuid.New(), "user"), nil)
	assert.Equal(t, 403, status)

	status, _ = h.do(t, "GET", "/api/subscriptions/", token(t, uuid.New(), "admin"), nil)
	assert.Equal(t, 200, status)

	status, env := h.do(t, "PUT", "/api/subscriptions/"+subId.String()+"/cancel", token(t, uuid.New(), "admin"), nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "Subscription cancelled by admin", env.Message)
	assert.Equal(t, subId, h.subs.cancelled)

	status, _ = h.do(t, "PUT", "/api/subscriptions/bogus/cancel", token(t, uuid.New(), "admin"), nil)
	assert.Equal(t, 400, status)
}

func TestListMyOrders(t *testing.T) {
	h := newHarness()
	userId := uuid.New()

	status, env := h.do(t, "GET", "/api/orders/myorders", token(t, userId, "user"), nil)
	require.Equal(t, 200, status)
	assert.True(t, env.Success)
	assert.Equal(t, userId, h.orders.userId)
}
