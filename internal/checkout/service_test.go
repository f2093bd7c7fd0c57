// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package checkout_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartly/cartly/internal/cart"
	"github.com/cartly/cartly/internal/checkout"
	"github.com/cartly/cartly/internal/coupon"
	"github.com/cartly/cartly/internal/platform/apperr"
)

// # Fakes

type fakeCartClearer struct {
	clearCalls int
}

func (clearer *fakeCartClearer) Clear(_ context.Context, _, _ string) ([]cart.Line, error) {
	clearer.clearCalls++
	return nil, nil
}

type fakeCouponEngine struct {
	validation    *coupon.Validation
	validateErr   error
	giftsIssued   int
	validateCalls int
}

func (engine *fakeCouponEngine) Validate(_ context.Context, _, _ string) (*coupon.Validation, error) {
	engine.validateCalls++
	if engine.validateErr != nil {
		return nil, engine.validateErr
	}
	return engine.validation, nil
}

func (engine *fakeCouponEngine) IssueGift(_ context.Context, userID string) (*coupon.Coupon, error) {
	engine.giftsIssued++
	return &coupon.Coupon{UserID: userID, Code: "GIFTABCDEF"}, nil
}

type fakeOrderRepository struct {
	orders          map[string]*checkout.Order // keyed by session ID
	consumedCoupons []string
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[string]*checkout.Order)}
}

func (repository *fakeOrderRepository) CreateWithCouponConsumption(_ context.Context, order *checkout.Order, couponCode string) error {
	if _, exists := repository.orders[order.CheckoutSessionID]; exists {
		return apperr.Conflict("An order for this checkout session already exists")
	}
	repository.orders[order.CheckoutSessionID] = order
	if couponCode != "" {
		repository.consumedCoupons = append(repository.consumedCoupons, couponCode)
	}
	return nil
}

func (repository *fakeOrderRepository) FindBySessionID(_ context.Context, sessionID string) (*checkout.Order, error) {
	if order, ok := repository.orders[sessionID]; ok {
		return order, nil
	}
	return nil, apperr.NotFound("Order not found for this checkout session")
}

type fakeGateway struct {
	sessions        map[string]*checkout.GatewaySession
	createdSessions []checkout.SessionParams
	discounts       []int
	failCreate      error
	sequence        int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]*checkout.GatewaySession)}
}

func (gateway *fakeGateway) CreateSession(_ context.Context, params checkout.SessionParams) (*checkout.GatewaySession, error) {
	if gateway.failCreate != nil {
		return nil, gateway.failCreate
	}
	gateway.createdSessions = append(gateway.createdSessions, params)

	var total int64
	for _, item := range params.LineItems {
		total += item.UnitAmountCents * int64(item.Quantity)
	}

	gateway.sequence++
	session := &checkout.GatewaySession{
		ID:            fmt.Sprintf("cs_test_%03d", gateway.sequence),
		URL:           "https://checkout.stripe.com/pay/cs_test",
		PaymentStatus: "unpaid",
		AmountTotal:   total,
		Metadata:      params.Metadata,
	}
	gateway.sessions[session.ID] = session
	return session, nil
}

func (gateway *fakeGateway) RetrieveSession(_ context.Context, sessionID string) (*checkout.GatewaySession, error) {
	if session, ok := gateway.sessions[sessionID]; ok {
		return session, nil
	}
	return nil, apperr.NotFound("Checkout session not found")
}

func (gateway *fakeGateway) CreateDiscount(_ context.Context, percentOff int) (string, error) {
	gateway.discounts = append(gateway.discounts, percentOff)
	return fmt.Sprintf("coupon_%d_off", percentOff), nil
}

// # Test Harness

const testUserID = "0199e8f0-aaaa-7000-8000-000000000001"

func lampItem(quantity int) checkout.LineItem {
	return checkout.LineItem{
		ProductID:  "0199e8f0-bbbb-7000-8000-000000000002",
		Name:       "Desk Lamp",
		PriceCents: 1999,
		Image:      "https://img.cartly.sh/lamp.png",
		Quantity:   quantity,
	}
}

func newPipeline() (*checkout.Service, *fakeCartClearer, *fakeCouponEngine, *fakeOrderRepository, *fakeGateway) {
	cartClearer := &fakeCartClearer{}
	couponEngine := &fakeCouponEngine{}
	orderRepo := newFakeOrderRepository()
	gateway := newFakeGateway()
	service := checkout.NewService(cartClearer, couponEngine, orderRepo, gateway, "https://shop.cartly.sh")
	return service, cartClearer, couponEngine, orderRepo, gateway
}

// # Session Creation

func TestService_CreateSession_EmptyCart(t *testing.T) {
	service, _, _, _, _ := newPipeline()

	_, err := service.CreateSession(context.Background(), testUserID, nil, "")

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestService_CreateSession_RejectsBadLines(t *testing.T) {
	service, _, _, _, gateway := newPipeline()

	_, err := service.CreateSession(context.Background(), testUserID, []checkout.LineItem{lampItem(0)}, "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	negative := lampItem(1)
	negative.PriceCents = -100
	_, err = service.CreateSession(context.Background(), testUserID, []checkout.LineItem{negative}, "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	assert.Empty(t, gateway.createdSessions)
}

func TestService_CreateSession_TotalInCents(t *testing.T) {
	service, _, couponEngine, _, gateway := newPipeline()

	result, err := service.CreateSession(context.Background(), testUserID, []checkout.LineItem{lampItem(2)}, "")

	require.NoError(t, err)
	assert.Equal(t, int64(3998), result.TotalCents)
	assert.NotEmpty(t, result.SessionID)
	assert.NotEmpty(t, result.URL)

	// Metadata carries the user and a price snapshot of every line
	require.Len(t, gateway.createdSessions, 1)
	metadata := gateway.createdSessions[0].Metadata
	assert.Equal(t, testUserID, metadata["user_id"])

	var snapshots []struct {
		ProductID      string `json:"id"`
		Quantity       int    `json:"quantity"`
		UnitPriceCents int64  `json:"price_cents"`
	}
	require.NoError(t, json.Unmarshal([]byte(metadata["products"]), &snapshots))
	require.Len(t, snapshots, 1)
	assert.Equal(t, 2, snapshots[0].Quantity)
	assert.Equal(t, int64(1999), snapshots[0].UnitPriceCents)

	// 3998 cents is above the loyalty threshold, so no gift
	assert.Zero(t, couponEngine.giftsIssued)

	// No coupon presented means no gateway discount and no validation
	assert.Empty(t, gateway.discounts)
	assert.Zero(t, couponEngine.validateCalls)
}

func TestService_CreateSession_GiftForSmallOrder(t *testing.T) {
	service, _, couponEngine, _, _ := newPipeline()

	item := lampItem(1)
	item.PriceCents = 1499
	result, err := service.CreateSession(context.Background(), testUserID, []checkout.LineItem{item}, "")

	require.NoError(t, err)
	assert.Equal(t, int64(1499), result.TotalCents)
	assert.Equal(t, 1, couponEngine.giftsIssued)
}

func TestService_CreateSession_GiftThresholdBoundary(t *testing.T) {
	service, _, couponEngine, _, _ := newPipeline()

	// Exactly at the threshold still earns the gift
	item := lampItem(1)
	item.PriceCents = 2000
	_, err := service.CreateSession(context.Background(), testUserID, []checkout.LineItem{item}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, couponEngine.giftsIssued)

	// One cent over does not
	item.PriceCents = 2001
	_, err = service.CreateSession(context.Background(), testUserID, []checkout.LineItem{item}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, couponEngine.giftsIssued)
}

func TestService_CreateSession_WithCoupon(t *testing.T) {
	service, _, couponEngine, _, gateway := newPipeline()
	couponEngine.validation = &coupon.Validation{Code: "GIFTX7K2QP", DiscountPercentage: 10}

	result, err := service.CreateSession(context.Background(), testUserID, []checkout.LineItem{lampItem(2)}, "GIFTX7K2QP")

	require.NoError(t, err)

	// 3998 minus 10% (400 cents, rounded half-up) = 3598
	assert.Equal(t, int64(3598), result.TotalCents)
	assert.Equal(t, 1, couponEngine.validateCalls)
	assert.Equal(t, []int{10}, gateway.discounts)
	assert.Equal(t, "coupon_10_off", gateway.createdSessions[0].DiscountCouponID)
	assert.Equal(t, "GIFTX7K2QP", gateway.createdSessions[0].Metadata["coupon_code"])
}

func TestService_CreateSession_ExpiredCoupon(t *testing.T) {
	service, _, couponEngine, _, gateway := newPipeline()
	couponEngine.validateErr = apperr.CouponExpired()

	_, err := service.CreateSession(context.Background(), testUserID, []checkout.LineItem{lampItem(2)}, "OLD10")

	require.Error(t, err)
	assert.Equal(t, "COUPON_EXPIRED", apperr.As(err).Code)

	// No gateway session may exist for a rejected checkout
	assert.Empty(t, gateway.createdSessions)
}

func TestService_CreateSession_GatewayFailure(t *testing.T) {
	service, _, _, _, gateway := newPipeline()
	gateway.failCreate = apperr.Gateway(errors.New("stripe down"))

	_, err := service.CreateSession(context.Background(), testUserID, []checkout.LineItem{lampItem(2)}, "")

	require.Error(t, err)
	assert.Equal(t, "GATEWAY_ERROR", apperr.As(err).Code)
}

// # Completion

func paidSession(t *testing.T, service *checkout.Service, gateway *fakeGateway, couponCode string) string {
	t.Helper()

	result, err := service.CreateSession(context.Background(), testUserID, []checkout.LineItem{lampItem(2)}, couponCode)
	require.NoError(t, err)

	gateway.sessions[result.SessionID].PaymentStatus = "paid"
	return result.SessionID
}

func TestService_Complete(t *testing.T) {
	service, cartClearer, _, orderRepo, gateway := newPipeline()
	sessionID := paidSession(t, service, gateway, "")

	order, err := service.Complete(context.Background(), sessionID)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, testUserID, order.UserID)
	assert.Equal(t, int64(3998), order.TotalCents)
	assert.Equal(t, sessionID, order.CheckoutSessionID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(1999), order.Items[0].UnitPriceCents)

	// The cart is emptied once the order is durable
	assert.Equal(t, 1, cartClearer.clearCalls)
	assert.Len(t, orderRepo.orders, 1)
}

func TestService_Complete_ConsumesCoupon(t *testing.T) {
	service, _, couponEngine, orderRepo, gateway := newPipeline()
	couponEngine.validation = &coupon.Validation{Code: "GIFTX7K2QP", DiscountPercentage: 10}
	sessionID := paidSession(t, service, gateway, "GIFTX7K2QP")

	_, err := service.Complete(context.Background(), sessionID)

	require.NoError(t, err)
	assert.Equal(t, []string{"GIFTX7K2QP"}, orderRepo.consumedCoupons)
}

func TestService_Complete_UnpaidIsNoOp(t *testing.T) {
	service, cartClearer, _, orderRepo, gateway := newPipeline()

	result, err := service.CreateSession(context.Background(), testUserID, []checkout.LineItem{lampItem(2)}, "")
	require.NoError(t, err)
	require.Equal(t, "unpaid", gateway.sessions[result.SessionID].PaymentStatus)

	// An unpaid session produces neither an order nor an error
	order, err := service.Complete(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Empty(t, orderRepo.orders)
	assert.Zero(t, cartClearer.clearCalls)
}

func TestService_Complete_Idempotent(t *testing.T) {
	service, _, _, orderRepo, gateway := newPipeline()
	sessionID := paidSession(t, service, gateway, "")

	first, err := service.Complete(context.Background(), sessionID)
	require.NoError(t, err)

	// Replaying the success callback returns the same order, not a second one
	second, err := service.Complete(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, orderRepo.orders, 1)
}

func TestService_Complete_UnknownSession(t *testing.T) {
	service, _, _, _, _ := newPipeline()

	_, err := service.Complete(context.Background(), "cs_test_missing")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
