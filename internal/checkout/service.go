// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cartly/cartly/internal/cart"
	"github.com/cartly/cartly/internal/coupon"
	"github.com/cartly/cartly/internal/platform/apperr"
	"github.com/cartly/cartly/internal/platform/ctxutil"
	"github.com/cartly/cartly/pkg/slice"
	"github.com/cartly/cartly/pkg/uuid"
)

// # Contracts & Types

// CartClearer is the slice of the cart service the pipeline depends on.
// The cart is emptied after an order materializes; the pipeline never reads
// it, since the client supplies the lines it is paying for.
type CartClearer interface {
	Clear(context context.Context, userID, productID string) ([]cart.Line, error)
}

// CouponEngine is the slice of the coupon service the pipeline depends on.
type CouponEngine interface {
	Validate(context context.Context, userID, code string) (*coupon.Validation, error)
	IssueGift(context context.Context, userID string) (*coupon.Coupon, error)
}

// Service implements the checkout-to-order pipeline.
//
// # Review Process
//
// This service moves money. Any change to total computation, coupon
// application, or the completion transaction must be reviewed by two owners.
type Service struct {
	cartClearer     CartClearer
	couponEngine    CouponEngine
	orderRepository OrderRepository
	gateway         Gateway
	resultBaseURL   string
}

// NewService constructs a new [Service] with necessary dependencies.
//
// resultBaseURL is where the gateway redirects the shopper after payment,
// typically the storefront origin.
func NewService(
	cartClearer CartClearer,
	couponEngine CouponEngine,
	orderRepo OrderRepository,
	gateway Gateway,
	resultBaseURL string,
) *Service {
	return &Service{
		cartClearer:     cartClearer,
		couponEngine:    couponEngine,
		orderRepository: orderRepo,
		gateway:         gateway,
		resultBaseURL:   resultBaseURL,
	}
}

// # Session Creation

// LineItem is one priced cart line the client is checking out.
//
// Prices are carried in cents. The values are snapshotted into the gateway
// session; the live catalog is not re-read at completion time.
type LineItem struct {
	ProductID  string
	Name       string
	PriceCents int64
	Image      string
	Quantity   int
}

// SessionResult is returned to the client after a session is opened.
type SessionResult struct {
	SessionID  string `json:"id"`
	URL        string `json:"url"`
	TotalCents int64  `json:"total_cents"`
}

// itemSnapshot is the per-line price snapshot embedded in session metadata.
// The completion step rebuilds order items from it, never from the live cart.
type itemSnapshot struct {
	ProductID      string `json:"id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"price_cents"`
}

// Metadata keys carried on the gateway session.
const (
	metadataUserID     = "user_id"
	metadataCouponCode = "coupon_code"
	metadataProducts   = "products"
)

/*
CreateSession turns the client's priced cart lines into a hosted payment session.

Description: Computes the order total in cents, applies the coupon if one is
presented (re-validated here regardless of any earlier /validate call),
snapshots the priced lines into session metadata, and opens the gateway
session. Small orders, those whose discounted total stays at or below the
gift threshold, earn a gift coupon for the next purchase.

Parameters:
  - context: context.Context
  - userID: string
  - items: []LineItem
  - couponCode: string (empty for none)

Returns:
  - *SessionResult: Session ID, redirect URL, and the discounted total
  - err: ValidationError (no items or malformed lines), coupon errors, GATEWAY_ERROR, or storage failures
*/
func (service *Service) CreateSession(context context.Context, userID string, items []LineItem, couponCode string) (*SessionResult, error) {

	// ── 1. Validate the lines ─────────────────────────────────────────────
	if len(items) == 0 {
		return nil, apperr.ValidationError("Cart is empty")
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, apperr.ValidationError("Line quantity must be at least 1")
		}
		if item.PriceCents < 0 {
			return nil, apperr.ValidationError("Line price must not be negative")
		}
	}

	// ── 2. Total in cents ─────────────────────────────────────────────────
	totalCents := slice.Reduce(items, int64(0), func(sum int64, item LineItem) int64 {
		return sum + item.PriceCents*int64(item.Quantity)
	})

	// ── 3. Coupon application ─────────────────────────────────────────────
	// The code is re-validated here; a coupon that expired between /validate
	// and checkout is rejected, never silently ignored.
	discountPercentage := 0
	if couponCode != "" {
		validation, err := service.couponEngine.Validate(context, userID, couponCode)
		if err != nil {
			return nil, err
		}
		discountPercentage = validation.DiscountPercentage
	}

	discountedCents := totalCents
	if discountPercentage > 0 {
		// Round half-up on the discount amount
		discountCents := (totalCents*int64(discountPercentage) + 50) / 100
		discountedCents = totalCents - discountCents
	}

	// ── 4. Gateway discount registration ──────────────────────────────────
	gatewayCouponID := ""
	if discountPercentage > 0 {
		var err error
		gatewayCouponID, err = service.gateway.CreateDiscount(context, discountPercentage)
		if err != nil {
			return nil, err
		}
	}

	// ── 5. Price snapshot into metadata ───────────────────────────────────
	snapshots := slice.Map(items, func(item LineItem) itemSnapshot {
		return itemSnapshot{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.PriceCents,
		}
	})
	gatewayItems := slice.Map(items, func(item LineItem) GatewayLineItem {
		return GatewayLineItem{
			Name:            item.Name,
			Image:           item.Image,
			UnitAmountCents: item.PriceCents,
			Quantity:        item.Quantity,
		}
	})

	encodedSnapshots, err := json.Marshal(snapshots)
	if err != nil {
		return nil, fmt.Errorf("checkout_service_snapshot_encode_failed: %w", err)
	}

	// ── 6. Open the gateway session ───────────────────────────────────────
	session, err := service.gateway.CreateSession(context, SessionParams{
		LineItems:        gatewayItems,
		DiscountCouponID: gatewayCouponID,
		SuccessURL:       service.resultBaseURL + "/purchase-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:        service.resultBaseURL + "/purchase-cancel",
		Metadata: map[string]string{
			metadataUserID:     userID,
			metadataCouponCode: couponCode,
			metadataProducts:   string(encodedSnapshots),
		},
	})
	if err != nil {
		return nil, err
	}

	// ── 7. Gift coupon for small orders ───────────────────────────────────
	// A gift failure must not lose the payment session the shopper is
	// already being redirected to.
	if discountedCents <= GiftThresholdCents {
		if _, err := service.couponEngine.IssueGift(context, userID); err != nil {
			ctxutil.GetLogger(context).Error("gift coupon issuance failed", "user_id", userID, "error", err)
		}
	}

	return &SessionResult{
		SessionID:  session.ID,
		URL:        session.URL,
		TotalCents: discountedCents,
	}, nil
}

// # Completion

/*
Complete converts a paid gateway session into an order.

Description: Re-reads the session from the gateway (the client's word is
never trusted) and materializes the order from the metadata price snapshots.
An unpaid session is a no-op, not an error: no order, nil result. Order
insertion and coupon consumption commit in one transaction; a replayed
session ID returns the already-created order instead of a duplicate.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Order: The created (or previously created) order; nil when the session is unpaid
  - err: NotFound (unknown session), GATEWAY_ERROR, or storage failures
*/
func (service *Service) Complete(context context.Context, sessionID string) (*Order, error) {

	// ── 1. Re-read the session from the gateway ───────────────────────────
	session, err := service.gateway.RetrieveSession(context, sessionID)
	if err != nil {
		return nil, err
	}

	if session.PaymentStatus != paymentStatusPaid {
		return nil, nil
	}

	// ── 2. Rebuild the order from metadata snapshots ──────────────────────
	userID := session.Metadata[metadataUserID]
	if userID == "" {
		return nil, apperr.ValidationError("Checkout session carries no user")
	}

	var snapshots []itemSnapshot
	if raw := session.Metadata[metadataProducts]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &snapshots); err != nil {
			return nil, fmt.Errorf("checkout_service_snapshot_decode_failed: %w", err)
		}
	}

	items := slice.Map(snapshots, func(snapshot itemSnapshot) OrderItem {
		return OrderItem{
			ProductID:      snapshot.ProductID,
			Quantity:       snapshot.Quantity,
			UnitPriceCents: snapshot.UnitPriceCents,
		}
	})

	order := &Order{
		ID:                uuid.New(),
		UserID:            userID,
		TotalCents:        session.AmountTotal,
		CheckoutSessionID: session.ID,
		Items:             items,
	}

	// ── 3. Atomic commit: order + coupon consumption ──────────────────────
	couponCode := session.Metadata[metadataCouponCode]
	if err := service.orderRepository.CreateWithCouponConsumption(context, order, couponCode); err != nil {

		// Replay of an already-completed session: return the existing order.
		if ae := apperr.As(err); ae != nil && ae.Code == "CONFLICT" {
			return service.orderRepository.FindBySessionID(context, session.ID)
		}
		return nil, err
	}

	// ── 4. Empty the cart ─────────────────────────────────────────────────
	// The purchase is already durable; a cart-clear failure is logged, not
	// surfaced.
	if _, err := service.cartClearer.Clear(context, userID, ""); err != nil {
		ctxutil.GetLogger(context).Error("post-checkout cart clear failed", "user_id", userID, "error", err)
	}

	return order, nil
}
