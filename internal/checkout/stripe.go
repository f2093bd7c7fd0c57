// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cartly/cartly/internal/platform/apperr"
)

// # Stripe Gateway

const (
	stripeAPIBase        = "https://api.stripe.com"
	stripeRequestTimeout = 10 * time.Second
)

// StripeGateway implements [Gateway] against the Stripe Checkout API.
//
// Requests use Stripe's form-encoded wire format with bracketed keys
// (line_items[0][quantity]=2); responses are JSON.
type StripeGateway struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewStripeGateway constructs a gateway client with the given secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{
		secretKey:  secretKey,
		baseURL:    stripeAPIBase,
		httpClient: &http.Client{Timeout: stripeRequestTimeout},
	}
}

// WithBaseURL points the client at a different API host. Test hook.
func (gateway *StripeGateway) WithBaseURL(baseURL string) *StripeGateway {
	gateway.baseURL = strings.TrimRight(baseURL, "/")
	return gateway
}

// # Wire Types

// stripeSession mirrors the subset of Stripe's checkout.session object we read.
type stripeSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

// stripeCoupon mirrors the subset of Stripe's coupon object we read.
type stripeCoupon struct {
	ID string `json:"id"`
}

// stripeErrorEnvelope mirrors Stripe's error response shape.
type stripeErrorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

/*
CreateSession opens a hosted Stripe Checkout session.

Description: Line items are sent in USD with unit amounts in cents. The
session mode is "payment" (one-shot purchase, no subscription).

Parameters:
  - context: context.Context
  - params: SessionParams

Returns:
  - *GatewaySession: Created session with its redirect URL
  - error: GATEWAY_ERROR on connectivity or rejection
*/
func (gateway *StripeGateway) CreateSession(context context.Context, params SessionParams) (*GatewaySession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("payment_method_types[0]", "card")

	for index, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", index)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmountCents, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.Image != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.Image)
		}
	}

	if params.DiscountCouponID != "" {
		form.Set("discounts[0][coupon]", params.DiscountCouponID)
	}

	for key, value := range params.Metadata {
		form.Set("metadata["+key+"]", value)
	}

	var session stripeSession
	if err := gateway.call(context, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}

	return sessionFromWire(&session), nil
}

/*
RetrieveSession fetches the current state of a Stripe Checkout session.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *GatewaySession: Session with its payment status and final total
  - error: NotFound for an unknown session ID, GATEWAY_ERROR otherwise
*/
func (gateway *StripeGateway) RetrieveSession(context context.Context, sessionID string) (*GatewaySession, error) {
	var session stripeSession
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := gateway.call(context, http.MethodGet, path, nil, &session); err != nil {
		return nil, err
	}

	return sessionFromWire(&session), nil
}

/*
CreateDiscount registers a single-use percentage coupon with Stripe.

Parameters:
  - context: context.Context
  - percentOff: int

Returns:
  - string: Stripe coupon ID
  - error: GATEWAY_ERROR on connectivity or rejection
*/
func (gateway *StripeGateway) CreateDiscount(context context.Context, percentOff int) (string, error) {
	form := url.Values{}
	form.Set("percent_off", strconv.Itoa(percentOff))
	form.Set("duration", "once")

	var coupon stripeCoupon
	if err := gateway.call(context, http.MethodPost, "/v1/coupons", form, &coupon); err != nil {
		return "", err
	}

	return coupon.ID, nil
}

// # Transport

// call executes one Stripe API request and decodes the JSON response.
func (gateway *StripeGateway) call(context context.Context, method, path string, form url.Values, target any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	request, err := http.NewRequestWithContext(context, method, gateway.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("stripe_gateway_request_build_failed: %w", err)
	}

	request.Header.Set("Authorization", "Bearer "+gateway.secretKey)
	if form != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	response, err := gateway.httpClient.Do(request)
	if err != nil {
		return apperr.Gateway(fmt.Errorf("stripe_gateway_unreachable: %w", err))
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return apperr.Gateway(fmt.Errorf("stripe_gateway_read_failed: %w", err))
	}

	if response.StatusCode == http.StatusNotFound {
		// Stripe has no record of the resource (typically a bogus session ID);
		// this is a caller mistake, not a provider outage.
		return apperr.NotFound("Checkout session not found")
	}

	if response.StatusCode >= 400 {
		var envelope stripeErrorEnvelope
		_ = json.Unmarshal(payload, &envelope)
		return apperr.Gateway(fmt.Errorf("stripe_gateway_rejected: status=%d type=%s code=%s message=%q",
			response.StatusCode, envelope.Error.Type, envelope.Error.Code, envelope.Error.Message))
	}

	if err := json.Unmarshal(payload, target); err != nil {
		return apperr.Gateway(fmt.Errorf("stripe_gateway_decode_failed: %w", err))
	}

	return nil
}

// sessionFromWire converts the wire representation to the domain type.
func sessionFromWire(session *stripeSession) *GatewaySession {
	metadata := session.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &GatewaySession{
		ID:            session.ID,
		URL:           session.URL,
		PaymentStatus: session.PaymentStatus,
		AmountTotal:   session.AmountTotal,
		Metadata:      metadata,
	}
}
