// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package checkout

import "context"

// # Payment Gateway Contract

// GatewaySession is the gateway's view of a hosted checkout session.
type GatewaySession struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   int64 // cents, after any discount
	Metadata      map[string]string
}

// GatewayLineItem is one purchasable line sent to the gateway.
type GatewayLineItem struct {
	Name            string
	Image           string
	UnitAmountCents int64
	Quantity        int
}

// SessionParams describes the hosted checkout session to create.
type SessionParams struct {
	LineItems        []GatewayLineItem
	DiscountCouponID string // gateway-side coupon ID, empty for none
	SuccessURL       string
	CancelURL        string
	Metadata         map[string]string
}

// Gateway abstracts the payment provider behind the checkout pipeline.
//
// The concrete implementation talks to Stripe; tests substitute a fake.
// All failures surface as apperr GATEWAY_ERROR values.
type Gateway interface {

	/*
		CreateSession opens a hosted checkout session.

		Parameters:
		  - context: context.Context
		  - params: SessionParams

		Returns:
		  - *GatewaySession: Created session with its redirect URL
		  - error: Gateway connectivity or rejection failures
	*/
	CreateSession(context context.Context, params SessionParams) (*GatewaySession, error)

	/*
		RetrieveSession fetches the current state of a checkout session.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - *GatewaySession: Session with its payment status and final total
		  - error: Gateway connectivity or lookup failures
	*/
	RetrieveSession(context context.Context, sessionID string) (*GatewaySession, error)

	/*
		CreateDiscount registers a one-shot percentage discount with the
		gateway and returns its gateway-side coupon ID.

		Parameters:
		  - context: context.Context
		  - percentOff: int

		Returns:
		  - string: Gateway coupon ID for use in [SessionParams]
		  - error: Gateway connectivity or rejection failures
	*/
	CreateDiscount(context context.Context, percentOff int) (string, error)
}
