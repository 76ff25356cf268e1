package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout-service/models"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/charge"
)

const chargeDescription = "Handmade item purchased from WhatWoodYouWish.com."

// ChargeRequest carries everything the gateway needs to capture funds.
type ChargeRequest struct {
	Amount      int    // minor currency units, server-computed
	Currency    string // e.g. "USD"
	SourceToken string // opaque single-use payment source token
	Metadata    map[string]string
}

// PaymentGateway wraps the remote charge-creation call. Implementations must
// classify failures into the checkout error kinds; callers never retry.
type PaymentGateway interface {
	Charge(ctx context.Context, req *ChargeRequest) (*models.ChargeResult, error)
}

// StripeGateway implements PaymentGateway using the Stripe Charges API.
type StripeGateway struct {
	timeout time.Duration
}

func NewStripeGateway(secretKey string, timeout time.Duration) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{timeout: timeout}
}

func (g *StripeGateway) Charge(ctx context.Context, req *ChargeRequest) (*models.ChargeResult, error) {
	chargeCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.ChargeParams{
		Params:      stripe.Params{Context: chargeCtx},
		Amount:      stripe.Int64(int64(req.Amount)),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(chargeDescription),
	}
	if err := params.SetSource(req.SourceToken); err != nil {
		return nil, fmt.Errorf("%w: invalid source token: %v", ErrPaymentGateway, err)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	ch, err := charge.New(params)
	if err != nil {
		return nil, classifyChargeError(chargeCtx, err)
	}

	return &models.ChargeResult{
		ChargeID:      ch.ID,
		AmountCharged: int(ch.Amount),
		Currency:      string(ch.Currency),
		Status:        string(ch.Status),
	}, nil
}

// classifyChargeError maps a Stripe client error onto the checkout taxonomy.
// A deadline or cancellation means the charge may or may not have landed, so
// it is reported as ambiguous rather than as a plain gateway failure.
func classifyChargeError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ErrPaymentAmbiguous, err)
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeCard {
			return fmt.Errorf("%w: %s", ErrPaymentDeclined, stripeErr.Msg)
		}
		return fmt.Errorf("%w: %s", ErrPaymentGateway, stripeErr.Msg)
	}

	return fmt.Errorf("%w: %v", ErrPaymentGateway, err)
}
