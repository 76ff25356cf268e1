package services

import "errors"

// Checkout error kinds. Every failure the core can produce wraps exactly one
// of these sentinels, so callers can branch with errors.Is while messages
// carry the specifics (offending item, charge id).
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrItemUnavailable = errors.New("item unavailable")

	// ErrPaymentDeclined is a definitive processor rejection of the card.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrPaymentGateway is a transient or protocol-level gateway failure where
	// the charge definitely did not happen.
	ErrPaymentGateway = errors.New("payment gateway error")
	// ErrPaymentAmbiguous means the charge outcome is unknown (timeout or
	// cancellation mid-call). It must never be retried automatically.
	ErrPaymentAmbiguous = errors.New("payment outcome unknown")

	ErrPersistence = errors.New("persistence error")
)
