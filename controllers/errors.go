package controllers

import (
	"errors"
	"net/http"

	"checkout-service/services"

	"github.com/gin-gonic/gin"
)

// statusFor maps a checkout error kind onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrItemUnavailable):
		return http.StatusConflict
	case errors.Is(err, services.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrPaymentGateway), errors.Is(err, services.ErrPaymentAmbiguous):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
