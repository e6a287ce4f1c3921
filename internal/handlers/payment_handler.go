package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/middleware"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/internal/services"
)

// PaymentHandler handles reservation-fee settlement operations
type PaymentHandler struct {
	feeSvc *services.FeeService
	logger *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(feeSvc *services.FeeService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		feeSvc: feeSvc,
		logger: logger,
	}
}

// completePaymentRequest is the body for CompletePayment
type completePaymentRequest struct {
	PromoCode     string `json:"promo_code"`
	TransactionID string `json:"transaction_id"`
}

// ValidatePromo checks a promo code against a trip and returns the
// resulting fee quote.
// POST /api/v1/promotions/validate
func (h *PaymentHandler) ValidatePromo(c *gin.Context) {
	var req models.ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, models.NewValidationError("", "code and trip_id are required"))
		return
	}

	quote, err := h.feeSvc.ValidatePromo(req.Code, req.TripID, time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Promo code applied", quote)
}

// CompletePayment finalizes the reservation fee for a booking and
// confirms it. Safe to retry: a repeat call on a confirmed booking is a
// no-op success.
// POST /api/v1/bookings/:id/payment
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, models.NewValidationError("id", "invalid booking id"))
		return
	}

	var userID *uuid.UUID
	if userCtx, ok := middleware.GetUserContext(c); ok {
		id := userCtx.UserID
		userID = &id
	}

	var req completePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondError(c, h.logger, models.NewValidationError("", "invalid request body"))
		return
	}

	result, err := h.feeSvc.CompleteReservationFee(bookingID, userID, req.PromoCode, req.TransactionID, time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Reservation fee settled", result)
}
