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
	"github.com/swiftbus/booking-backend/internal/utils"
)

// BookingHandler handles booking lifecycle operations
type BookingHandler struct {
	bookingSvc *services.BookingService
	logger     *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingSvc *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookingSvc: bookingSvc,
		logger:     logger,
	}
}

// CreateBooking creates a booking for the selected trip and seat. The
// route uses optional auth: with a valid bearer token the booking is
// tied to the account, without one it is a guest booking cancelable via
// ticket number and phone.
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, models.NewValidationError("", "invalid request body: "+err.Error()))
		return
	}

	var bookerID *uuid.UUID
	if userCtx, ok := middleware.GetUserContext(c); ok {
		id := userCtx.UserID
		bookerID = &id
	}

	deviceInfo := utils.DeviceSummary(c.GetHeader("User-Agent"))

	booking, err := h.bookingSvc.Create(&req, bookerID, deviceInfo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, "Booking created", booking)
}

// CancelBooking cancels a booking. Account bookings require the owner's
// token; guest bookings authenticate with ticket number plus phone in
// the body. Cancelling twice succeeds without a second seat release.
// POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
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

	// Guest credentials are optional for account bookings; ShouldBindJSON
	// on an empty body would fail, hence the manual tolerant decode.
	var guest *models.CancelBookingRequest
	var body models.CancelBookingRequest
	if err := c.ShouldBindJSON(&body); err == nil {
		guest = &body
	}

	if err := h.bookingSvc.Cancel(bookingID, userID, guest); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Booking cancelled", gin.H{"booking_id": bookingID})
}

// LookupBooking finds a guest booking by ticket number plus phone number.
// A mismatch on either field answers 404 so ticket numbers cannot be
// enumerated.
// POST /api/v1/bookings/lookup
func (h *BookingHandler) LookupBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, models.NewValidationError("", "ticket_number and phone_number are required"))
		return
	}

	booking, err := h.bookingSvc.LookupTicket(req.TicketNumber, req.PhoneNumber)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Booking retrieved", booking)
}

// ListBookings returns the authenticated user's bookings for the current
// year. Listing doubles as the expiry sweep trigger: stale unpaid
// bookings close to departure are released before the list is returned.
// GET /api/v1/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, h.logger, models.ErrUnauthorized)
		return
	}

	bookings, err := h.bookingSvc.ListForUser(userCtx.UserID, time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Bookings retrieved", bookings)
}
