package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/database"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/internal/services"
)

// TripHandler handles trip catalog operations
type TripHandler struct {
	tripRepo   *database.TripRepository
	bookingSvc *services.BookingService
	logger     *logrus.Logger
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(tripRepo *database.TripRepository, bookingSvc *services.BookingService, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		tripRepo:   tripRepo,
		bookingSvc: bookingSvc,
		logger:     logger,
	}
}

// SearchTrips returns active trips matching optional from/to/date filters
// GET /api/v1/trips
func (h *TripHandler) SearchTrips(c *gin.Context) {
	var req models.SearchTripsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, h.logger, models.NewValidationError("", "invalid search filters"))
		return
	}

	var date *time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondError(c, h.logger, models.NewValidationError("date", "date must be YYYY-MM-DD"))
			return
		}
		date = &parsed
	}

	trips, err := h.tripRepo.Search(req.From, req.To, date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Trips retrieved", trips)
}

// GetTrip returns a single trip by id
// GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, models.NewValidationError("id", "invalid trip id"))
		return
	}

	trip, err := h.tripRepo.GetByID(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Trip retrieved", trip)
}

// GetTakenSeats returns the seat labels currently held on a trip. The
// result is a point-in-time snapshot; a seat shown free here can still
// lose the race at booking time, which surfaces as a 409.
// GET /api/v1/trips/:id/seats
func (h *TripHandler) GetTakenSeats(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, models.NewValidationError("id", "invalid trip id"))
		return
	}

	seats, err := h.bookingSvc.TakenSeats(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "Taken seats retrieved", gin.H{
		"trip_id":     tripID,
		"taken_seats": seats,
	})
}
