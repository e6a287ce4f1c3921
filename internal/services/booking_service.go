package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/pkg/validator"
)

// BookingService implements the booking lifecycle: creation against the
// seat ledger, self-service cancellation, and the read-triggered expiry
// sweep that runs whenever a user's bookings are listed.
type BookingService struct {
	bookings BookingStore
	trips    TripStore
	phones   *validator.PhoneValidator
	logger   *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(bookings BookingStore, trips TripStore, phones *validator.PhoneValidator, logger *logrus.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		trips:    trips,
		phones:   phones,
		logger:   logger,
	}
}

// Create validates the request and commits the seat reservation. The
// bookerID is nil for guest bookings. Trip price, journey date and
// departure are denormalized onto the booking so the ticket survives
// later trip edits.
func (s *BookingService) Create(req *models.CreateBookingRequest, bookerID *uuid.UUID, deviceInfo *string) (*models.Booking, error) {
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, models.NewValidationError("trip_id", "invalid trip id")
	}

	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != models.TripStatusActive {
		return nil, models.NewValidationError("trip_id", "trip is not open for booking")
	}

	if departure, err := ParseDeparture(trip.JourneyDate, trip.Departure); err == nil {
		if departure.Before(time.Now()) {
			return nil, models.NewValidationError("trip_id", "trip has already departed")
		}
	}

	if err := req.Validate(trip.Seats); err != nil {
		return nil, err
	}
	phone, err := s.phones.Validate(req.PhoneNumber)
	if err != nil {
		return nil, models.NewValidationError("phone_number", err.Error())
	}
	if trip.IsSoldOut() {
		return nil, models.ErrTripFull
	}

	status := models.BookingStatusFeeDue
	if req.PayAtCounter {
		status = models.BookingStatusCashPending
	}

	booking := &models.Booking{
		TripID:        trip.ID,
		BookerID:      bookerID,
		Name:          strings.TrimSpace(req.Name),
		IDCardNo:      strings.TrimSpace(req.IDCardNo),
		PhoneNumber:   phone,
		PayerEmail:    strings.TrimSpace(req.PayerEmail),
		Seat:          strings.TrimSpace(req.Seat),
		Status:        status,
		TicketNumber:  newTicketNumber(),
		Price:         trip.Price,
		JourneyDate:   trip.JourneyDate,
		DepartureTime: trip.Departure,
		DeviceInfo:    deviceInfo,
	}

	if err := s.bookings.ReserveSeat(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"trip_id":    trip.ID,
		"seat":       booking.Seat,
		"ticket":     booking.TicketNumber,
	}).Info("Booking created")

	return booking, nil
}

// TakenSeats returns the seat labels currently held on a trip
func (s *BookingService) TakenSeats(tripID uuid.UUID) ([]string, error) {
	return s.bookings.TakenSeats(tripID)
}

// Cancel releases a booking's seat. Account bookings may only be
// cancelled by their owner; guest bookings are matched on ticket number
// plus phone number. Cancelling an already-cancelled booking succeeds
// without touching the ledger.
func (s *BookingService) Cancel(bookingID uuid.UUID, userID *uuid.UUID, guest *models.CancelBookingRequest) error {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return err
	}

	if booking.BookerID != nil {
		if userID == nil || *userID != *booking.BookerID {
			return models.ErrForbidden
		}
	} else {
		if guest == nil ||
			guest.TicketNumber != booking.TicketNumber ||
			s.phones.Sanitize(guest.PhoneNumber) != booking.PhoneNumber {
			return models.ErrForbidden
		}
	}

	if booking.IsCancelled() {
		return nil
	}
	if !booking.CanBeCancelled() {
		return models.ErrConflict
	}

	if err := s.bookings.ReleaseSeat(booking.ID); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"trip_id":    booking.TripID,
		"seat":       booking.Seat,
	}).Info("Booking cancelled")

	return nil
}

// LookupTicket resolves a booking by its ticket number for guests. The
// booking's phone number acts as the shared secret, matched in sanitized
// form. A wrong phone is indistinguishable from a wrong ticket here so
// ticket numbers cannot be probed.
func (s *BookingService) LookupTicket(ticketNumber, phoneNumber string) (*models.Booking, error) {
	ticket := strings.ToUpper(strings.TrimSpace(ticketNumber))
	if ticket == "" {
		return nil, models.NewValidationError("ticket_number", "ticket number is required")
	}

	booking, err := s.bookings.GetByTicketNumber(ticket)
	if err != nil {
		return nil, err
	}
	if s.phones.Sanitize(phoneNumber) != booking.PhoneNumber {
		return nil, models.ErrNotFound
	}
	return booking, nil
}

// ListForUser returns the user's bookings for the current year, running
// the expiry sweep over them first. Each expired booking is released
// independently; a failed release is logged and skipped so one bad row
// never blocks the listing.
func (s *BookingService) ListForUser(userID uuid.UUID, now time.Time) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByUserForYear(userID, now.Year())
	if err != nil {
		return nil, err
	}

	released := make(map[uuid.UUID]bool)
	for _, id := range ExpiredBookings(now, bookings) {
		if err := s.bookings.ReleaseSeat(id); err != nil {
			s.logger.WithError(err).WithField("booking_id", id).
				Warn("Failed to release expired booking, will retry on next listing")
			continue
		}
		released[id] = true
		s.logger.WithField("booking_id", id).Info("Expired booking released")
	}

	// Reflect the releases in the returned list without a second read.
	for i := range bookings {
		if released[bookings[i].ID] {
			bookings[i].Status = models.BookingStatusCancelled
		}
	}
	return bookings, nil
}

// newTicketNumber builds the customer-facing ticket identifier
func newTicketNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TKT-" + strings.ToUpper(raw[:10])
}
