package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the closed set of booking lifecycle states. Legacy
// records used free-form strings; ParseBookingStatus maps those at the
// boundary so the rest of the code only ever sees these values.
type BookingStatus string

const (
	// BookingStatusPending is a freshly created booking that has not
	// entered the fee flow yet.
	BookingStatusPending BookingStatus = "PENDING"
	// BookingStatusFeeDue awaits reservation-fee settlement.
	BookingStatusFeeDue BookingStatus = "FEE_DUE"
	// BookingStatusConfirmed has its reservation fee settled (including
	// the zero-due case).
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	// BookingStatusCashPending is the explicit pay-at-counter path.
	BookingStatusCashPending BookingStatus = "CASH_PENDING"
	// BookingStatusPaid and BookingStatusBooked are set by an external
	// admin system and are never auto-cancelled.
	BookingStatusPaid   BookingStatus = "PAID"
	BookingStatusBooked BookingStatus = "BOOKED"
	// BookingStatusCancelled is terminal.
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// ParseBookingStatus maps a stored status string, including legacy
// free-form values, onto the closed enum. Empty and "RESERVED" map to
// PENDING; anything starting with "CANCEL" (any case) maps to CANCELLED.
func ParseBookingStatus(s string) BookingStatus {
	upper := strings.ToUpper(strings.TrimSpace(s))
	switch upper {
	case "", "PENDING", "RESERVED":
		return BookingStatusPending
	case "FEE_DUE":
		return BookingStatusFeeDue
	case "CONFIRMED":
		return BookingStatusConfirmed
	case "CASH_PENDING":
		return BookingStatusCashPending
	case "PAID":
		return BookingStatusPaid
	case "BOOKED":
		return BookingStatusBooked
	}
	if strings.HasPrefix(upper, "CANCEL") {
		return BookingStatusCancelled
	}
	return BookingStatus(upper)
}

// Booking represents a passenger's claim on one seat of one trip.
// Price, journey date and departure time are copied from the trip at
// creation time so later trip edits do not affect issued tickets.
type Booking struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	TripID        uuid.UUID     `json:"trip_id" db:"trip_id"`
	BookerID      *uuid.UUID    `json:"booker_id,omitempty" db:"booker_id"` // nil for guest bookings
	Name          string        `json:"name" db:"name"`
	IDCardNo      string        `json:"id_card_no" db:"id_card_no"`
	PhoneNumber   string        `json:"phone_number" db:"phone_number"`
	PayerEmail    string        `json:"payer_email" db:"payer_email"`
	Seat          string        `json:"seat" db:"seat"`
	Status        BookingStatus `json:"status" db:"status"`
	TicketNumber  string        `json:"ticket_number" db:"ticket_number"`
	TransactionID *string       `json:"transaction_id,omitempty" db:"transaction_id"`
	Price         int           `json:"price" db:"price"`
	JourneyDate   time.Time     `json:"journey_date" db:"journey_date"`
	DepartureTime string        `json:"departure_time" db:"departure_time"`
	DeviceInfo    *string       `json:"device_info,omitempty" db:"device_info"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// IsCancelled reports whether the booking is in the terminal cancelled state
func (b *Booking) IsCancelled() bool {
	return ParseBookingStatus(string(b.Status)) == BookingStatusCancelled
}

// IsProtected reports whether the booking must never be auto-cancelled:
// externally settled states, or any booking with a payment correlation.
func (b *Booking) IsProtected() bool {
	if b.TransactionID != nil && *b.TransactionID != "" {
		return true
	}
	switch ParseBookingStatus(string(b.Status)) {
	case BookingStatusPaid, BookingStatusConfirmed, BookingStatusBooked, BookingStatusCancelled:
		return true
	}
	return false
}

// CanBeCancelled reports whether a self-service cancel is allowed.
// PAID and BOOKED belong to the external settlement system and cannot
// be released here; cancelling a cancelled booking is handled upstream
// as an idempotent no-op.
func (b *Booking) CanBeCancelled() bool {
	switch ParseBookingStatus(string(b.Status)) {
	case BookingStatusPending, BookingStatusFeeDue, BookingStatusConfirmed, BookingStatusCashPending:
		return true
	}
	return false
}

// IsGuest reports whether the booking was made without an account
func (b *Booking) IsGuest() bool {
	return b.BookerID == nil
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	TripID       string `json:"trip_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	IDCardNo     string `json:"id_card_no"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
	PayerEmail   string `json:"payer_email"`
	Seat         string `json:"seat" binding:"required"`
	PayAtCounter bool   `json:"pay_at_counter"`
}

// Validate checks the request fields that gin binding cannot express
func (r *CreateBookingRequest) Validate(tripSeats int) error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name", "passenger name is required")
	}
	if strings.TrimSpace(r.PhoneNumber) == "" {
		return NewValidationError("phone_number", "phone number is required")
	}
	seatNo, err := strconv.Atoi(strings.TrimSpace(r.Seat))
	if err != nil {
		return NewValidationError("seat", "seat must be a numeric label")
	}
	if seatNo < 1 || seatNo > tripSeats {
		return NewValidationError("seat", "seat is out of range for this trip")
	}
	return nil
}

// CancelBookingRequest identifies a guest booking for cancellation.
// Authenticated cancels are matched on booker_id instead.
type CancelBookingRequest struct {
	TicketNumber string `json:"ticket_number"`
	PhoneNumber  string `json:"phone_number"`
}
