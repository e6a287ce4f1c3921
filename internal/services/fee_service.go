package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/models"
)

// Fixed business constants of the reservation fee. Prices round up to
// the nearest 50 currency units, the fee is 10% of the rounded price,
// itself rounded up to 50, and never exceeds 500.
const (
	feeRoundingStep = 50
	feeRatePercent  = 10
	feeCap          = 500
)

// FeeQuote is the computed reservation fee for a booking
type FeeQuote struct {
	Fee         int    `json:"fee"`
	Discount    int    `json:"discount"`
	Total       int    `json:"total"`
	PromoCode   string `json:"promo_code,omitempty"`
	GlobalPromo bool   `json:"global_promo_applied"`
}

// FeeService computes reservation fees, applies promotions and settles
// the fee payment against the booking lifecycle.
type FeeService struct {
	bookings   BookingStore
	trips      TripStore
	promotions PromotionStore
	logger     *logrus.Logger
}

// NewFeeService creates a new FeeService
func NewFeeService(bookings BookingStore, trips TripStore, promotions PromotionStore, logger *logrus.Logger) *FeeService {
	return &FeeService{
		bookings:   bookings,
		trips:      trips,
		promotions: promotions,
		logger:     logger,
	}
}

// ReservationFee computes the upfront fee for a trip price:
// min(roundUp50(roundUp50(price) * 10%), 500). 1899 → 1900 → 190 → 200.
func ReservationFee(price int) int {
	if price <= 0 {
		return 0
	}
	rounded := roundUpToStep(price)
	fee := roundUpToStep(rounded * feeRatePercent / 100)
	if fee > feeCap {
		return feeCap
	}
	return fee
}

func roundUpToStep(v int) int {
	return (v + feeRoundingStep - 1) / feeRoundingStep * feeRoundingStep
}

// Quote computes the payable reservation fee for a trip, auto-applying
// the global promotion when one is active and, on top of it, an optional
// explicit promo code. The total is floored at zero.
func (s *FeeService) Quote(trip *models.Trip, promoCode string, now time.Time) (*FeeQuote, error) {
	quote := &FeeQuote{Fee: ReservationFee(trip.Price)}
	remaining := quote.Fee

	if global, err := s.promotions.GetGlobalActive(); err == nil {
		if global.IsValidAt(now) {
			d := global.Discount(remaining)
			quote.Discount += d
			remaining -= d
			quote.GlobalPromo = true
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if code := strings.TrimSpace(promoCode); code != "" {
		promo, err := s.promotions.GetActiveByCode(code, trip.AgencyID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.NewValidationError("code", "invalid or expired promo code")
			}
			return nil, err
		}
		if !promo.IsValidAt(now) || !promo.AppliesTo(trip.AgencyID) {
			return nil, models.NewValidationError("code", "invalid or expired promo code")
		}
		d := promo.Discount(remaining)
		quote.Discount += d
		remaining -= d
		quote.PromoCode = promo.Code
	}

	if remaining < 0 {
		remaining = 0
	}
	quote.Total = remaining
	return quote, nil
}

// ValidatePromo resolves a promo code against a trip and returns the
// resulting quote, without touching any booking.
func (s *FeeService) ValidatePromo(code, tripID string, now time.Time) (*FeeQuote, error) {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return nil, models.NewValidationError("trip_id", "invalid trip id")
	}
	trip, err := s.trips.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.Quote(trip, code, now)
}

// SettlementResult reports the outcome of a completed fee payment
type SettlementResult struct {
	BookingID     uuid.UUID            `json:"booking_id"`
	TicketNumber  string               `json:"ticket_number"`
	Status        models.BookingStatus `json:"status"`
	AmountPaid    int                  `json:"amount_paid"`
	TransactionID string               `json:"transaction_id"`
}

// CompleteReservationFee finalizes the fee for a booking and confirms
// it. With the current global 100% promotion the amount due is zero, but
// the nonzero path settles the same way: one conditional update keyed by
// booking id, so re-invocation after success is a no-op, never a double
// charge. Account bookings may only be settled by their owner.
func (s *FeeService) CompleteReservationFee(bookingID uuid.UUID, userID *uuid.UUID, promoCode, transactionID string, now time.Time) (*SettlementResult, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != nil {
		if userID == nil || *userID != *booking.BookerID {
			return nil, models.ErrForbidden
		}
	}

	trip, err := s.trips.GetByID(booking.TripID)
	if err != nil {
		return nil, err
	}
	quote, err := s.Quote(trip, promoCode, now)
	if err != nil {
		return nil, err
	}

	// Zero-due settlements still get a correlation id so the booking is
	// marked as settled and protected from the expiry sweep.
	txnID := strings.TrimSpace(transactionID)
	if txnID == "" {
		if quote.Total > 0 {
			return nil, models.NewValidationError("transaction_id", "transaction id is required for a nonzero fee")
		}
		txnID = "WAIVED-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
	}

	if err := s.bookings.SettlePayment(booking.ID, txnID); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":     booking.ID,
		"amount":         quote.Total,
		"transaction_id": txnID,
	}).Info("Reservation fee settled")

	return &SettlementResult{
		BookingID:     booking.ID,
		TicketNumber:  booking.TicketNumber,
		Status:        models.BookingStatusConfirmed,
		AmountPaid:    quote.Total,
		TransactionID: txnID,
	}, nil
}
