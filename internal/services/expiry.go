package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swiftbus/booking-backend/internal/models"
)

// GraceWindow is how long before departure an unpaid booking is kept
// alive. Past departure−GraceWindow the seat is reclaimed.
const GraceWindow = 30 * time.Minute

// departureLayouts are the accepted departure time forms: 24-hour and
// 12-hour with AM/PM. Legacy rows carry both.
var departureLayouts = []string{"15:04", "3:04 PM"}

// ParseDeparture combines a journey date with a departure time string
// into a single timestamp. Returns an error for unparseable times.
func ParseDeparture(journeyDate time.Time, departure string) (time.Time, error) {
	s := strings.ToUpper(strings.TrimSpace(departure))
	for _, layout := range departureLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(
			journeyDate.Year(), journeyDate.Month(), journeyDate.Day(),
			t.Hour(), t.Minute(), 0, 0, journeyDate.Location(),
		), nil
	}
	return time.Time{}, fmt.Errorf("unparseable departure time %q", departure)
}

// ExpiredBookings returns the IDs of bookings whose seat should be
// reclaimed at the given instant: unpaid, unprotected bookings whose
// departure is less than GraceWindow away (or already past). Bookings
// with unparseable departure times are skipped, never expired. The
// function is pure so the policy can be driven by the read-triggered
// sweep today and a periodic scheduler later without change.
func ExpiredBookings(now time.Time, bookings []models.Booking) []uuid.UUID {
	expired := []uuid.UUID{}
	for i := range bookings {
		b := &bookings[i]
		if b.IsProtected() {
			continue
		}
		switch models.ParseBookingStatus(string(b.Status)) {
		case models.BookingStatusPending, models.BookingStatusFeeDue, models.BookingStatusCashPending:
		default:
			continue
		}

		departure, err := ParseDeparture(b.JourneyDate, b.DepartureTime)
		if err != nil {
			continue
		}
		cutoff := departure.Add(-GraceWindow)
		if !now.Before(cutoff) {
			expired = append(expired, b.ID)
		}
	}
	return expired
}
