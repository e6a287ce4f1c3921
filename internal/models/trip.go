package models

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus represents the status of a trip
type TripStatus string

const (
	TripStatusActive    TripStatus = "active"
	TripStatusCancelled TripStatus = "cancelled"
	TripStatusCompleted TripStatus = "completed"
)

// Trip represents a scheduled, capacity-bounded bus departure
type Trip struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	FromLocation string     `json:"from_location" db:"from_location"`
	ToLocation   string     `json:"to_location" db:"to_location"`
	JourneyDate  time.Time  `json:"journey_date" db:"journey_date"`
	Departure    string     `json:"departure" db:"departure"` // 24h HH:mm
	Price        int        `json:"price" db:"price"`
	Seats        int        `json:"seats" db:"seats"`
	Reserved     int        `json:"reserved" db:"reserved"`
	AgencyID     uuid.UUID  `json:"agency_id" db:"agency_id"`
	AgencyName   string     `json:"agency_name" db:"agency_name"`
	Status       TripStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsSoldOut reports whether the trip has no remaining capacity
func (t *Trip) IsSoldOut() bool {
	return t.Reserved >= t.Seats
}

// AvailableSeats returns the number of unreserved seats, clamped at 0
func (t *Trip) AvailableSeats() int {
	if t.Reserved >= t.Seats {
		return 0
	}
	return t.Seats - t.Reserved
}

// SearchTripsRequest represents trip search filters
type SearchTripsRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
	Date string `form:"date"` // YYYY-MM-DD
}
