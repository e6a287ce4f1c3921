package services

import (
	"github.com/google/uuid"
	"github.com/swiftbus/booking-backend/internal/models"
)

// BookingStore is the persistence surface the booking and fee services
// need. internal/database.BookingRepository satisfies it.
type BookingStore interface {
	ReserveSeat(booking *models.Booking) error
	ReleaseSeat(bookingID uuid.UUID) error
	TakenSeats(tripID uuid.UUID) ([]string, error)
	GetByID(bookingID uuid.UUID) (*models.Booking, error)
	GetByTicketNumber(ticketNumber string) (*models.Booking, error)
	ListByUserForYear(userID uuid.UUID, year int) ([]models.Booking, error)
	SettlePayment(bookingID uuid.UUID, transactionID string) error
}

// TripStore is the trip catalog surface. internal/database.TripRepository
// satisfies it.
type TripStore interface {
	GetByID(tripID uuid.UUID) (*models.Trip, error)
}

// PromotionStore is the promotion lookup surface.
// internal/database.PromotionRepository satisfies it.
type PromotionStore interface {
	GetActiveByCode(code string, agencyID uuid.UUID) (*models.Promotion, error)
	GetGlobalActive() (*models.Promotion, error)
}
