package services

import (
	"github.com/google/uuid"
	"github.com/swiftbus/booking-backend/internal/models"
)

// mockBookingStore implements BookingStore with overridable behaviour
// per test. Unset functions fail loudly via nil dereference.
type mockBookingStore struct {
	reserveSeatFn       func(booking *models.Booking) error
	releaseSeatFn       func(bookingID uuid.UUID) error
	takenSeatsFn        func(tripID uuid.UUID) ([]string, error)
	getByIDFn           func(bookingID uuid.UUID) (*models.Booking, error)
	getByTicketFn       func(ticketNumber string) (*models.Booking, error)
	listByUserForYearFn func(userID uuid.UUID, year int) ([]models.Booking, error)
	settlePaymentFn     func(bookingID uuid.UUID, transactionID string) error
}

func (m *mockBookingStore) ReserveSeat(booking *models.Booking) error {
	return m.reserveSeatFn(booking)
}

func (m *mockBookingStore) ReleaseSeat(bookingID uuid.UUID) error {
	return m.releaseSeatFn(bookingID)
}

func (m *mockBookingStore) TakenSeats(tripID uuid.UUID) ([]string, error) {
	return m.takenSeatsFn(tripID)
}

func (m *mockBookingStore) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	return m.getByIDFn(bookingID)
}

func (m *mockBookingStore) GetByTicketNumber(ticketNumber string) (*models.Booking, error) {
	return m.getByTicketFn(ticketNumber)
}

func (m *mockBookingStore) ListByUserForYear(userID uuid.UUID, year int) ([]models.Booking, error) {
	return m.listByUserForYearFn(userID, year)
}

func (m *mockBookingStore) SettlePayment(bookingID uuid.UUID, transactionID string) error {
	return m.settlePaymentFn(bookingID, transactionID)
}

// mockTripStore implements TripStore
type mockTripStore struct {
	getByIDFn func(tripID uuid.UUID) (*models.Trip, error)
}

func (m *mockTripStore) GetByID(tripID uuid.UUID) (*models.Trip, error) {
	return m.getByIDFn(tripID)
}

// mockPromotionStore implements PromotionStore
type mockPromotionStore struct {
	getActiveByCodeFn func(code string, agencyID uuid.UUID) (*models.Promotion, error)
	getGlobalActiveFn func() (*models.Promotion, error)
}

func (m *mockPromotionStore) GetActiveByCode(code string, agencyID uuid.UUID) (*models.Promotion, error) {
	return m.getActiveByCodeFn(code, agencyID)
}

func (m *mockPromotionStore) GetGlobalActive() (*models.Promotion, error) {
	return m.getGlobalActiveFn()
}
