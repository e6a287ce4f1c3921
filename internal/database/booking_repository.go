package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swiftbus/booking-backend/internal/models"
)

// BookingRepository handles booking and seat-ledger database operations.
// The trips.reserved counter and the set of non-cancelled seat labels are
// the only shared mutable state in the system; every mutation of them goes
// through the transactional ReserveSeat/ReleaseSeat pair below.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, trip_id, booker_id, name, id_card_no, phone_number, payer_email,
	seat, status, ticket_number, transaction_id, price, journey_date, departure_time,
	device_info, created_at, updated_at`

// Statuses a booking can be released from. Includes the legacy free-form
// values still present in old rows.
const cancelableStatuses = `('', 'PENDING', 'RESERVED', 'FEE_DUE', 'CONFIRMED', 'CASH_PENDING')`

// TakenSeats returns the seat labels held by non-cancelled bookings on a
// trip. Legacy rows store cancel variants like "CANCELLED_BY_USER", hence
// the prefix match. An unknown trip yields an empty set.
func (r *BookingRepository) TakenSeats(tripID uuid.UUID) ([]string, error) {
	query := `
		SELECT seat FROM bookings
		WHERE trip_id = $1 AND status NOT ILIKE 'CANCEL%'
		ORDER BY seat`

	seats := []string{}
	if err := r.db.Select(&seats, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to list taken seats: %w", err)
	}
	return seats, nil
}

// ReserveSeat inserts the booking and increments the trip's reserved
// counter as one transaction. Exactly one of any number of concurrent
// attempts on the same seat commits; the rest see models.ErrSeatTaken.
// A full trip yields models.ErrTripFull. On any error nothing is written.
func (r *BookingRepository) ReserveSeat(booking *models.Booking) error {
	booking.ID = uuid.New()
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The conditional increment locks the trip row, serializing concurrent
	// reservations on the same trip.
	result, err := tx.Exec(`
		UPDATE trips
		SET reserved = reserved + 1, updated_at = NOW()
		WHERE id = $1 AND reserved < seats AND status = 'active'`,
		booking.TripID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment reserved count: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return models.ErrTripFull
	}

	// Guarded insert: skipped when a non-cancelled booking already holds
	// the seat, in which case the increment above is rolled back.
	result, err = tx.Exec(`
		INSERT INTO bookings (
			id, trip_id, booker_id, name, id_card_no, phone_number, payer_email,
			seat, status, ticket_number, transaction_id, price, journey_date,
			departure_time, device_info, created_at, updated_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE trip_id = $2 AND seat = $8 AND status NOT ILIKE 'CANCEL%'
		)`,
		booking.ID, booking.TripID, booking.BookerID, booking.Name, booking.IDCardNo,
		booking.PhoneNumber, booking.PayerEmail, booking.Seat, booking.Status,
		booking.TicketNumber, booking.TransactionID, booking.Price, booking.JourneyDate,
		booking.DepartureTime, booking.DeviceInfo, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return models.ErrSeatTaken
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	return nil
}

// ReleaseSeat marks the booking cancelled and decrements the trip's
// reserved counter, clamped at zero, as one transaction. Releasing an
// already-cancelled booking is a no-op success so the operation is safe
// to retry; PAID and BOOKED bookings are never released (ErrConflict).
func (r *BookingRepository) ReleaseSeat(bookingID uuid.UUID) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE bookings
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND status IN `+cancelableStatuses,
		bookingID,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Nothing transitioned: distinguish missing, already-cancelled and
		// protected bookings without touching the counter.
		var status string
		err := tx.Get(&status, `SELECT status FROM bookings WHERE id = $1`, bookingID)
		if err == sql.ErrNoRows {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to inspect booking: %w", err)
		}
		if models.ParseBookingStatus(status) == models.BookingStatusCancelled {
			return nil
		}
		return models.ErrConflict
	}

	_, err = tx.Exec(`
		UPDATE trips
		SET reserved = GREATEST(reserved - 1, 0), updated_at = NOW()
		WHERE id = (SELECT trip_id FROM bookings WHERE id = $1)`,
		bookingID,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement reserved count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit release: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	err := r.db.Get(&booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	normalizeStatus(&booking)
	return &booking, nil
}

// GetByTicketNumber retrieves a booking by its customer-facing ticket number
func (r *BookingRepository) GetByTicketNumber(ticketNumber string) (*models.Booking, error) {
	var booking models.Booking
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE ticket_number = $1`, bookingColumns)

	err := r.db.Get(&booking, query, ticketNumber)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	normalizeStatus(&booking)
	return &booking, nil
}

// ListByUserForYear retrieves all bookings a user made for journeys in
// the given year, newest first.
func (r *BookingRepository) ListByUserForYear(userID uuid.UUID, year int) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE booker_id = $1 AND EXTRACT(YEAR FROM journey_date) = $2
		ORDER BY journey_date DESC, created_at DESC`, bookingColumns)

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, userID, year); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	for i := range bookings {
		normalizeStatus(&bookings[i])
	}
	return bookings, nil
}

// SettlePayment records the reservation-fee outcome and confirms the
// booking with a single conditional update. Re-settling an already
// confirmed booking is a no-op success; a booking in any other state
// yields ErrConflict so it is never double-confirmed.
func (r *BookingRepository) SettlePayment(bookingID uuid.UUID, transactionID string) error {
	result, err := r.db.Exec(`
		UPDATE bookings
		SET status = 'CONFIRMED', transaction_id = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('', 'PENDING', 'RESERVED', 'FEE_DUE')`,
		bookingID, transactionID,
	)
	if err != nil {
		return fmt.Errorf("failed to settle payment: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var status string
		err := r.db.Get(&status, `SELECT status FROM bookings WHERE id = $1`, bookingID)
		if err == sql.ErrNoRows {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to inspect booking: %w", err)
		}
		if models.ParseBookingStatus(status) == models.BookingStatusConfirmed {
			return nil
		}
		return models.ErrConflict
	}
	return nil
}

func normalizeStatus(b *models.Booking) {
	b.Status = models.ParseBookingStatus(string(b.Status))
}
