package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftbus/booking-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "trip_id", "booker_id", "name", "id_card_no", "phone_number",
		"payer_email", "seat", "status", "ticket_number", "transaction_id",
		"price", "journey_date", "departure_time", "device_info",
		"created_at", "updated_at",
	})
}

func sampleBooking(tripID uuid.UUID) *models.Booking {
	return &models.Booking{
		TripID:        tripID,
		Name:          "Nimal Perera",
		PhoneNumber:   "0771234567",
		Seat:          "12",
		Status:        models.BookingStatusFeeDue,
		TicketNumber:  "TKT-AB12CD34EF",
		Price:         1899,
		JourneyDate:   time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
		DepartureTime: "14:30",
	}
}

func TestReserveSeat(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewBookingRepository(sqlxDB)
	tripID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		booking := sampleBooking(tripID)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE trips`).
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO bookings`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.ReserveSeat(booking)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, booking.ID)
		assert.False(t, booking.CreatedAt.IsZero())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Trip Full", func(t *testing.T) {
		booking := sampleBooking(tripID)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE trips`).
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ReserveSeat(booking)
		assert.ErrorIs(t, err, models.ErrTripFull)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seat Taken", func(t *testing.T) {
		booking := sampleBooking(tripID)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE trips`).
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO bookings`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ReserveSeat(booking)
		assert.ErrorIs(t, err, models.ErrSeatTaken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		booking := sampleBooking(tripID)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE trips`).
			WithArgs(tripID).
			WillReturnError(fmt.Errorf("connection reset"))
		mock.ExpectRollback()

		err := repo.ReserveSeat(booking)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to increment reserved count")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReleaseSeat(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewBookingRepository(sqlxDB)
	bookingID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE trips`).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.ReleaseSeat(bookingID)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Cancelled Is Idempotent", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT status FROM bookings`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("CANCELLED_BY_USER"))
		mock.ExpectRollback()

		err := repo.ReleaseSeat(bookingID)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Paid Booking Is Protected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT status FROM bookings`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PAID"))
		mock.ExpectRollback()

		err := repo.ReleaseSeat(bookingID)
		assert.ErrorIs(t, err, models.ErrConflict)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT status FROM bookings`).
			WithArgs(bookingID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.ReleaseSeat(bookingID)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSettlePayment(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewBookingRepository(sqlxDB)
	bookingID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, "PAY-123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SettlePayment(bookingID, "PAY-123")
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Re-Settle Is A No-Op", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, "PAY-123").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT status FROM bookings`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("CONFIRMED"))

		err := repo.SettlePayment(bookingID, "PAY-123")
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Cancelled Booking Cannot Be Settled", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, "PAY-123").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT status FROM bookings`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("CANCELLED"))

		err := repo.SettlePayment(bookingID, "PAY-123")
		assert.ErrorIs(t, err, models.ErrConflict)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, "PAY-123").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT status FROM bookings`).
			WithArgs(bookingID).
			WillReturnError(sql.ErrNoRows)

		err := repo.SettlePayment(bookingID, "PAY-123")
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTakenSeats(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewBookingRepository(sqlxDB)
	tripID := uuid.New()

	t.Run("Returns Held Seats", func(t *testing.T) {
		mock.ExpectQuery(`SELECT seat FROM bookings`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows([]string{"seat"}).
				AddRow("1").AddRow("12").AddRow("7"))

		seats, err := repo.TakenSeats(tripID)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "12", "7"}, seats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Trip Yields Empty Set", func(t *testing.T) {
		mock.ExpectQuery(`SELECT seat FROM bookings`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows([]string{"seat"}))

		seats, err := repo.TakenSeats(tripID)
		require.NoError(t, err)
		assert.Empty(t, seats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBookingByID(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewBookingRepository(sqlxDB)
	bookingID := uuid.New()
	tripID := uuid.New()
	now := time.Now()

	t.Run("Success With Legacy Status", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(bookingRows().AddRow(
				bookingID, tripID, nil, "Nimal Perera", "", "0771234567",
				"", "12", "RESERVED", "TKT-AB12CD34EF", nil,
				1899, now, "14:30", nil, now, now,
			))

		booking, err := repo.GetByID(bookingID)
		require.NoError(t, err)
		assert.Equal(t, bookingID, booking.ID)
		assert.Equal(t, models.BookingStatusPending, booking.Status)
		assert.True(t, booking.IsGuest())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnError(sql.ErrNoRows)

		booking, err := repo.GetByID(bookingID)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, booking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListByUserForYear(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewBookingRepository(sqlxDB)
	userID := uuid.New()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		first := uuid.New()
		second := uuid.New()
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(userID, 2026).
			WillReturnRows(bookingRows().
				AddRow(first, uuid.New(), userID, "Nimal Perera", "", "0771234567",
					"", "12", "FEE_DUE", "TKT-AB12CD34EF", nil,
					1899, now, "14:30", nil, now, now).
				AddRow(second, uuid.New(), userID, "Nimal Perera", "", "0771234567",
					"", "3", "cancelled_by_user", "TKT-GH56IJ78KL", nil,
					2500, now, "9:00 AM", nil, now, now))

		bookings, err := repo.ListByUserForYear(userID, 2026)
		require.NoError(t, err)
		require.Len(t, bookings, 2)
		assert.Equal(t, models.BookingStatusFeeDue, bookings[0].Status)
		assert.Equal(t, models.BookingStatusCancelled, bookings[1].Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Bookings", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(userID, 2026).
			WillReturnRows(bookingRows())

		bookings, err := repo.ListByUserForYear(userID, 2026)
		require.NoError(t, err)
		assert.Empty(t, bookings)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
