package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swiftbus/booking-backend/internal/models"
)

// TripRepository handles trip catalog database operations
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, from_location, to_location, journey_date, departure, price,
	seats, reserved, agency_id, agency_name, status, created_at, updated_at`

// GetByID retrieves a trip by its ID
func (r *TripRepository) GetByID(tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1`, tripColumns)

	err := r.db.Get(&trip, query, tripID)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}
	return &trip, nil
}

// Search returns active trips matching the given filters. Empty filters
// match everything; date filters on the journey date.
func (r *TripRepository) Search(from, to string, date *time.Time) ([]models.Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE status = 'active'`, tripColumns)
	args := []interface{}{}
	argPos := 1

	if from != "" {
		query += fmt.Sprintf(" AND LOWER(from_location) = LOWER($%d)", argPos)
		args = append(args, from)
		argPos++
	}
	if to != "" {
		query += fmt.Sprintf(" AND LOWER(to_location) = LOWER($%d)", argPos)
		args = append(args, to)
		argPos++
	}
	if date != nil {
		query += fmt.Sprintf(" AND journey_date = $%d", argPos)
		args = append(args, date.Format("2006-01-02"))
		argPos++
	}
	query += " ORDER BY journey_date, departure"

	trips := []models.Trip{}
	if err := r.db.Select(&trips, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}
	return trips, nil
}
