package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftbus/booking-backend/internal/models"
)

func promotionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "agency_id", "discount_type", "discount_value",
		"starts_at", "ends_at", "is_active", "created_at",
	})
}

func TestGetActiveByCode(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewPromotionRepository(sqlxDB)
	agencyID := uuid.New()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM promotions`).
			WithArgs("SAVE150", agencyID).
			WillReturnRows(promotionRows().AddRow(
				uuid.New(), "SAVE150", agencyID, "fixed", 150,
				now.Add(-time.Hour), now.Add(time.Hour), true, now,
			))

		promo, err := repo.GetActiveByCode("SAVE150", agencyID)
		require.NoError(t, err)
		assert.Equal(t, "SAVE150", promo.Code)
		assert.Equal(t, models.DiscountTypeFixed, promo.DiscountType)
		assert.True(t, promo.AppliesTo(agencyID))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Code", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM promotions`).
			WithArgs("NOPE", agencyID).
			WillReturnError(sql.ErrNoRows)

		promo, err := repo.GetActiveByCode("NOPE", agencyID)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, promo)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetGlobalActive(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewPromotionRepository(sqlxDB)
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM promotions`).
			WillReturnRows(promotionRows().AddRow(
				uuid.New(), "LAUNCH", nil, "percentage", 100,
				now.Add(-time.Hour), now.Add(time.Hour), true, now,
			))

		promo, err := repo.GetGlobalActive()
		require.NoError(t, err)
		assert.Equal(t, "LAUNCH", promo.Code)
		assert.Nil(t, promo.AgencyID)
		assert.Equal(t, 200, promo.Discount(200))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("None Active", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM promotions`).
			WillReturnError(sql.ErrNoRows)

		promo, err := repo.GetGlobalActive()
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, promo)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
