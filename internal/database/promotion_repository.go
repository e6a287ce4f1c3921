package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swiftbus/booking-backend/internal/models"
)

// PromotionRepository handles promotion database operations
type PromotionRepository struct {
	db *sqlx.DB
}

// NewPromotionRepository creates a new PromotionRepository
func NewPromotionRepository(db *sqlx.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

const promotionColumns = `id, code, agency_id, discount_type, discount_value,
	starts_at, ends_at, is_active, created_at`

// GetActiveByCode retrieves an active promotion by code that covers the
// given agency. Agency-scoped codes must match the agency; global codes
// (NULL agency_id) match any.
func (r *PromotionRepository) GetActiveByCode(code string, agencyID uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	query := fmt.Sprintf(`
		SELECT %s FROM promotions
		WHERE UPPER(code) = UPPER($1)
		  AND (agency_id IS NULL OR agency_id = $2)
		  AND is_active = TRUE
		  AND starts_at <= NOW() AND ends_at >= NOW()`, promotionColumns)

	err := r.db.Get(&promo, query, code, agencyID)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch promotion: %w", err)
	}
	return &promo, nil
}

// GetGlobalActive retrieves the current global promotion, if any. This is
// the promotion auto-applied to every reservation fee; at present a 100%
// discount row makes every fee resolve to zero.
func (r *PromotionRepository) GetGlobalActive() (*models.Promotion, error) {
	var promo models.Promotion
	query := fmt.Sprintf(`
		SELECT %s FROM promotions
		WHERE agency_id IS NULL
		  AND is_active = TRUE
		  AND starts_at <= NOW() AND ends_at >= NOW()
		ORDER BY created_at DESC
		LIMIT 1`, promotionColumns)

	err := r.db.Get(&promo, query)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch global promotion: %w", err)
	}
	return &promo, nil
}
