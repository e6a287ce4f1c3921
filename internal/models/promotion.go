package models

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType represents how a promotion reduces the reservation fee
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Promotion is a discount code applied to the reservation fee. A nil
// AgencyID marks a global promotion valid for every agency.
type Promotion struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	Code          string       `json:"code" db:"code"`
	AgencyID      *uuid.UUID   `json:"agency_id,omitempty" db:"agency_id"`
	DiscountType  DiscountType `json:"discount_type" db:"discount_type"`
	DiscountValue int          `json:"discount_value" db:"discount_value"`
	StartsAt      time.Time    `json:"starts_at" db:"starts_at"`
	EndsAt        time.Time    `json:"ends_at" db:"ends_at"`
	IsActive      bool         `json:"is_active" db:"is_active"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}

// IsValidAt reports whether the promotion is active and within its window
func (p *Promotion) IsValidAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.StartsAt) || now.After(p.EndsAt) {
		return false
	}
	return true
}

// AppliesTo reports whether the promotion covers the given agency
func (p *Promotion) AppliesTo(agencyID uuid.UUID) bool {
	return p.AgencyID == nil || *p.AgencyID == agencyID
}

// Discount returns the discount amount for a fee, clamped to the fee
func (p *Promotion) Discount(fee int) int {
	var d int
	switch p.DiscountType {
	case DiscountTypePercentage:
		d = fee * p.DiscountValue / 100
	case DiscountTypeFixed:
		d = p.DiscountValue
	}
	if d > fee {
		return fee
	}
	if d < 0 {
		return 0
	}
	return d
}

// ValidatePromoRequest represents a promo code validation request
type ValidatePromoRequest struct {
	Code   string `json:"code" binding:"required"`
	TripID string `json:"trip_id" binding:"required"`
}
