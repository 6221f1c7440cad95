package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion statuses. Expired is set by the background sweep once the end
// date passes; every other transition is restaurant-controlled.
const (
	PromotionStatusDraft     = "draft"
	PromotionStatusActive    = "active"
	PromotionStatusScheduled = "scheduled"
	PromotionStatusPaused    = "paused"
	PromotionStatusExpired   = "expired"
)

// ValidPromotionStatus reports whether s is a known promotion status
func ValidPromotionStatus(s string) bool {
	switch s {
	case PromotionStatusDraft, PromotionStatusActive, PromotionStatusScheduled,
		PromotionStatusPaused, PromotionStatusExpired:
		return true
	}
	return false
}

// Discount descriptor types
const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

// Promotion represents a restaurant-authored offer
type Promotion struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	Organization   *Organization   `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Title          string          `gorm:"size:255;not null" json:"title"`
	Description    string          `gorm:"type:text" json:"description"`
	ImageURL       string          `gorm:"size:500" json:"image_url"`
	DiscountType   string          `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	Status         string          `gorm:"size:20;default:draft;index" json:"status"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `gorm:"index" json:"end_date,omitempty"`
	Impressions    int             `gorm:"not null;default:0" json:"impressions"`
	CurrentClaims  int             `gorm:"not null;default:0" json:"current_claims"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Promotion model
func (Promotion) TableName() string {
	return "promotions"
}
