package models

import (
	"time"
)

// Claim represents one worker's reservation of one promotion instance.
// Expired is a derived state (now past ExpiresAt), never stored.
type Claim struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PromotionID     uint           `gorm:"not null;index" json:"promotion_id"`
	Promotion       *Promotion     `gorm:"foreignKey:PromotionID" json:"promotion,omitempty"`
	WorkerProfileID uint           `gorm:"not null;index" json:"worker_profile_id"`
	WorkerProfile   *WorkerProfile `gorm:"foreignKey:WorkerProfileID" json:"worker_profile,omitempty"`
	Code            string         `gorm:"uniqueIndex;not null;size:16" json:"code"`
	ClaimedAt       time.Time      `gorm:"not null" json:"claimed_at"`
	ExpiresAt       time.Time      `gorm:"not null" json:"expires_at"`
	IsRedeemed      bool           `gorm:"not null;default:false" json:"is_redeemed"`
	CreatedAt       time.Time      `json:"created_at"`
}

// TableName specifies the table name for Claim model
func (Claim) TableName() string {
	return "claims"
}

// Redemption is the append-only record of a claim being accepted at the
// counter. The unique index on ClaimID ties it 1:1 to its Claim.
type Redemption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ClaimID    uint      `gorm:"uniqueIndex;not null" json:"claim_id"`
	Claim      *Claim    `gorm:"foreignKey:ClaimID" json:"claim,omitempty"`
	RedeemedBy uint      `gorm:"not null;index" json:"redeemed_by"` // restaurant user who validated the code
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Redemption model
func (Redemption) TableName() string {
	return "redemptions"
}
