package models

import (
	"time"
)

// InviteToken permits account creation under an Organization without a
// direct credential handoff
type InviteToken struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Token          string        `gorm:"uniqueIndex;not null;size:64" json:"token"`
	OrganizationID uint          `gorm:"not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Role           UserRole      `gorm:"size:20;not null;default:worker" json:"role"`
	MaxUses        int           `gorm:"not null;default:1" json:"max_uses"`
	CurrentUses    int           `gorm:"not null;default:0" json:"current_uses"`
	ExpiresAt      *time.Time    `json:"expires_at,omitempty"`
	IsActive       bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedBy      uint          `gorm:"not null" json:"created_by"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName specifies the table name for InviteToken model
func (InviteToken) TableName() string {
	return "invite_tokens"
}
