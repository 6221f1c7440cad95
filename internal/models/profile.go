package models

import (
	"time"
)

// Job positions a worker can register under
const (
	PositionServer     = "server"
	PositionBartender  = "bartender"
	PositionChef       = "chef"
	PositionHost       = "host"
	PositionManager    = "manager"
	PositionBarback    = "barback"
	PositionBusser     = "busser"
	PositionCook       = "cook"
	PositionDishwasher = "dishwasher"
	PositionOther      = "other"
)

// ValidPosition reports whether s is a known job position
func ValidPosition(s string) bool {
	switch s {
	case PositionServer, PositionBartender, PositionChef, PositionHost,
		PositionManager, PositionBarback, PositionBusser, PositionCook,
		PositionDishwasher, PositionOther:
		return true
	}
	return false
}

// WorkerProfile extends a worker-role User with industry details
type WorkerProfile struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uint          `gorm:"uniqueIndex;not null" json:"user_id"`
	User           *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name           string        `gorm:"size:255;not null" json:"name"`
	Position       string        `gorm:"size:50;not null" json:"position"`
	IsVerified     bool          `gorm:"not null;default:false" json:"is_verified"`
	OrganizationID *uint         `gorm:"index" json:"organization_id,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName specifies the table name for WorkerProfile model
func (WorkerProfile) TableName() string {
	return "worker_profiles"
}
