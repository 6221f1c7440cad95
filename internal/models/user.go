package models

import (
	"time"
)

// UserRole determines which surfaces of the platform a user can reach
type UserRole string

const (
	RoleWorker     UserRole = "worker"
	RoleRestaurant UserRole = "restaurant"
	RoleSuperAdmin UserRole = "super_admin"
)

// ValidRole reports whether s is one of the known roles
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleWorker, RoleRestaurant, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents an account in the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"size:20;not null;index" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
