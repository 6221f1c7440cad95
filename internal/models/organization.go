package models

import (
	"time"
)

// Organization represents a restaurant business account
type Organization struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"size:255;not null;index" json:"name"`
	Address            string    `gorm:"size:500" json:"address"`
	City               string    `gorm:"size:100" json:"city"`
	Area               string    `gorm:"size:100;index" json:"area"` // geographic area used for worker-side filtering
	SubscriptionStatus string    `gorm:"size:50;default:trial" json:"subscription_status"`
	LogoURL            string    `gorm:"size:500" json:"logo_url"`
	EmployeeCeiling    int       `gorm:"default:0" json:"employee_ceiling"`
	GoalTags           JSONB     `gorm:"type:jsonb" json:"goal_tags,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for Organization model
func (Organization) TableName() string {
	return "organizations"
}

// RestaurantProfile links a restaurant-role User to their Organization
type RestaurantProfile struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uint          `gorm:"uniqueIndex;not null" json:"user_id"`
	User           *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrganizationID uint          `gorm:"not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Name           string        `gorm:"size:255;not null" json:"name"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName specifies the table name for RestaurantProfile model
func (RestaurantProfile) TableName() string {
	return "restaurant_profiles"
}
