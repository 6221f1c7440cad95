package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
)

// AdminService backs the superadmin panel: user and organization
// management plus the append-only audit trail
type AdminService struct {
	db *gorm.DB
}

// NewAdminService creates a new AdminService
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// ListUsers returns users, optionally filtered by role
func (s *AdminService) ListUsers(role string, limit, offset int) ([]models.User, error) {
	var users []models.User
	query := s.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser mutates a user's role and/or active flag and records the
// change in the audit log
func (s *AdminService) UpdateUser(actorID, userID uint, role *string, isActive *bool) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	details := models.JSONB{}
	if role != nil {
		if !models.ValidRole(*role) {
			return nil, fmt.Errorf("unknown role %q", *role)
		}
		details["role"] = *role
		user.Role = models.UserRole(*role)
	}
	if isActive != nil {
		details["is_active"] = *isActive
		user.IsActive = *isActive
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.LogAction(actorID, "UPDATE_USER", "USER", &userID, details)
	log.Printf("[AdminService] User %d updated by admin %d", userID, actorID)
	return &user, nil
}

// VerifyWorker flips a worker profile's verification flag
func (s *AdminService) VerifyWorker(actorID, workerProfileID uint) (*models.WorkerProfile, error) {
	var profile models.WorkerProfile
	if err := s.db.First(&profile, workerProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkerProfileNotFound
		}
		return nil, fmt.Errorf("failed to load worker profile: %w", err)
	}

	profile.IsVerified = true
	if err := s.db.Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to verify worker: %w", err)
	}

	s.LogAction(actorID, "VERIFY_WORKER", "WORKER_PROFILE", &workerProfileID, nil)
	return &profile, nil
}

// ListOrganizations returns all organizations
func (s *AdminService) ListOrganizations(limit, offset int) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := s.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// LogAction appends an entry to the audit trail
func (s *AdminService) LogAction(actorID uint, action string, resourceType string,
	resourceID *uint, details models.JSONB) error {

	entry := models.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("[AdminService] Warning: failed to write audit log: %v", err)
		return err
	}
	return nil
}

// GetAuditLogs returns audit entries, newest first
func (s *AdminService) GetAuditLogs(limit, offset int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := s.db.Preload("Actor").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

// PlatformStats aggregates engagement numbers for the admin dashboard
type PlatformStats struct {
	TotalUsers       int64           `json:"total_users"`
	TotalWorkers     int64           `json:"total_workers"`
	TotalRestaurants int64           `json:"total_restaurants"`
	Organizations    int64           `json:"organizations"`
	ActivePromotions int64           `json:"active_promotions"`
	TotalClaims      int64           `json:"total_claims"`
	TotalRedemptions int64           `json:"total_redemptions"`
	RedemptionRate   decimal.Decimal `json:"redemption_rate"`
}

// GetPlatformStats computes the dashboard aggregates from counts
func (s *AdminService) GetPlatformStats() (*PlatformStats, error) {
	stats := &PlatformStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, s.db.Model(&models.User{})},
		{&stats.TotalWorkers, s.db.Model(&models.User{}).Where("role = ?", models.RoleWorker)},
		{&stats.TotalRestaurants, s.db.Model(&models.User{}).Where("role = ?", models.RoleRestaurant)},
		{&stats.Organizations, s.db.Model(&models.Organization{})},
		{&stats.ActivePromotions, s.db.Model(&models.Promotion{}).Where("status = ?", models.PromotionStatusActive)},
		{&stats.TotalClaims, s.db.Model(&models.Claim{})},
		{&stats.TotalRedemptions, s.db.Model(&models.Redemption{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to compute stats: %w", err)
		}
	}

	if stats.TotalClaims > 0 {
		stats.RedemptionRate = decimal.NewFromInt(stats.TotalRedemptions).
			Div(decimal.NewFromInt(stats.TotalClaims)).Round(4)
	} else {
		stats.RedemptionRate = decimal.Zero
	}

	return stats, nil
}
