package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
)

// InviteService manages invite tokens that let restaurant managers onboard
// staff without handing out credentials
type InviteService struct {
	db *gorm.DB
}

// NewInviteService creates a new InviteService
func NewInviteService(db *gorm.DB) *InviteService {
	return &InviteService{db: db}
}

// CreateInvite issues a new invite token under an organization
func (s *InviteService) CreateInvite(orgID, createdBy uint, role models.UserRole, maxUses int, ttl *time.Duration) (*models.InviteToken, error) {
	token, err := generateInviteToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if maxUses <= 0 {
		maxUses = 1
	}

	invite := models.InviteToken{
		Token:          token,
		OrganizationID: orgID,
		Role:           role,
		MaxUses:        maxUses,
		IsActive:       true,
		CreatedBy:      createdBy,
	}
	if ttl != nil {
		expiresAt := time.Now().Add(*ttl)
		invite.ExpiresAt = &expiresAt
	}

	if err := s.db.Create(&invite).Error; err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	log.Printf("[InviteService] Invite %d created for organization %d (max uses %d)",
		invite.ID, orgID, maxUses)
	return &invite, nil
}

// ListOrganizationInvites returns all invites issued under an organization
func (s *InviteService) ListOrganizationInvites(orgID uint) ([]models.InviteToken, error) {
	var invites []models.InviteToken
	if err := s.db.Where("organization_id = ?", orgID).
		Order("created_at DESC").Find(&invites).Error; err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, nil
}

// Revoke deactivates an invite owned by orgID
func (s *InviteService) Revoke(inviteID, orgID uint) error {
	res := s.db.Model(&models.InviteToken{}).
		Where("id = ? AND organization_id = ?", inviteID, orgID).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to revoke invite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrInviteNotFound
	}
	return nil
}

// Validate checks a token without consuming it. Rejection order: unknown,
// inactive, expired, exhausted.
func (s *InviteService) Validate(token string) (*models.InviteToken, error) {
	return s.validate(s.db, token)
}

func (s *InviteService) validate(tx *gorm.DB, token string) (*models.InviteToken, error) {
	var invite models.InviteToken
	if err := tx.Where("token = ?", token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}

	if !invite.IsActive {
		return nil, domain.ErrInviteInactive
	}
	if invite.ExpiresAt != nil && time.Now().After(*invite.ExpiresAt) {
		return nil, domain.ErrInviteExpired
	}
	if invite.CurrentUses >= invite.MaxUses {
		return nil, domain.ErrInviteExhausted
	}

	return &invite, nil
}

// Consume validates the token and burns one use inside the given
// transaction. The guarded increment keeps current_uses <= max_uses under
// concurrent signups.
func (s *InviteService) Consume(tx *gorm.DB, token string) (*models.InviteToken, error) {
	invite, err := s.validate(tx, token)
	if err != nil {
		return nil, err
	}

	res := tx.Model(&models.InviteToken{}).
		Where("id = ? AND current_uses < max_uses", invite.ID).
		UpdateColumn("current_uses", gorm.Expr("current_uses + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to consume invite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInviteExhausted
	}

	invite.CurrentUses++
	return invite, nil
}

// generateInviteToken returns 16 random bytes as 32 hex chars
func generateInviteToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
