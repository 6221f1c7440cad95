package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
)

// PromotionService handles promotion CRUD and counter maintenance
type PromotionService struct {
	db *gorm.DB
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(db *gorm.DB) *PromotionService {
	return &PromotionService{db: db}
}

// PromotionParams carries restaurant-authored promotion fields
type PromotionParams struct {
	Title         string
	Description   string
	ImageURL      string
	DiscountType  string
	DiscountValue decimal.Decimal
	Status        string
	StartDate     *time.Time
	EndDate       *time.Time
}

// PromotionUpdate carries the mutable promotion fields; nil means leave
// unchanged
type PromotionUpdate struct {
	Title         *string
	Description   *string
	ImageURL      *string
	DiscountType  *string
	DiscountValue *decimal.Decimal
	Status        *string
	StartDate     *time.Time
	EndDate       *time.Time
}

// PromotionListing is a Promotion row denormalized with its restaurant's
// display fields for the worker feed
type PromotionListing struct {
	models.Promotion
	RestaurantName string `json:"restaurant_name"`
	RestaurantLogo string `json:"restaurant_logo"`
	RestaurantArea string `json:"restaurant_area"`
}

// CreatePromotion creates a promotion for an organization
func (s *PromotionService) CreatePromotion(orgID uint, params PromotionParams) (*models.Promotion, error) {
	status := params.Status
	if status == "" {
		status = models.PromotionStatusDraft
	}
	if !models.ValidPromotionStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	promotion := models.Promotion{
		OrganizationID: orgID,
		Title:          params.Title,
		Description:    params.Description,
		ImageURL:       params.ImageURL,
		DiscountType:   params.DiscountType,
		DiscountValue:  params.DiscountValue,
		Status:         status,
		StartDate:      params.StartDate,
		EndDate:        params.EndDate,
	}

	if err := s.db.Create(&promotion).Error; err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	log.Printf("[PromotionService] Organization %d created promotion %d (%s)", orgID, promotion.ID, promotion.Status)
	return &promotion, nil
}

// UpdatePromotion mutates a promotion owned by orgID
func (s *PromotionService) UpdatePromotion(orgID uint, promotionID uint, update PromotionUpdate) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := s.db.First(&promotion, promotionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("failed to load promotion: %w", err)
	}

	if promotion.OrganizationID != orgID {
		return nil, domain.ErrPromotionNotOwned
	}

	if update.Status != nil && !models.ValidPromotionStatus(*update.Status) {
		return nil, domain.ErrInvalidStatus
	}

	if update.Title != nil {
		promotion.Title = *update.Title
	}
	if update.Description != nil {
		promotion.Description = *update.Description
	}
	if update.ImageURL != nil {
		promotion.ImageURL = *update.ImageURL
	}
	if update.DiscountType != nil {
		promotion.DiscountType = *update.DiscountType
	}
	if update.DiscountValue != nil {
		promotion.DiscountValue = *update.DiscountValue
	}
	if update.Status != nil {
		promotion.Status = *update.Status
	}
	if update.StartDate != nil {
		promotion.StartDate = update.StartDate
	}
	if update.EndDate != nil {
		promotion.EndDate = update.EndDate
	}

	if err := s.db.Save(&promotion).Error; err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}

	return &promotion, nil
}

// GetPromotion returns one promotion
func (s *PromotionService) GetPromotion(promotionID uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := s.db.First(&promotion, promotionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("failed to load promotion: %w", err)
	}
	return &promotion, nil
}

// ListActive returns active promotions with restaurant fields denormalized
// for the worker feed
func (s *PromotionService) ListActive(limit, offset int) ([]PromotionListing, error) {
	var listings []PromotionListing
	err := s.db.Table("promotions").
		Select("promotions.*, organizations.name AS restaurant_name, organizations.logo_url AS restaurant_logo, organizations.area AS restaurant_area").
		Joins("JOIN organizations ON organizations.id = promotions.organization_id").
		Where("promotions.status = ?", models.PromotionStatusActive).
		Order("promotions.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return listings, nil
}

// ListByOrganization returns all promotions for an organization
func (s *PromotionService) ListByOrganization(orgID uint) ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := s.db.Where("organization_id = ?", orgID).
		Order("created_at DESC").Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

// IncrementImpression bumps a promotion's impression counter. Best-effort:
// failures are logged and swallowed.
func (s *PromotionService) IncrementImpression(promotionID uint) {
	res := s.db.Model(&models.Promotion{}).
		Where("id = ?", promotionID).
		UpdateColumn("impressions", gorm.Expr("impressions + ?", 1))
	if res.Error != nil {
		log.Printf("[PromotionService] Warning: failed to record impression for promotion %d: %v",
			promotionID, res.Error)
	}
}

// OrganizationIDForUser resolves the organization the restaurant user
// belongs to
func (s *PromotionService) OrganizationIDForUser(userID uint) (uint, error) {
	var profile models.RestaurantProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrOrganizationNotFound
		}
		return 0, fmt.Errorf("failed to load restaurant profile: %w", err)
	}
	return profile.OrganizationID, nil
}

// ExpireOverdue moves active and scheduled promotions whose end date has
// passed to expired. Returns the number of promotions swept.
func (s *PromotionService) ExpireOverdue(now time.Time) (int64, error) {
	res := s.db.Model(&models.Promotion{}).
		Where("end_date IS NOT NULL AND end_date < ? AND status IN ?",
			now, []string{models.PromotionStatusActive, models.PromotionStatusScheduled}).
		Update("status", models.PromotionStatusExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to expire promotions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
