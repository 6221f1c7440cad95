package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
)

// codeInsertAttempts bounds the regenerate-and-retry loop on a redemption
// code collision. Four random bytes give 2^32 codes, so a second attempt is
// already rare.
const codeInsertAttempts = 5

// ClaimService mediates the claim/redemption lifecycle: issuing single-use
// codes against promotions and validating them at point of service.
type ClaimService struct {
	db *gorm.DB
	// ttl is the redemption window granted at claim time.
	ttl time.Duration
	// allowRepeat permits a worker to hold several active claims on the
	// same promotion.
	allowRepeat bool
}

// NewClaimService creates a new ClaimService
func NewClaimService(db *gorm.DB, ttl time.Duration, allowRepeat bool) *ClaimService {
	return &ClaimService{db: db, ttl: ttl, allowRepeat: allowRepeat}
}

// CreateClaim issues a redemption code on a promotion for the worker behind
// userID. The claim insert and the promotion counter increment run in one
// transaction so the counter can never drift from the claims table.
func (s *ClaimService) CreateClaim(ctx context.Context, userID uint, promotionID uint) (*models.Claim, error) {
	var profile models.WorkerProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkerProfileNotFound
		}
		return nil, fmt.Errorf("failed to load worker profile: %w", err)
	}

	var promotion models.Promotion
	if err := s.db.WithContext(ctx).First(&promotion, promotionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("failed to load promotion: %w", err)
	}

	var claim *models.Claim
	for attempt := 0; attempt < codeInsertAttempts; attempt++ {
		code, err := generateRedemptionCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		now := time.Now()
		candidate := models.Claim{
			PromotionID:     promotionID,
			WorkerProfileID: profile.ID,
			Code:            code,
			ClaimedAt:       now,
			ExpiresAt:       now.Add(s.ttl),
			IsRedeemed:      false,
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// The active-claim check shares the insert's transaction so a
			// pair of simultaneous claims by one worker cannot both pass it.
			if !s.allowRepeat {
				var active int64
				if err := tx.Model(&models.Claim{}).
					Where("promotion_id = ? AND worker_profile_id = ? AND is_redeemed = ? AND expires_at > ?",
						promotionID, profile.ID, false, time.Now()).
					Count(&active).Error; err != nil {
					return fmt.Errorf("failed to check active claims: %w", err)
				}
				if active > 0 {
					return domain.ErrClaimAlreadyActive
				}
			}
			if err := tx.Create(&candidate).Error; err != nil {
				return err
			}
			return tx.Model(&models.Promotion{}).
				Where("id = ?", promotionID).
				UpdateColumn("current_claims", gorm.Expr("current_claims + ?", 1)).Error
		})
		if err == nil {
			claim = &candidate
			break
		}
		if errors.Is(err, domain.ErrClaimAlreadyActive) {
			return nil, domain.ErrClaimAlreadyActive
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Code collision, roll the dice again
			log.Printf("[ClaimService] Code collision on %s, retrying (attempt %d)", code, attempt+1)
			continue
		}
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}
	if claim == nil {
		return nil, fmt.Errorf("failed to create claim: exhausted code generation attempts")
	}

	log.Printf("[ClaimService] Worker profile %d claimed promotion %d (code %s)",
		profile.ID, promotionID, claim.Code)
	return claim, nil
}

// RedeemClaim validates a code presented at the counter. Check order is
// fixed: unknown code, then already-redeemed, then expired, so a redeemed
// code that has since passed its expiry still reports "already redeemed".
func (s *ClaimService) RedeemClaim(ctx context.Context, redeemerUserID uint, code string) (*models.Redemption, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var claim models.Claim
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to look up claim: %w", err)
	}

	if claim.IsRedeemed {
		return nil, domain.ErrClaimAlreadyRedeemed
	}

	if time.Now().After(claim.ExpiresAt) {
		return nil, domain.ErrClaimExpired
	}

	redemption := models.Redemption{
		ClaimID:    claim.ID,
		RedeemedBy: redeemerUserID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded flip: a concurrent redeem of the same code loses here
		// and the claim is redeemed at most once.
		res := tx.Model(&models.Claim{}).
			Where("id = ? AND is_redeemed = ?", claim.ID, false).
			Update("is_redeemed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrClaimAlreadyRedeemed
		}
		return tx.Create(&redemption).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrClaimAlreadyRedeemed) {
			return nil, domain.ErrClaimAlreadyRedeemed
		}
		return nil, fmt.Errorf("failed to redeem claim: %w", err)
	}

	log.Printf("[ClaimService] Claim %d redeemed by user %d", claim.ID, redeemerUserID)
	return &redemption, nil
}

// ListWorkerClaims returns the claims held by the worker behind userID,
// newest first
func (s *ClaimService) ListWorkerClaims(ctx context.Context, userID uint) ([]models.Claim, error) {
	var profile models.WorkerProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkerProfileNotFound
		}
		return nil, fmt.Errorf("failed to load worker profile: %w", err)
	}

	var claims []models.Claim
	if err := s.db.WithContext(ctx).
		Where("worker_profile_id = ?", profile.ID).
		Preload("Promotion").
		Order("claimed_at DESC").
		Find(&claims).Error; err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return claims, nil
}

// generateRedemptionCode returns 4 random bytes as 8 uppercase hex chars
func generateRedemptionCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}
