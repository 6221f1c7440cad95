package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// :memory: with cache=shared keeps one database alive for the whole
	// test binary; each test clears the tables it touches.
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	// sqlite permits a single writer at a time; one pooled connection keeps
	// concurrent tests from tripping over lock errors.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access database pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.WorkerProfile{},
		&models.RestaurantProfile{},
		&models.Promotion{},
		&models.Claim{},
		&models.Redemption{},
		&models.InviteToken{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	cleanTables(db)
	return db
}

func cleanTables(db *gorm.DB) {
	for _, table := range []string{
		"redemptions", "claims", "invite_tokens", "promotions",
		"restaurant_profiles", "worker_profiles", "audit_logs",
		"organizations", "users",
	} {
		db.Exec("DELETE FROM " + table)
	}
}

func createTestWorker(t *testing.T, db *gorm.DB, email string) (*models.User, *models.WorkerProfile) {
	user := models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleWorker,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	profile := models.WorkerProfile{
		UserID:   user.ID,
		Name:     "Test Worker",
		Position: models.PositionServer,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create worker profile: %v", err)
	}

	return &user, &profile
}

func createTestOrg(t *testing.T, db *gorm.DB) *models.Organization {
	org := models.Organization{
		Name:    "Testaurant",
		Area:    "downtown",
		LogoURL: "https://example.com/logo.png",
	}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("failed to create organization: %v", err)
	}
	return &org
}

func createTestPromotion(t *testing.T, db *gorm.DB, orgID uint, status string) *models.Promotion {
	promotion := models.Promotion{
		OrganizationID: orgID,
		Title:          "Half-price wings",
		DiscountType:   models.DiscountTypePercent,
		DiscountValue:  decimal.NewFromInt(50),
		Status:         status,
	}
	if err := db.Create(&promotion).Error; err != nil {
		t.Fatalf("failed to create promotion: %v", err)
	}
	return &promotion
}

func TestCreateClaim(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, false)

	claim, err := service.CreateClaim(context.Background(), user.ID, promotion.ID)
	if err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}

	if matched, _ := regexp.MatchString(`^[0-9A-F]{8}$`, claim.Code); !matched {
		t.Errorf("expected 8 uppercase hex chars, got %q", claim.Code)
	}
	if claim.IsRedeemed {
		t.Error("new claim must not be redeemed")
	}
	if got := claim.ExpiresAt.Sub(claim.ClaimedAt); got != 24*time.Hour {
		t.Errorf("expected expiry exactly 24h after claim, got %v", got)
	}

	var updated models.Promotion
	if err := db.First(&updated, promotion.ID).Error; err != nil {
		t.Fatalf("failed to reload promotion: %v", err)
	}
	if updated.CurrentClaims != 1 {
		t.Errorf("expected current_claims 1, got %d", updated.CurrentClaims)
	}
}

func TestCreateClaimPromotionNotFound(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")

	service := NewClaimService(db, 24*time.Hour, false)

	_, err := service.CreateClaim(context.Background(), user.ID, 9999)
	if err != domain.ErrPromotionNotFound {
		t.Errorf("expected ErrPromotionNotFound, got %v", err)
	}
}

func TestCreateClaimWithoutWorkerProfile(t *testing.T) {
	db := setupTestDB(t)
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	user := models.User{Email: "norole@test.io", PasswordHash: "x", Role: models.RoleRestaurant, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	service := NewClaimService(db, 24*time.Hour, false)

	_, err := service.CreateClaim(context.Background(), user.ID, promotion.ID)
	if err != domain.ErrWorkerProfileNotFound {
		t.Errorf("expected ErrWorkerProfileNotFound, got %v", err)
	}
}

func TestCreateClaimRepeatPolicy(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, false)

	if _, err := service.CreateClaim(context.Background(), user.ID, promotion.ID); err != nil {
		t.Fatalf("first CreateClaim failed: %v", err)
	}

	_, err := service.CreateClaim(context.Background(), user.ID, promotion.ID)
	if err != domain.ErrClaimAlreadyActive {
		t.Errorf("expected ErrClaimAlreadyActive, got %v", err)
	}

	// With the repeat policy enabled a second active claim is allowed
	relaxed := NewClaimService(db, 24*time.Hour, true)
	if _, err := relaxed.CreateClaim(context.Background(), user.ID, promotion.ID); err != nil {
		t.Errorf("expected repeat claim to succeed, got %v", err)
	}
}

func TestCreateClaimCodesUnique(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, true)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		claim, err := service.CreateClaim(context.Background(), user.ID, promotion.ID)
		if err != nil {
			t.Fatalf("CreateClaim %d failed: %v", i, err)
		}
		if seen[claim.Code] {
			t.Fatalf("duplicate code issued: %s", claim.Code)
		}
		seen[claim.Code] = true
	}
}

func TestCurrentClaimsCounter(t *testing.T) {
	db := setupTestDB(t)
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, true)

	const n = 5
	for i := 0; i < n; i++ {
		user, _ := createTestWorker(t, db, fmt.Sprintf("worker%d@test.io", i))
		if _, err := service.CreateClaim(context.Background(), user.ID, promotion.ID); err != nil {
			t.Fatalf("CreateClaim %d failed: %v", i, err)
		}
	}

	var updated models.Promotion
	if err := db.First(&updated, promotion.ID).Error; err != nil {
		t.Fatalf("failed to reload promotion: %v", err)
	}
	if updated.CurrentClaims != n {
		t.Errorf("expected current_claims %d, got %d", n, updated.CurrentClaims)
	}

	var count int64
	db.Model(&models.Claim{}).Where("promotion_id = ?", promotion.ID).Count(&count)
	if count != n {
		t.Errorf("expected %d claims, got %d", n, count)
	}
}

func TestConcurrentClaimsCounter(t *testing.T) {
	db := setupTestDB(t)
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, true)

	const n = 8
	users := make([]*models.User, n)
	for i := 0; i < n; i++ {
		users[i], _ = createTestWorker(t, db, fmt.Sprintf("worker%d@test.io", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			if _, err := service.CreateClaim(context.Background(), userID, promotion.ID); err != nil {
				t.Errorf("CreateClaim failed: %v", err)
			}
		}(users[i].ID)
	}
	wg.Wait()

	var updated models.Promotion
	if err := db.First(&updated, promotion.ID).Error; err != nil {
		t.Fatalf("failed to reload promotion: %v", err)
	}
	if updated.CurrentClaims != n {
		t.Errorf("expected current_claims %d after concurrent claims, got %d", n, updated.CurrentClaims)
	}

	var count int64
	db.Model(&models.Claim{}).Where("promotion_id = ?", promotion.ID).Count(&count)
	if count != n {
		t.Errorf("expected %d claims, got %d", n, count)
	}
}

func TestConcurrentRepeatClaimSingleIssue(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, false)

	var wg sync.WaitGroup
	var issued int32
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.CreateClaim(context.Background(), user.ID, promotion.ID)
			switch {
			case err == nil:
				atomic.AddInt32(&issued, 1)
			case errors.Is(err, domain.ErrClaimAlreadyActive):
			default:
				t.Errorf("unexpected CreateClaim error: %v", err)
			}
		}()
	}
	wg.Wait()

	if issued != 1 {
		t.Errorf("expected exactly 1 issued claim, got %d", issued)
	}

	var count int64
	db.Model(&models.Claim{}).Where("promotion_id = ?", promotion.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 claim row, got %d", count)
	}

	var updated models.Promotion
	if err := db.First(&updated, promotion.ID).Error; err != nil {
		t.Fatalf("failed to reload promotion: %v", err)
	}
	if updated.CurrentClaims != 1 {
		t.Errorf("expected current_claims 1, got %d", updated.CurrentClaims)
	}
}

func TestRedeemClaim(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, false)

	claim, err := service.CreateClaim(context.Background(), user.ID, promotion.ID)
	if err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}

	redemption, err := service.RedeemClaim(context.Background(), 77, claim.Code)
	if err != nil {
		t.Fatalf("RedeemClaim failed: %v", err)
	}
	if redemption.ClaimID != claim.ID {
		t.Errorf("redemption references claim %d, want %d", redemption.ClaimID, claim.ID)
	}
	if redemption.RedeemedBy != 77 {
		t.Errorf("redemption recorded redeemer %d, want 77", redemption.RedeemedBy)
	}

	var updated models.Claim
	if err := db.First(&updated, claim.ID).Error; err != nil {
		t.Fatalf("failed to reload claim: %v", err)
	}
	if !updated.IsRedeemed {
		t.Error("claim should be marked redeemed")
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewClaimService(db, 24*time.Hour, false)

	_, err := service.RedeemClaim(context.Background(), 1, "ZZZZZZZZ")
	if err != domain.ErrClaimNotFound {
		t.Errorf("expected ErrClaimNotFound, got %v", err)
	}
}

func TestRedeemTwiceReportsAlreadyRedeemed(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, false)

	claim, err := service.CreateClaim(context.Background(), user.ID, promotion.ID)
	if err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}

	if _, err := service.RedeemClaim(context.Background(), 1, claim.Code); err != nil {
		t.Fatalf("first RedeemClaim failed: %v", err)
	}

	_, err = service.RedeemClaim(context.Background(), 1, claim.Code)
	if err != domain.ErrClaimAlreadyRedeemed {
		t.Errorf("expected ErrClaimAlreadyRedeemed, got %v", err)
	}

	var count int64
	db.Model(&models.Redemption{}).Where("claim_id = ?", claim.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 redemption, got %d", count)
	}
}

func TestConcurrentRedeemSingleWinner(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, false)

	claim, err := service.CreateClaim(context.Background(), user.ID, promotion.ID)
	if err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}

	var wg sync.WaitGroup
	var successes int32
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(redeemer uint) {
			defer wg.Done()
			_, err := service.RedeemClaim(context.Background(), redeemer, claim.Code)
			switch {
			case err == nil:
				atomic.AddInt32(&successes, 1)
			case errors.Is(err, domain.ErrClaimAlreadyRedeemed):
			default:
				t.Errorf("unexpected RedeemClaim error: %v", err)
			}
		}(uint(100 + i))
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly 1 successful redeem, got %d", successes)
	}

	var count int64
	db.Model(&models.Redemption{}).Where("claim_id = ?", claim.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 redemption row, got %d", count)
	}
}

// A redeemed code that has since expired must still report already-redeemed,
// not expired.
func TestRedeemedBeatsExpiredInCheckOrder(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, false)

	claim, err := service.CreateClaim(context.Background(), user.ID, promotion.ID)
	if err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}
	if _, err := service.RedeemClaim(context.Background(), 1, claim.Code); err != nil {
		t.Fatalf("RedeemClaim failed: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Claim{}).Where("id = ?", claim.ID).
		Update("expires_at", past).Error; err != nil {
		t.Fatalf("failed to backdate claim: %v", err)
	}

	_, err = service.RedeemClaim(context.Background(), 1, claim.Code)
	if err != domain.ErrClaimAlreadyRedeemed {
		t.Errorf("expected ErrClaimAlreadyRedeemed, got %v", err)
	}
}

func TestRedeemExpiredCode(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, false)

	claim, err := service.CreateClaim(context.Background(), user.ID, promotion.ID)
	if err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}

	past := time.Now().Add(-time.Second)
	if err := db.Model(&models.Claim{}).Where("id = ?", claim.ID).
		Update("expires_at", past).Error; err != nil {
		t.Fatalf("failed to backdate claim: %v", err)
	}

	_, err = service.RedeemClaim(context.Background(), 1, claim.Code)
	if err != domain.ErrClaimExpired {
		t.Errorf("expected ErrClaimExpired, got %v", err)
	}

	var count int64
	db.Model(&models.Redemption{}).Where("claim_id = ?", claim.ID).Count(&count)
	if count != 0 {
		t.Errorf("expired redeem must not create a redemption, got %d", count)
	}
}

func TestListWorkerClaims(t *testing.T) {
	db := setupTestDB(t)
	user, _ := createTestWorker(t, db, "worker@test.io")
	other, _ := createTestWorker(t, db, "other@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	service := NewClaimService(db, 24*time.Hour, true)

	for i := 0; i < 3; i++ {
		if _, err := service.CreateClaim(context.Background(), user.ID, promotion.ID); err != nil {
			t.Fatalf("CreateClaim failed: %v", err)
		}
	}
	if _, err := service.CreateClaim(context.Background(), other.ID, promotion.ID); err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}

	claims, err := service.ListWorkerClaims(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListWorkerClaims failed: %v", err)
	}
	if len(claims) != 3 {
		t.Errorf("expected 3 claims, got %d", len(claims))
	}
	for _, cl := range claims {
		if cl.Promotion == nil {
			t.Error("expected promotion preloaded on claim")
		}
	}
}
