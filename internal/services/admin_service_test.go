package services

import (
	"context"
	"testing"
	"time"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
)

func TestUpdateUserWritesAuditLog(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db)

	admin := models.User{Email: "admin@test.io", PasswordHash: "x", Role: models.RoleSuperAdmin, IsActive: true}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	target, _ := createTestWorker(t, db, "target@test.io")

	active := false
	updated, err := service.UpdateUser(admin.ID, target.ID, nil, &active)
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.IsActive {
		t.Error("expected user deactivated")
	}

	logs, err := service.GetAuditLogs(10, 0)
	if err != nil {
		t.Fatalf("GetAuditLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(logs))
	}
	if logs[0].Action != "UPDATE_USER" {
		t.Errorf("expected UPDATE_USER action, got %s", logs[0].Action)
	}
	if logs[0].ActorID != admin.ID {
		t.Errorf("expected actor %d, got %d", admin.ID, logs[0].ActorID)
	}
}

func TestUpdateUserRejectsUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db)
	target, _ := createTestWorker(t, db, "target@test.io")

	bad := "owner"
	if _, err := service.UpdateUser(1, target.ID, &bad, nil); err == nil {
		t.Error("expected error for unknown role")
	}

	role := string(models.RoleRestaurant)
	if _, err := service.UpdateUser(1, 9999, &role, nil); err != domain.ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestVerifyWorker(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db)
	_, profile := createTestWorker(t, db, "target@test.io")

	verified, err := service.VerifyWorker(1, profile.ID)
	if err != nil {
		t.Fatalf("VerifyWorker failed: %v", err)
	}
	if !verified.IsVerified {
		t.Error("expected profile verified")
	}

	if _, err := service.VerifyWorker(1, 9999); err != domain.ErrWorkerProfileNotFound {
		t.Errorf("expected ErrWorkerProfileNotFound, got %v", err)
	}
}

func TestGetPlatformStats(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db)

	worker, _ := createTestWorker(t, db, "w1@test.io")
	org := createTestOrg(t, db)
	promotion := createTestPromotion(t, db, org.ID, models.PromotionStatusActive)

	claims := NewClaimService(db, 24*time.Hour, false)
	claim, err := claims.CreateClaim(context.Background(), worker.ID, promotion.ID)
	if err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}
	if _, err := claims.RedeemClaim(context.Background(), 1, claim.Code); err != nil {
		t.Fatalf("RedeemClaim failed: %v", err)
	}

	stats, err := service.GetPlatformStats()
	if err != nil {
		t.Fatalf("GetPlatformStats failed: %v", err)
	}
	if stats.TotalWorkers != 1 {
		t.Errorf("expected 1 worker, got %d", stats.TotalWorkers)
	}
	if stats.ActivePromotions != 1 {
		t.Errorf("expected 1 active promotion, got %d", stats.ActivePromotions)
	}
	if stats.TotalClaims != 1 || stats.TotalRedemptions != 1 {
		t.Errorf("expected 1 claim and 1 redemption, got %d/%d", stats.TotalClaims, stats.TotalRedemptions)
	}
	if !stats.RedemptionRate.Equal(stats.RedemptionRate.Round(4)) {
		t.Errorf("redemption rate not rounded: %s", stats.RedemptionRate)
	}
	if stats.RedemptionRate.IsZero() {
		t.Error("expected nonzero redemption rate")
	}
}
