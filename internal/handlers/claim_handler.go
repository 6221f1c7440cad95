package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/auth"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/metrics"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/services"
)

// ClaimHandler handles the claim and redemption endpoints
type ClaimHandler struct {
	claimService *services.ClaimService
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(claimService *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// CreateClaim issues a redemption code on a promotion for the caller.
// POST /api/claims (worker)
func (h *ClaimHandler) CreateClaim(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		PromotionID uint `json:"promotion_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := h.claimService.CreateClaim(c.Request.Context(), userID, req.PromotionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPromotionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
		case errors.Is(err, domain.ErrWorkerProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker profile not found"})
		case errors.Is(err, domain.ErrClaimAlreadyActive):
			c.JSON(http.StatusConflict, gin.H{"error": "You already have an active claim on this promotion"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create claim"})
		}
		return
	}

	metrics.ClaimsCreated.Inc()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    claim,
	})
}

// ListClaims returns the caller's claims.
// GET /api/claims (worker)
func (h *ClaimHandler) ListClaims(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	claims, err := h.claimService.ListWorkerClaims(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkerProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch claims"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    claims,
		"count":   len(claims),
	})
}

// RedeemClaim validates a code at point of service. The three failure
// reasons map to distinct responses so staff can react correctly.
// POST /api/redemptions (restaurant)
func (h *ClaimHandler) RedeemClaim(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	redemption, err := h.claimService.RedeemClaim(c.Request.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClaimNotFound):
			metrics.RedemptionsTotal.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid code"})
		case errors.Is(err, domain.ErrClaimAlreadyRedeemed):
			metrics.RedemptionsTotal.WithLabelValues("already_redeemed").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code already redeemed"})
		case errors.Is(err, domain.ErrClaimExpired):
			metrics.RedemptionsTotal.WithLabelValues("expired").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to redeem code"})
		}
		return
	}

	metrics.RedemptionsTotal.WithLabelValues("success").Inc()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    redemption,
	})
}
