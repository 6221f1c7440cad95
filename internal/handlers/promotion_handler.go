package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/auth"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/metrics"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/services"
)

// PromotionHandler handles promotion endpoints
type PromotionHandler struct {
	promotionService *services.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler
func NewPromotionHandler(promotionService *services.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// ListPromotions returns active promotions with denormalized restaurant
// fields for the worker feed.
// GET /api/promotions (public)
func (h *PromotionHandler) ListPromotions(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	listings, err := h.promotionService.ListActive(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promotions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listings,
		"count":   len(listings),
	})
}

// RecordImpression bumps a promotion's view counter. Fire-and-forget.
// POST /api/promotions/:id/impressions (public)
func (h *PromotionHandler) RecordImpression(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promotion id"})
		return
	}

	h.promotionService.IncrementImpression(uint(id))
	metrics.ImpressionsRecorded.Inc()

	c.Status(http.StatusNoContent)
}

// CreatePromotion creates a promotion under the caller's organization.
// POST /api/promotions (restaurant)
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orgID, err := h.promotionService.OrganizationIDForUser(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No organization for this account"})
		return
	}

	var req struct {
		Title         string          `json:"title" binding:"required"`
		Description   string          `json:"description"`
		ImageURL      string          `json:"image_url"`
		DiscountType  string          `json:"discount_type" binding:"required,oneof=percent fixed"`
		DiscountValue decimal.Decimal `json:"discount_value" binding:"required"`
		Status        string          `json:"status"`
		StartDate     *time.Time      `json:"start_date"`
		EndDate       *time.Time      `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	promotion, err := h.promotionService.CreatePromotion(orgID, services.PromotionParams{
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		Status:        req.Status,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promotion status"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promotion"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    promotion,
	})
}

// UpdatePromotion mutates fields or status of an owned promotion.
// PATCH /api/promotions/:id (restaurant)
func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promotion id"})
		return
	}

	orgID, err := h.promotionService.OrganizationIDForUser(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No organization for this account"})
		return
	}

	var req struct {
		Title         *string          `json:"title"`
		Description   *string          `json:"description"`
		ImageURL      *string          `json:"image_url"`
		DiscountType  *string          `json:"discount_type"`
		DiscountValue *decimal.Decimal `json:"discount_value"`
		Status        *string          `json:"status"`
		StartDate     *time.Time       `json:"start_date"`
		EndDate       *time.Time       `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	promotion, err := h.promotionService.UpdatePromotion(orgID, uint(id), services.PromotionUpdate{
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		Status:        req.Status,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPromotionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
		case errors.Is(err, domain.ErrPromotionNotOwned):
			c.JSON(http.StatusForbidden, gin.H{"error": "Promotion belongs to another organization"})
		case errors.Is(err, domain.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promotion status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update promotion"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    promotion,
	})
}

// ListMyPromotions returns the caller organization's promotions.
// GET /api/promotions/mine (restaurant)
func (h *PromotionHandler) ListMyPromotions(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orgID, err := h.promotionService.OrganizationIDForUser(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No organization for this account"})
		return
	}

	promotions, err := h.promotionService.ListByOrganization(orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promotions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    promotions,
		"count":   len(promotions),
	})
}
