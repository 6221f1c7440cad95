package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/auth"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/services"
)

// InviteHandler handles invite-token endpoints for restaurant managers
type InviteHandler struct {
	inviteService    *services.InviteService
	promotionService *services.PromotionService
}

// NewInviteHandler creates a new InviteHandler
func NewInviteHandler(inviteService *services.InviteService, promotionService *services.PromotionService) *InviteHandler {
	return &InviteHandler{
		inviteService:    inviteService,
		promotionService: promotionService,
	}
}

// CreateInvite issues an invite token under the caller's organization.
// POST /api/invites (restaurant)
func (h *InviteHandler) CreateInvite(c *gin.Context) {
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
		Role          string `json:"role" binding:"omitempty,oneof=worker restaurant"`
		MaxUses       int    `json:"max_uses"`
		ExpiresInDays int    `json:"expires_in_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.UserRole(req.Role)
	if req.Role == "" {
		role = models.RoleWorker
	}

	var ttl *time.Duration
	if req.ExpiresInDays > 0 {
		d := time.Duration(req.ExpiresInDays) * 24 * time.Hour
		ttl = &d
	}

	invite, err := h.inviteService.CreateInvite(orgID, userID, role, req.MaxUses, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    invite,
	})
}

// ListInvites returns the caller organization's invites.
// GET /api/invites (restaurant)
func (h *InviteHandler) ListInvites(c *gin.Context) {
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

	invites, err := h.inviteService.ListOrganizationInvites(orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    invites,
		"count":   len(invites),
	})
}

// RevokeInvite deactivates an invite owned by the caller's organization.
// DELETE /api/invites/:id (restaurant)
func (h *InviteHandler) RevokeInvite(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite id"})
		return
	}

	orgID, err := h.promotionService.OrganizationIDForUser(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No organization for this account"})
		return
	}

	if err := h.inviteService.Revoke(uint(id), orgID); err != nil {
		if errors.Is(err, domain.ErrInviteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke invite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
