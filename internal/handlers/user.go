package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/auth"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/services"
)

// UserHandler handles profile endpoints
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetProfile returns the role-specific profile of the caller
// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	role, _ := auth.GetUserRole(c)

	switch role {
	case string(models.RoleWorker):
		profile, err := h.authService.GetWorkerProfile(userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
	case string(models.RoleRestaurant):
		profile, err := h.authService.GetRestaurantProfile(userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
	default:
		user, err := h.authService.GetUserByID(userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	}
}
