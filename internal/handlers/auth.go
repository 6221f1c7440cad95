package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/auth"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/services"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a worker or restaurant account.
// POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
		Role        string `json:"role" binding:"required,oneof=worker restaurant"`
		Name        string `json:"name" binding:"required"`
		InviteToken string `json:"invite_token"`

		// Worker fields
		Position string `json:"position"`

		// Restaurant fields
		OrganizationName string       `json:"organization_name"`
		Address          string       `json:"address"`
		City             string       `json:"city"`
		Area             string       `json:"area"`
		EmployeeCeiling  int          `json:"employee_ceiling"`
		GoalTags         models.JSONB `json:"goal_tags"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user *models.User
	var err error

	switch req.Role {
	case string(models.RoleWorker):
		if !models.ValidPosition(req.Position) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown job position"})
			return
		}
		user, err = h.authService.RegisterWorker(services.WorkerSignupParams{
			Email:       req.Email,
			Password:    req.Password,
			Name:        req.Name,
			Position:    req.Position,
			InviteToken: req.InviteToken,
		})
	case string(models.RoleRestaurant):
		if req.InviteToken == "" && req.OrganizationName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "organization_name or invite_token required"})
			return
		}
		user, err = h.authService.RegisterRestaurant(services.RestaurantSignupParams{
			Email:            req.Email,
			Password:         req.Password,
			Name:             req.Name,
			InviteToken:      req.InviteToken,
			OrganizationName: req.OrganizationName,
			Address:          req.Address,
			City:             req.City,
			Area:             req.Area,
			EmployeeCeiling:  req.EmployeeCeiling,
			GoalTags:         req.GoalTags,
		})
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		case errors.Is(err, domain.ErrInviteNotFound),
			errors.Is(err, domain.ErrInviteInactive),
			errors.Is(err, domain.ErrInviteExpired),
			errors.Is(err, domain.ErrInviteExhausted):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		}
		return
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// Login authenticates by email and password.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, domain.ErrAccountInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		}
		return
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout handles user logout (stateless JWT — client-side only)
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged out",
	})
}

// GetMe returns the currently authenticated user's account
// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
