package services

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/domain"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
)

// AuthService handles signup and login
type AuthService struct {
	db      *gorm.DB
	invites *InviteService
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB, invites *InviteService) *AuthService {
	return &AuthService{db: db, invites: invites}
}

// WorkerSignupParams carries worker self-service signup fields
type WorkerSignupParams struct {
	Email       string
	Password    string
	Name        string
	Position    string
	InviteToken string
}

// RestaurantSignupParams carries restaurant signup fields. When InviteToken
// is set the user joins the token's organization; otherwise a new
// organization is created from the remaining fields.
type RestaurantSignupParams struct {
	Email            string
	Password         string
	Name             string
	InviteToken      string
	OrganizationName string
	Address          string
	City             string
	Area             string
	EmployeeCeiling  int
	GoalTags         models.JSONB
}

// RegisterWorker creates a worker account with its profile. The optional
// invite token links the worker to the inviting organization.
func (s *AuthService) RegisterWorker(params WorkerSignupParams) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        params.Email,
		PasswordHash: string(hash),
		Role:         models.RoleWorker,
		IsActive:     true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var orgID *uint
		if params.InviteToken != "" {
			invite, err := s.invites.Consume(tx, params.InviteToken)
			if err != nil {
				return err
			}
			orgID = &invite.OrganizationID
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := models.WorkerProfile{
			UserID:         user.ID,
			Name:           params.Name,
			Position:       params.Position,
			OrganizationID: orgID,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, translateSignupError(err)
	}

	log.Printf("[AuthService] Worker registered: %s (ID: %d)", user.Email, user.ID)
	return &user, nil
}

// RegisterRestaurant creates a restaurant account. Without an invite token
// a new organization is created as well.
func (s *AuthService) RegisterRestaurant(params RestaurantSignupParams) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        params.Email,
		PasswordHash: string(hash),
		Role:         models.RoleRestaurant,
		IsActive:     true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var orgID uint
		if params.InviteToken != "" {
			invite, err := s.invites.Consume(tx, params.InviteToken)
			if err != nil {
				return err
			}
			orgID = invite.OrganizationID
		} else {
			org := models.Organization{
				Name:            params.OrganizationName,
				Address:         params.Address,
				City:            params.City,
				Area:            params.Area,
				EmployeeCeiling: params.EmployeeCeiling,
				GoalTags:        params.GoalTags,
			}
			if err := tx.Create(&org).Error; err != nil {
				return err
			}
			orgID = org.ID
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := models.RestaurantProfile{
			UserID:         user.ID,
			OrganizationID: orgID,
			Name:           params.Name,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, translateSignupError(err)
	}

	log.Printf("[AuthService] Restaurant registered: %s (ID: %d)", user.Email, user.ID)
	return &user, nil
}

// Login verifies credentials and returns the user
func (s *AuthService) Login(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	log.Printf("[AuthService] User logged in: %s (ID: %d)", user.Email, user.ID)
	return &user, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetWorkerProfile retrieves the worker profile for a user
func (s *AuthService) GetWorkerProfile(userID uint) (*models.WorkerProfile, error) {
	var profile models.WorkerProfile
	if err := s.db.Where("user_id = ?", userID).Preload("Organization").First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkerProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetRestaurantProfile retrieves the restaurant profile for a user
func (s *AuthService) GetRestaurantProfile(userID uint) (*models.RestaurantProfile, error) {
	var profile models.RestaurantProfile
	if err := s.db.Where("user_id = ?", userID).Preload("Organization").First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// translateSignupError maps unique-violation on users.email to the domain
// error; invite errors pass through untouched
func translateSignupError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrEmailTaken
	}
	if errors.Is(err, domain.ErrInviteNotFound) ||
		errors.Is(err, domain.ErrInviteInactive) ||
		errors.Is(err, domain.ErrInviteExpired) ||
		errors.Is(err, domain.ErrInviteExhausted) {
		return err
	}
	return fmt.Errorf("failed to register user: %w", err)
}
