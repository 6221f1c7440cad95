package domain

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountInactive       = errors.New("account is inactive")
	ErrWorkerProfileNotFound = errors.New("worker profile not found")
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrPromotionNotFound     = errors.New("promotion not found")
	ErrPromotionNotOwned     = errors.New("promotion belongs to another organization")
	ErrInvalidStatus         = errors.New("invalid promotion status")
	ErrClaimNotFound         = errors.New("invalid code")
	ErrClaimAlreadyRedeemed  = errors.New("code already redeemed")
	ErrClaimExpired          = errors.New("code expired")
	ErrClaimAlreadyActive    = errors.New("promotion already claimed")
	ErrInviteNotFound        = errors.New("invite token not found")
	ErrInviteInactive        = errors.New("invite token is inactive")
	ErrInviteExpired         = errors.New("invite token expired")
	ErrInviteExhausted       = errors.New("invite token has no uses left")
)
