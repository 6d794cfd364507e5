package domain

import "errors"

var (
	ErrRequestNotFound    = errors.New("request not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrSelfDeactivation   = errors.New("cannot deactivate own account")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrCurrentPassword    = errors.New("current password incorrect")
	ErrPasswordRequired   = errors.New("current password required")
)
