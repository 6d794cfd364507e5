package ports

import (
	"context"

	"github.com/FelixFS3D/uixom/internal/core/domain"
)

// TokenClaims is the identity embedded in a session token.
type TokenClaims struct {
	UserID string
	Role   domain.Role
}

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	Issue(userID string, role domain.Role) (string, error)
	// Verify returns domain.ErrTokenExpired or domain.ErrTokenInvalid on failure.
	Verify(token string) (*TokenClaims, error)
}

// UpdateProfileInput is the self-service profile update. Changing the password
// requires CurrentPassword to match the stored one.
type UpdateProfileInput struct {
	Name            *string
	Email           *string
	CurrentPassword string
	NewPassword     string
}

// AuthService implements login and profile self-management.
type AuthService interface {
	// Login authenticates staff credentials and returns a session token.
	// Inactive accounts and client-role accounts are rejected with
	// domain.ErrAccountDisabled and domain.ErrForbidden respectively.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error)
}
