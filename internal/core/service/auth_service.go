package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

const minBcryptCost = 8

// AuthService implements login and profile self-management.
type AuthService struct {
	users      ports.UserRepository
	tokens     ports.TokenService
	bcryptCost int
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost < minBcryptCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

// Login authenticates staff credentials. Guard order matters: an inactive or
// client-role account is rejected before the password is even checked, so a
// deactivated admin with correct credentials gets 403, not 401.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, domain.ErrAccountDisabled
	}
	if !domain.CanLogin(user.Role) {
		return "", nil, domain.ErrForbidden
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.SetLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = &now
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("email", user.Email).Msg("user logged in")
	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies the self-service update. The password is re-hashed
// only when a new one is provided; unrelated field updates never touch the
// stored hash.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	upd := ports.UserUpdate{Name: input.Name}

	if input.Email != nil && *input.Email != user.Email {
		if existing, err := s.users.FindByEmail(ctx, *input.Email); err == nil && existing != nil {
			return nil, domain.ErrEmailTaken
		}
		upd.Email = input.Email
	}

	if input.NewPassword != "" {
		if input.CurrentPassword == "" {
			return nil, domain.ErrPasswordRequired
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)) != nil {
			return nil, domain.ErrCurrentPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		upd.PasswordHash = &hashed
	}

	updated, err := s.users.Update(ctx, userID, upd)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", updated.Email).Msg("profile updated")
	return updated, nil
}
