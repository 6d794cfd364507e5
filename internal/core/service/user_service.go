package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

// UserService orchestrates account management, applying the role-escalation
// policy before persistence.
type UserService struct {
	repo       ports.UserRepository
	bcryptCost int
	logger     zerolog.Logger
}

func NewUserService(repo ports.UserRepository, bcryptCost int, logger zerolog.Logger) *UserService {
	if bcryptCost < minBcryptCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

func (s *UserService) List(ctx context.Context, actor ports.Actor, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	if !actor.Role.IsStaff() {
		return nil, domain.ErrForbidden
	}

	page, limit := normalizePage(input.Page, input.Limit)

	// Unknown role values are ignored rather than rejected.
	role := input.Role
	if !domain.Role(role).IsValid() {
		role = ""
	}

	items, total, err := s.repo.List(ctx, ports.ListUsersFilter{
		Role:     role,
		IsActive: input.IsActive,
		Search:   strings.TrimSpace(input.Search),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, err
	}

	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *UserService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.User, error) {
	if !actor.Role.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindByID(ctx, id)
}

// Create registers a new account. The role defaults to client and is gated by
// the escalation policy: an admin may only create client accounts.
func (s *UserService) Create(ctx context.Context, actor ports.Actor, input ports.CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleClient
	}
	if !domain.CanAssignRole(actor.Role, role) {
		return nil, domain.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", created.Email).Str("role", string(created.Role)).Str("created_by", actor.ID).Msg("user created")
	return created, nil
}

// Update applies an admin partial update. Editing a super_admin target and
// escalating any role are both gated by the policy before the store is touched.
func (s *UserService) Update(ctx context.Context, actor ports.Actor, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanManageUser(actor.Role, user.Role) {
		return nil, domain.ErrForbidden
	}
	if input.Role != nil && !domain.CanAssignRole(actor.Role, *input.Role) {
		return nil, domain.ErrForbidden
	}

	upd := ports.UserUpdate{
		Name:     input.Name,
		Role:     input.Role,
		IsActive: input.IsActive,
	}
	if input.Email != nil && *input.Email != user.Email {
		if existing, err := s.repo.FindByEmail(ctx, *input.Email); err == nil && existing != nil {
			return nil, domain.ErrEmailTaken
		}
		upd.Email = input.Email
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", updated.Email).Str("updated_by", actor.ID).Msg("user updated")
	return updated, nil
}

// Deactivate flips isActive off. The record is never removed, and actors can
// never deactivate themselves.
func (s *UserService) Deactivate(ctx context.Context, actor ports.Actor, id string) error {
	if !domain.CanDeactivateUser(actor.Role) {
		return domain.ErrForbidden
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.ID == actor.ID {
		return domain.ErrSelfDeactivation
	}

	inactive := false
	if _, err := s.repo.Update(ctx, id, ports.UserUpdate{IsActive: &inactive}); err != nil {
		return err
	}

	s.logger.Info().Str("email", user.Email).Str("deactivated_by", actor.ID).Msg("user deactivated")
	return nil
}
