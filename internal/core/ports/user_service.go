package ports

import (
	"context"

	"github.com/FelixFS3D/uixom/internal/core/domain"
)

// CreateUserInput carries the fields for an admin-created account.
// Role defaults to client when empty.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput is the admin partial update: nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *domain.Role
	IsActive *bool
}

// ListUsersInput carries the raw query parameters for the user listing.
type ListUsersInput struct {
	Role     string
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}

// ListUsersResult is returned by List.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService defines use-case operations for account management.
// Deactivate is the "delete" operation: accounts are never hard-deleted.
type UserService interface {
	List(ctx context.Context, actor Actor, input ListUsersInput) (*ListUsersResult, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.User, error)
	Create(ctx context.Context, actor Actor, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor Actor, id string, input UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, actor Actor, id string) error
}
