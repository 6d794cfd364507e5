package ports

import (
	"context"
	"time"

	"github.com/FelixFS3D/uixom/internal/core/domain"
)

// ListUsersFilter carries all query parameters for listing accounts.
type ListUsersFilter struct {
	Role     string // optional: one of the known roles, already validated
	IsActive *bool  // optional: filter by activation flag
	Search   string // optional: case-insensitive partial match on name or email
	Page     int    // 1-based
	Limit    int
}

// UserUpdate is a partial update: nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	Role         *domain.Role
	IsActive     *bool
	PasswordHash *string
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns a page of users matching filter and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	// Update applies the non-nil fields and returns the updated account.
	Update(ctx context.Context, id string, upd UserUpdate) (*domain.User, error)
	// FindSummaries batch-resolves ids to reference projections. Unknown ids
	// are simply absent from the result; no error is raised for them.
	FindSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error)
	SetLastLogin(ctx context.Context, id string, at time.Time) error
}
