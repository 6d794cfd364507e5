package handler

import "github.com/FelixFS3D/uixom/internal/core/domain"

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role"     validate:"omitempty,oneof=super_admin admin client"`
}

type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Role     *string `json:"role"     validate:"omitempty,oneof=super_admin admin client"`
	IsActive *bool   `json:"isActive"`
}

func (r *updateUserRequest) empty() bool {
	return r.Name == nil && r.Email == nil && r.Role == nil && r.IsActive == nil
}

type listUsersResponse struct {
	Users      []*domain.User     `json:"users"`
	Pagination paginationResponse `json:"pagination"`
}

type userResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}
