package handler

import "github.com/FelixFS3D/uixom/internal/core/domain"

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userView is the compact account projection returned by auth endpoints.
type userView struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func toUserView(u *domain.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type loginResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    userView `json:"user"`
}

// updateProfileRequest is the self-service update. All fields are optional
// but at least one must be present; setting a new password requires the
// current one.
type updateProfileRequest struct {
	Name            *string `json:"name"            validate:"omitempty,min=2,max=100"`
	Email           *string `json:"email"           validate:"omitempty,email"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"     validate:"omitempty,min=6,max=128"`
}

func (r *updateProfileRequest) empty() bool {
	return r.Name == nil && r.Email == nil && r.CurrentPassword == "" && r.NewPassword == ""
}

type updateProfileResponse struct {
	Message string   `json:"message"`
	User    userView `json:"user"`
}
