package handler

import (
	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

type createRequestRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=100"`
	Phone       string `json:"phone"       validate:"required,min=7,max=20,phone"`
	Email       string `json:"email"       validate:"required,email"`
	Description string `json:"description" validate:"required,min=10,max=1000"`
}

// updateRequestRequest is the partial triage update. An empty assignedTo
// clears the assignment.
type updateRequestRequest struct {
	Status     *string `json:"status"     validate:"omitempty,oneof=new in_progress done cancelled"`
	Priority   *string `json:"priority"   validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo *string `json:"assignedTo" validate:"omitempty,len=24,hexadecimal"`
}

func (r *updateRequestRequest) empty() bool {
	return r.Status == nil && r.Priority == nil && r.AssignedTo == nil
}

type addNoteRequest struct {
	Text string `json:"text" validate:"required,min=3,max=1000"`
}

type paginationResponse struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type listRequestsResponse struct {
	Requests   []*domain.ServiceRequest `json:"requests"`
	Pagination paginationResponse       `json:"pagination"`
	Sort       ports.SortSpec           `json:"sort"`
}

type notesResponse struct {
	Notes []domain.Note `json:"notes"`
}

type messageResponse struct {
	Message string `json:"message"`
}
