package ports

import (
	"context"
	"time"

	"github.com/FelixFS3D/uixom/internal/core/domain"
)

// CreateRequestInput carries the public contact form fields. CreatedByID is
// empty for anonymous submissions.
type CreateRequestInput struct {
	Name        string
	Phone       string
	Email       string
	Description string
	CreatedByID string
}

// ListRequestsInput carries the raw query parameters for the list endpoint.
// SortBy and SortOrder are requested values; the service resolves them to an
// effective sort which is echoed back in the result.
type ListRequestsInput struct {
	Status    string
	Priority  string
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// SortSpec is the effective sort applied to a listing.
type SortSpec struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// ListRequestsResult is returned by List.
type ListRequestsResult struct {
	Items      []*domain.ServiceRequest
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	Sort       SortSpec
}

// UpdateRequestInput is the partial triage update. An AssignedToID pointing at
// the empty string clears the assignment.
type UpdateRequestInput struct {
	Status       *domain.RequestStatus
	Priority     *domain.RequestPriority
	AssignedToID *string
}

// RequestStats is the zero-filled aggregation returned by Stats: every known
// status and priority key is present even at count 0. Buckets serialize under
// "status" and "priority" so clients can address e.g. priority.urgent.
type RequestStats struct {
	Total       int64                            `json:"total"`
	ByStatus    map[domain.RequestStatus]int64   `json:"status"`
	ByPriority  map[domain.RequestPriority]int64 `json:"priority"`
	GeneratedAt time.Time                        `json:"generatedAt"`
}

// RequestService defines use-case operations for service requests.
// Create is public; every other operation checks the actor against the
// domain role policy.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*domain.ServiceRequest, error)
	List(ctx context.Context, actor Actor, input ListRequestsInput) (*ListRequestsResult, error)
	Stats(ctx context.Context, actor Actor) (*RequestStats, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.ServiceRequest, error)
	Update(ctx context.Context, actor Actor, id string, input UpdateRequestInput) (*domain.ServiceRequest, error)
	AddNote(ctx context.Context, actor Actor, id, text string) ([]domain.Note, error)
	Delete(ctx context.Context, actor Actor, id string) error
}
