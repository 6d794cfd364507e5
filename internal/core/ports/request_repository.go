package ports

import (
	"context"

	"github.com/FelixFS3D/uixom/internal/core/domain"
)

// ListRequestsFilter carries the resolved query for listing service requests.
// SortField is a store column name already resolved by the service layer.
type ListRequestsFilter struct {
	Status    string // optional: exact status match
	Priority  string // optional: exact priority match
	Search    string // optional: case-insensitive partial match on name, email or description
	Page      int    // 1-based
	Limit     int
	SortField string
	SortAsc   bool
}

// RequestUpdate is a partial update: nil fields are left untouched.
// An AssignedToID pointing at the empty string clears the assignment.
type RequestUpdate struct {
	Status       *domain.RequestStatus
	Priority     *domain.RequestPriority
	AssignedToID *string
}

// StatusCount is one aggregation bucket returned by CountByStatus/Priority.
type StatusCount struct {
	Key   string
	Count int64
}

// RequestCounts holds the raw aggregation output for the stats endpoint.
// Buckets with no matching documents are absent; the service zero-fills them.
type RequestCounts struct {
	Total      int64
	ByStatus   []StatusCount
	ByPriority []StatusCount
}

// RequestRepository defines persistence operations for service requests.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.ServiceRequest) (*domain.ServiceRequest, error)
	// FindByID returns domain.ErrRequestNotFound when no document matches.
	FindByID(ctx context.Context, id string) (*domain.ServiceRequest, error)
	// List returns a page of requests matching filter and the total count.
	List(ctx context.Context, filter ListRequestsFilter) ([]*domain.ServiceRequest, int64, error)
	// Update applies the non-nil fields and returns the updated request.
	Update(ctx context.Context, id string, upd RequestUpdate) (*domain.ServiceRequest, error)
	// AddNote appends a note and returns the full updated notes list.
	AddNote(ctx context.Context, id string, note domain.Note) ([]domain.Note, error)
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context) (*RequestCounts, error)
}
