package domain

import "time"

// RequestStatus represents the triage state of a service request.
type RequestStatus string

const (
	StatusNew        RequestStatus = "new"
	StatusInProgress RequestStatus = "in_progress"
	StatusDone       RequestStatus = "done"
	StatusCancelled  RequestStatus = "cancelled"
)

// RequestStatuses lists every known status, in declaration order.
var RequestStatuses = []RequestStatus{StatusNew, StatusInProgress, StatusDone, StatusCancelled}

// IsValid reports whether s is one of the four known statuses.
func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// RequestPriority represents the urgency assigned to a service request.
type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

// RequestPriorities lists every known priority, in declaration order.
var RequestPriorities = []RequestPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// IsValid reports whether p is one of the four known priorities.
func (p RequestPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Note is a single staff annotation on a request. Notes are append-only.
type Note struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	AuthorID  string       `json:"-"`
	Author    *UserSummary `json:"author,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ServiceRequest is a client request submitted through the public contact form.
// CreatedBy is nil for anonymous public submissions. References to users are
// weak: no integrity is enforced against deactivated or removed accounts.
type ServiceRequest struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Description  string          `json:"description"`
	Status       RequestStatus   `json:"status"`
	Priority     RequestPriority `json:"priority"`
	CreatedByID  string          `json:"-"`
	CreatedBy    *UserSummary    `json:"createdBy"`
	AssignedToID string          `json:"-"`
	AssignedTo   *UserSummary    `json:"assignedTo"`
	Notes        []Note          `json:"notes"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
