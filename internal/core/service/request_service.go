package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// sortFields maps the allowed sortBy keys to store column names. Any other
// key falls back to createdAt.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"status":    "status",
	"priority":  "priority",
}

// RequestNotifier receives fire-and-forget notifications about new requests.
// Delivery failures must never surface to the caller.
type RequestNotifier interface {
	RequestCreated(r *domain.ServiceRequest)
}

// RequestService orchestrates the request lifecycle, applying the domain role
// policy before any store access.
type RequestService struct {
	repo     ports.RequestRepository
	users    ports.UserRepository
	notifier RequestNotifier
	logger   zerolog.Logger
}

// NewRequestService builds a RequestService. notifier may be nil when the
// notification feature is disabled.
func NewRequestService(repo ports.RequestRepository, users ports.UserRepository, notifier RequestNotifier, logger zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, users: users, notifier: notifier, logger: logger}
}

// Create persists a new request with default status and priority and enqueues
// the notification side effect after the write commits.
func (s *RequestService) Create(ctx context.Context, input ports.CreateRequestInput) (*domain.ServiceRequest, error) {
	now := time.Now().UTC()
	req := &domain.ServiceRequest{
		Name:        strings.TrimSpace(input.Name),
		Phone:       strings.TrimSpace(input.Phone),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.StatusNew,
		Priority:    domain.PriorityMedium,
		CreatedByID: input.CreatedByID,
		Notes:       []domain.Note{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create request")
		return nil, err
	}

	s.logger.Info().Str("request_id", created.ID).Str("email", created.Email).Msg("request created")

	if s.notifier != nil {
		s.notifier.RequestCreated(created)
	}
	return created, nil
}

// List returns a page of requests. The requested sort is resolved to an
// effective one (unknown field → createdAt, unknown order → desc) and echoed
// back so callers can distinguish requested from applied.
func (s *RequestService) List(ctx context.Context, actor ports.Actor, input ports.ListRequestsInput) (*ports.ListRequestsResult, error) {
	if !domain.CanManageRequests(actor.Role) {
		return nil, domain.ErrForbidden
	}

	page, limit := normalizePage(input.Page, input.Limit)
	sortBy, field := "createdAt", "created_at"
	if f, ok := sortFields[input.SortBy]; ok {
		sortBy, field = input.SortBy, f
	}
	order := "desc"
	if input.SortOrder == "asc" {
		order = "asc"
	}

	filter := ports.ListRequestsFilter{
		Status:    input.Status,
		Priority:  input.Priority,
		Search:    strings.TrimSpace(input.Search),
		Page:      page,
		Limit:     limit,
		SortField: field,
		SortAsc:   order == "asc",
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list requests")
		return nil, err
	}

	if err := s.enrich(ctx, items...); err != nil {
		s.logger.Warn().Err(err).Msg("failed to resolve user references")
	}

	return &ports.ListRequestsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
		Sort:       ports.SortSpec{Field: sortBy, Order: order},
	}, nil
}

// Stats returns counts per status and per priority with zero-filled buckets:
// every known enum key is present even when no document matches it.
func (s *RequestService) Stats(ctx context.Context, actor ports.Actor) (*ports.RequestStats, error) {
	if !domain.CanManageRequests(actor.Role) {
		return nil, domain.ErrForbidden
	}

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to aggregate request stats")
		return nil, err
	}

	stats := &ports.RequestStats{
		Total:       counts.Total,
		ByStatus:    make(map[domain.RequestStatus]int64, len(domain.RequestStatuses)),
		ByPriority:  make(map[domain.RequestPriority]int64, len(domain.RequestPriorities)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, st := range domain.RequestStatuses {
		stats.ByStatus[st] = 0
	}
	for _, p := range domain.RequestPriorities {
		stats.ByPriority[p] = 0
	}
	for _, b := range counts.ByStatus {
		if st := domain.RequestStatus(b.Key); st.IsValid() {
			stats.ByStatus[st] = b.Count
		}
	}
	for _, b := range counts.ByPriority {
		if p := domain.RequestPriority(b.Key); p.IsValid() {
			stats.ByPriority[p] = b.Count
		}
	}
	return stats, nil
}

func (s *RequestService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.ServiceRequest, error) {
	if !domain.CanManageRequests(actor.Role) {
		return nil, domain.ErrForbidden
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, req); err != nil {
		s.logger.Warn().Err(err).Str("request_id", id).Msg("failed to resolve user references")
	}
	return req, nil
}

// Update applies a partial triage update and returns the request re-fetched
// with references resolved.
func (s *RequestService) Update(ctx context.Context, actor ports.Actor, id string, input ports.UpdateRequestInput) (*domain.ServiceRequest, error) {
	if !domain.CanManageRequests(actor.Role) {
		return nil, domain.ErrForbidden
	}

	updated, err := s.repo.Update(ctx, id, ports.RequestUpdate{
		Status:       input.Status,
		Priority:     input.Priority,
		AssignedToID: input.AssignedToID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, updated); err != nil {
		s.logger.Warn().Err(err).Str("request_id", id).Msg("failed to resolve user references")
	}

	s.logger.Info().Str("request_id", id).Str("actor_id", actor.ID).Msg("request updated")
	return updated, nil
}

// AddNote appends a note authored by the acting staff member and returns the
// updated notes list with authors resolved.
func (s *RequestService) AddNote(ctx context.Context, actor ports.Actor, id, text string) ([]domain.Note, error) {
	if !domain.CanManageRequests(actor.Role) {
		return nil, domain.ErrForbidden
	}

	note := domain.Note{
		Text:      strings.TrimSpace(text),
		AuthorID:  actor.ID,
		CreatedAt: time.Now().UTC(),
	}

	notes, err := s.repo.AddNote(ctx, id, note)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		if n.AuthorID != "" {
			ids = append(ids, n.AuthorID)
		}
	}
	summaries, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Str("request_id", id).Msg("failed to resolve note authors")
	} else {
		for i := range notes {
			if sum, ok := summaries[notes[i].AuthorID]; ok {
				sumCopy := sum
				notes[i].Author = &sumCopy
			}
		}
	}

	s.logger.Info().Str("request_id", id).Str("actor_id", actor.ID).Msg("note added")
	return notes, nil
}

func (s *RequestService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	if !domain.CanDeleteRequest(actor.Role) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("request_id", id).Str("actor_id", actor.ID).Msg("request deleted")
	return nil
}

// enrich batch-resolves createdBy, assignedTo and note author references to
// user summaries. The store's read API stays free of implicit joins.
func (s *RequestService) enrich(ctx context.Context, reqs ...*domain.ServiceRequest) error {
	var ids []string
	for _, r := range reqs {
		if r.CreatedByID != "" {
			ids = append(ids, r.CreatedByID)
		}
		if r.AssignedToID != "" {
			ids = append(ids, r.AssignedToID)
		}
		for _, n := range r.Notes {
			if n.AuthorID != "" {
				ids = append(ids, n.AuthorID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	summaries, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		return err
	}
	for _, r := range reqs {
		if sum, ok := summaries[r.CreatedByID]; ok {
			sumCopy := sum
			r.CreatedBy = &sumCopy
		}
		if sum, ok := summaries[r.AssignedToID]; ok {
			sumCopy := sum
			r.AssignedTo = &sumCopy
		}
		for i := range r.Notes {
			if sum, ok := summaries[r.Notes[i].AuthorID]; ok {
				sumCopy := sum
				r.Notes[i].Author = &sumCopy
			}
		}
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
