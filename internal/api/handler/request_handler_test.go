package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

type stubRequestService struct {
	createFn  func(ctx context.Context, input ports.CreateRequestInput) (*domain.ServiceRequest, error)
	listFn    func(ctx context.Context, actor ports.Actor, input ports.ListRequestsInput) (*ports.ListRequestsResult, error)
	statsFn   func(ctx context.Context, actor ports.Actor) (*ports.RequestStats, error)
	getFn     func(ctx context.Context, actor ports.Actor, id string) (*domain.ServiceRequest, error)
	updateFn  func(ctx context.Context, actor ports.Actor, id string, input ports.UpdateRequestInput) (*domain.ServiceRequest, error)
	addNoteFn func(ctx context.Context, actor ports.Actor, id, text string) ([]domain.Note, error)
	deleteFn  func(ctx context.Context, actor ports.Actor, id string) error
}

func (s *stubRequestService) Create(ctx context.Context, input ports.CreateRequestInput) (*domain.ServiceRequest, error) {
	return s.createFn(ctx, input)
}

func (s *stubRequestService) List(ctx context.Context, actor ports.Actor, input ports.ListRequestsInput) (*ports.ListRequestsResult, error) {
	return s.listFn(ctx, actor, input)
}

func (s *stubRequestService) Stats(ctx context.Context, actor ports.Actor) (*ports.RequestStats, error) {
	return s.statsFn(ctx, actor)
}

func (s *stubRequestService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.ServiceRequest, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubRequestService) Update(ctx context.Context, actor ports.Actor, id string, input ports.UpdateRequestInput) (*domain.ServiceRequest, error) {
	return s.updateFn(ctx, actor, id, input)
}

func (s *stubRequestService) AddNote(ctx context.Context, actor ports.Actor, id, text string) ([]domain.Note, error) {
	return s.addNoteFn(ctx, actor, id, text)
}

func (s *stubRequestService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func TestRequestHandler_Create_Public(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubRequestService{
		createFn: func(ctx context.Context, input ports.CreateRequestInput) (*domain.ServiceRequest, error) {
			if input.CreatedByID != "" {
				t.Fatalf("anonymous submission must not carry a creator: %s", input.CreatedByID)
			}
			return &domain.ServiceRequest{
				ID:       "req_1",
				Name:     input.Name,
				Status:   domain.StatusNew,
				Priority: domain.PriorityMedium,
				Notes:    []domain.Note{},
			}, nil
		},
	}
	h := NewRequestHandler(stub)

	body := `{"name":"Juan Pérez","phone":"+52 55 1234 5678","email":"juan@example.com","description":"Necesito una cotización para mi sitio web."}`
	c, rec := newTestContext(e, http.MethodPost, "/api/requests", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "new" || resp["priority"] != "medium" {
		t.Fatalf("unexpected defaults: %v %v", resp["status"], resp["priority"])
	}
}

func TestRequestHandler_Create_AuthenticatedRecordsCreator(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubRequestService{
		createFn: func(ctx context.Context, input ports.CreateRequestInput) (*domain.ServiceRequest, error) {
			if input.CreatedByID != "u1" {
				t.Fatalf("expected creator u1, got %q", input.CreatedByID)
			}
			return &domain.ServiceRequest{ID: "req_1", Status: domain.StatusNew, Priority: domain.PriorityMedium}, nil
		},
	}
	h := NewRequestHandler(stub)

	body := `{"name":"Juan","phone":"5512345678","email":"juan@example.com","description":"Cotización para un proyecto."}`
	c, _ := newTestContext(e, http.MethodPost, "/api/requests", body)
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleAdmin})

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRequestHandler_Create_ValidationErrors(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubRequestService{
		createFn: func(ctx context.Context, input ports.CreateRequestInput) (*domain.ServiceRequest, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewRequestHandler(stub)

	// Bad phone characters and a too-short description.
	body := `{"name":"Juan","phone":"55-ABC-5678","email":"juan@example.com","description":"corta"}`
	c, _ := newTestContext(e, http.MethodPost, "/api/requests", body)

	err := h.Create(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, fe := range ve.Errors {
		fields[fe.Field] = true
	}
	if !fields["phone"] || !fields["description"] {
		t.Fatalf("expected errors on phone and description, got %v", ve.Errors)
	}
}

func TestRequestHandler_List_MapsQueryParams(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubRequestService{
		listFn: func(ctx context.Context, actor ports.Actor, input ports.ListRequestsInput) (*ports.ListRequestsResult, error) {
			if input.Status != "new" || input.Priority != "high" || input.Search != "juan" {
				t.Fatalf("filters not forwarded: %+v", input)
			}
			if input.Page != 2 || input.Limit != 5 {
				t.Fatalf("pagination not forwarded: %+v", input)
			}
			if input.SortBy != "priority" || input.SortOrder != "asc" {
				t.Fatalf("sort not forwarded: %+v", input)
			}
			return &ports.ListRequestsResult{
				Items: nil, Total: 0, Page: 2, Limit: 5,
				Sort: ports.SortSpec{Field: "priority", Order: "asc"},
			}, nil
		},
	}
	h := NewRequestHandler(stub)

	c, rec := newTestContext(e, http.MethodGet, "/api/requests?status=new&priority=high&search=juan&page=2&limit=5&sortBy=priority&sortOrder=asc", "")
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleAdmin})

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	// An empty page must serialize as [], not null.
	if reqs, ok := resp["requests"].([]any); !ok || reqs == nil {
		t.Fatalf("expected empty array for requests, got %v", resp["requests"])
	}
	sort, ok := resp["sort"].(map[string]any)
	if !ok || sort["field"] != "priority" || sort["order"] != "asc" {
		t.Fatalf("expected effective sort echoed, got %v", resp["sort"])
	}
}

func TestRequestHandler_List_NoActor(t *testing.T) {
	e := newHandlerEcho()
	h := NewRequestHandler(&stubRequestService{})

	c, _ := newTestContext(e, http.MethodGet, "/api/requests", "")
	err := h.List(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestRequestHandler_Update_EmptyBody(t *testing.T) {
	e := newHandlerEcho()
	h := NewRequestHandler(&stubRequestService{})

	c, _ := newTestContext(e, http.MethodPatch, "/api/requests/req_1", `{}`)
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleAdmin})

	err := h.Update(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRequestHandler_Update_InvalidStatus(t *testing.T) {
	e := newHandlerEcho()
	h := NewRequestHandler(&stubRequestService{})

	c, _ := newTestContext(e, http.MethodPatch, "/api/requests/req_1", `{"status":"archived"}`)
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleAdmin})

	err := h.Update(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRequestHandler_Update_MapsEnums(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubRequestService{
		updateFn: func(ctx context.Context, actor ports.Actor, id string, input ports.UpdateRequestInput) (*domain.ServiceRequest, error) {
			if id != "req_1" {
				t.Fatalf("unexpected id: %s", id)
			}
			if input.Status == nil || *input.Status != domain.StatusInProgress {
				t.Fatalf("status not mapped: %+v", input.Status)
			}
			if input.Priority == nil || *input.Priority != domain.PriorityHigh {
				t.Fatalf("priority not mapped: %+v", input.Priority)
			}
			return &domain.ServiceRequest{ID: id, Status: *input.Status, Priority: *input.Priority}, nil
		},
	}
	h := NewRequestHandler(stub)

	c, rec := newTestContext(e, http.MethodPatch, "/api/requests/req_1", `{"status":"in_progress","priority":"high"}`)
	c.SetParamNames("id")
	c.SetParamValues("req_1")
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleAdmin})

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestHandler_AddNote(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubRequestService{
		addNoteFn: func(ctx context.Context, actor ports.Actor, id, text string) ([]domain.Note, error) {
			if text != "Cliente contactado." {
				t.Fatalf("text not trimmed: %q", text)
			}
			return []domain.Note{{ID: "note_1", Text: text, Author: &domain.UserSummary{ID: actor.ID}}}, nil
		},
	}
	h := NewRequestHandler(stub)

	c, rec := newTestContext(e, http.MethodPost, "/api/requests/req_1/notes", `{"text":"  Cliente contactado.  "}`)
	c.SetParamNames("id")
	c.SetParamValues("req_1")
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleAdmin})

	if err := h.AddNote(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestRequestHandler_Delete(t *testing.T) {
	e := newHandlerEcho()
	called := false
	stub := &stubRequestService{
		deleteFn: func(ctx context.Context, actor ports.Actor, id string) error {
			called = true
			return nil
		},
	}
	h := NewRequestHandler(stub)

	c, rec := newTestContext(e, http.MethodDelete, "/api/requests/req_1", "")
	c.SetParamNames("id")
	c.SetParamValues("req_1")
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleSuperAdmin})

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("service not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestHandler_Stats_BucketKeys(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubRequestService{
		statsFn: func(ctx context.Context, actor ports.Actor) (*ports.RequestStats, error) {
			stats := &ports.RequestStats{
				ByStatus:   make(map[domain.RequestStatus]int64),
				ByPriority: make(map[domain.RequestPriority]int64),
			}
			for _, s := range domain.RequestStatuses {
				stats.ByStatus[s] = 0
			}
			for _, p := range domain.RequestPriorities {
				stats.ByPriority[p] = 0
			}
			stats.ByStatus[domain.StatusNew] = 3
			stats.Total = 3
			return stats, nil
		},
	}
	h := NewRequestHandler(stub)

	c, rec := newTestContext(e, http.MethodGet, "/api/requests/stats", "")
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleAdmin})

	if err := h.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	status, ok := resp["status"].(map[string]any)
	if !ok {
		t.Fatalf("status bucket missing: %v", resp)
	}
	if status["new"] != float64(3) {
		t.Fatalf("expected status.new = 3, got %v", status["new"])
	}

	priority, ok := resp["priority"].(map[string]any)
	if !ok {
		t.Fatalf("priority bucket missing: %v", resp)
	}
	urgent, present := priority["urgent"]
	if !present || urgent != float64(0) {
		t.Fatalf("expected priority.urgent = 0, got %v (present=%v)", urgent, present)
	}
}
