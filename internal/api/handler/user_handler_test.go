package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

type stubUserService struct {
	listFn       func(ctx context.Context, actor ports.Actor, input ports.ListUsersInput) (*ports.ListUsersResult, error)
	getFn        func(ctx context.Context, actor ports.Actor, id string) (*domain.User, error)
	createFn     func(ctx context.Context, actor ports.Actor, input ports.CreateUserInput) (*domain.User, error)
	updateFn     func(ctx context.Context, actor ports.Actor, id string, input ports.UpdateUserInput) (*domain.User, error)
	deactivateFn func(ctx context.Context, actor ports.Actor, id string) error
}

func (s *stubUserService) List(ctx context.Context, actor ports.Actor, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, actor, input)
}

func (s *stubUserService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.User, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubUserService) Create(ctx context.Context, actor ports.Actor, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, actor, input)
}

func (s *stubUserService) Update(ctx context.Context, actor ports.Actor, id string, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, input)
}

func (s *stubUserService) Deactivate(ctx context.Context, actor ports.Actor, id string) error {
	return s.deactivateFn(ctx, actor, id)
}

func TestUserHandler_List_ParsesIsActive(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context, actor ports.Actor, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
			if input.IsActive == nil || *input.IsActive != false {
				t.Fatalf("isActive not parsed: %+v", input.IsActive)
			}
			if input.Role != "client" {
				t.Fatalf("role not forwarded: %s", input.Role)
			}
			return &ports.ListUsersResult{Items: []*domain.User{}, Page: 1, Limit: 20}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(e, http.MethodGet, "/api/users?role=client&isActive=false", "")
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleAdmin})

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubUserService{
		createFn: func(ctx context.Context, actor ports.Actor, input ports.CreateUserInput) (*domain.User, error) {
			if input.Role != domain.RoleClient {
				t.Fatalf("role not forwarded: %s", input.Role)
			}
			return &domain.User{ID: "u2", Name: input.Name, Email: input.Email, Role: input.Role, IsActive: true}, nil
		},
	}
	h := NewUserHandler(stub)

	body := `{"name":"Cliente Nuevo","email":"nuevo@uixom.mx","password":"secret123","role":"client"}`
	c, rec := newTestContext(e, http.MethodPost, "/api/users", body)
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleSuperAdmin})

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
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "nuevo@uixom.mx" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestUserHandler_Create_InvalidRole(t *testing.T) {
	e := newHandlerEcho()
	h := NewUserHandler(&stubUserService{})

	body := `{"name":"Otro","email":"otro@uixom.mx","password":"secret123","role":"manager"}`
	c, _ := newTestContext(e, http.MethodPost, "/api/users", body)
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleSuperAdmin})

	err := h.Create(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Errors) != 1 || ve.Errors[0].Field != "role" {
		t.Fatalf("expected a single role error, got %v", ve.Errors)
	}
}

func TestUserHandler_Create_ShortPassword(t *testing.T) {
	e := newHandlerEcho()
	h := NewUserHandler(&stubUserService{})

	body := `{"name":"Otro","email":"otro@uixom.mx","password":"123"}`
	c, _ := newTestContext(e, http.MethodPost, "/api/users", body)
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleSuperAdmin})

	err := h.Create(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserHandler_Update_EmptyBody(t *testing.T) {
	e := newHandlerEcho()
	h := NewUserHandler(&stubUserService{})

	c, _ := newTestContext(e, http.MethodPut, "/api/users/u2", `{}`)
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleSuperAdmin})

	err := h.Update(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserHandler_Update_ForwardsServiceError(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubUserService{
		updateFn: func(ctx context.Context, actor ports.Actor, id string, input ports.UpdateUserInput) (*domain.User, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(e, http.MethodPut, "/api/users/u2", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("u2")
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleAdmin})

	if err := h.Update(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newHandlerEcho()
	var gotID string
	stub := &stubUserService{
		deactivateFn: func(ctx context.Context, actor ports.Actor, id string) error {
			gotID = id
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(e, http.MethodDelete, "/api/users/u2", "")
	c.SetParamNames("id")
	c.SetParamValues("u2")
	c.Set(actorKey, ports.Actor{ID: "u1", Role: domain.RoleSuperAdmin})

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotID != "u2" {
		t.Fatalf("expected id u2, got %s", gotID)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
