package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

// stubTokens returns canned claims or a canned error from Verify.
type stubTokens struct {
	claims *ports.TokenClaims
	err    error
}

func (s *stubTokens) Issue(string, domain.Role) (string, error) { return "token", nil }

func (s *stubTokens) Verify(string) (*ports.TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

// stubUsers serves FindByID from a fixed map. The other repository methods are
// never reached by the middleware.
type stubUsers struct {
	byID map[string]*domain.User
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUsers) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUsers) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUsers) List(context.Context, ports.ListUsersFilter) ([]*domain.User, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (s *stubUsers) Update(context.Context, string, ports.UserUpdate) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUsers) FindSummaries(context.Context, []string) (map[string]domain.UserSummary, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUsers) SetLastLogin(context.Context, string, time.Time) error {
	return errors.New("not implemented")
}

func activeAdmin(id string) *domain.User {
	return &domain.User{ID: id, Name: "Carla", Email: "carla@uixom.mx", Role: domain.RoleAdmin, IsActive: true}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	tokens := &stubTokens{claims: &ports.TokenClaims{UserID: "u1", Role: domain.RoleAdmin}}
	users := &stubUsers{byID: map[string]*domain.User{"u1": activeAdmin("u1")}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens, users)(func(c echo.Context) error {
		called = true
		actor, ok := c.Get("actor").(ports.Actor)
		if !ok {
			t.Fatalf("actor not set")
		}
		if actor.ID != "u1" || actor.Role != domain.RoleAdmin {
			t.Fatalf("unexpected actor: %+v", actor)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	tokens := &stubTokens{claims: &ports.TokenClaims{UserID: "u1", Role: domain.RoleAdmin}}
	users := &stubUsers{byID: map[string]*domain.User{}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens, users)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	e := echo.New()
	tokens := &stubTokens{err: domain.ErrTokenExpired}
	users := &stubUsers{byID: map[string]*domain.User{}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens, users)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

// A valid token for an account that was deactivated after issuance must be
// rejected with 403, not 401.
func TestAuthMiddleware_DeactivatedAccount(t *testing.T) {
	e := echo.New()
	disabled := activeAdmin("u1")
	disabled.IsActive = false
	tokens := &stubTokens{claims: &ports.TokenClaims{UserID: "u1", Role: domain.RoleAdmin}}
	users := &stubUsers{byID: map[string]*domain.User{"u1": disabled}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens, users)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuthMiddleware_UserGone(t *testing.T) {
	e := echo.New()
	tokens := &stubTokens{claims: &ports.TokenClaims{UserID: "ghost", Role: domain.RoleAdmin}}
	users := &stubUsers{byID: map[string]*domain.User{}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens, users)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOptionalAuth_NoHeaderContinuesAnonymously(t *testing.T) {
	e := echo.New()
	tokens := &stubTokens{err: domain.ErrTokenInvalid}
	users := &stubUsers{byID: map[string]*domain.User{}}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := OptionalAuth(tokens, users)(func(c echo.Context) error {
		called = true
		if _, ok := c.Get("actor").(ports.Actor); ok {
			t.Fatalf("actor must not be set for anonymous requests")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestOptionalAuth_ValidTokenAttachesActor(t *testing.T) {
	e := echo.New()
	tokens := &stubTokens{claims: &ports.TokenClaims{UserID: "u1", Role: domain.RoleAdmin}}
	users := &stubUsers{byID: map[string]*domain.User{"u1": activeAdmin("u1")}}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := OptionalAuth(tokens, users)(func(c echo.Context) error {
		actor, ok := c.Get("actor").(ports.Actor)
		if !ok || actor.ID != "u1" {
			t.Fatalf("expected actor u1, got %+v", c.Get("actor"))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
