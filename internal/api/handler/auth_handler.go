package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/FelixFS3D/uixom/internal/api/metrics"
	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

// LoginThrottle limits repeated login attempts per account. On backend errors
// the throttle fails open: the attempt proceeds and the error is logged.
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// AuthHandler handles login and profile self-management.
type AuthHandler struct {
	authService ports.AuthService
	throttle    LoginThrottle // nil disables throttling
	logger      zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, throttle LoginThrottle, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, throttle: throttle, logger: logger}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Payload inválido.")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	if h.throttle != nil {
		allowed, err := h.throttle.Allow(ctx, req.Email)
		if err != nil {
			h.logger.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		} else if !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return domain.ErrTooManyAttempts
		}
	}

	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	if h.throttle != nil {
		if err := h.throttle.Reset(ctx, req.Email); err != nil {
			h.logger.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Message: "Login exitoso.",
		Token:   token,
		User:    toUserView(user),
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe handles PUT /api/auth/me.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Payload inválido.")
	}
	if req.empty() {
		return newValidationError("body", "Debes enviar al menos un campo para actualizar.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), actor.ID, ports.UpdateProfileInput{
		Name:            req.Name,
		Email:           normalizedEmail(req.Email),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateProfileResponse{
		Message: "Perfil actualizado exitosamente.",
		User:    toUserView(user),
	})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountDisabled):
		return "disabled"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "invalid_credentials"
	}
}

func normalizedEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	return &e
}
