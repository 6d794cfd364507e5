package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/FelixFS3D/uixom/internal/api/handler"
	"github.com/FelixFS3D/uixom/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. The
// errors array is present only for validation failures.
type errorResponse struct {
	Message string               `json:"message"`
	Errors  []handler.FieldError `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders validation failures as 400 with the full field error array.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *handler.ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, errorResponse{
				Message: "Errores de validación.",
				Errors:  ve.Errors,
			})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound && he.Message == "Not Found" {
			return he.Code, "Recurso no encontrado."
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrRequestNotFound):
		return http.StatusNotFound, "Solicitud no encontrada."
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "Usuario no encontrado."
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "Ya existe un usuario con ese email."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Acceso denegado."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Credenciales inválidas."
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, "Cuenta desactivada. Contacta al administrador."
	case errors.Is(err, domain.ErrSelfDeactivation):
		return http.StatusBadRequest, "No puedes eliminarte a ti mismo."
	case errors.Is(err, domain.ErrCurrentPassword):
		return http.StatusUnauthorized, "Contraseña actual incorrecta."
	case errors.Is(err, domain.ErrPasswordRequired):
		return http.StatusBadRequest, "Se requiere la contraseña actual para cambiarla."
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "Demasiados intentos de login. Intenta nuevamente en unos minutos."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Error interno del servidor."
}
