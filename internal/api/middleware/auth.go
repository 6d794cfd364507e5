package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

// Auth validates the bearer token and attaches the actor to the context.
// The account is re-read from the store so a deactivated user fails even
// with a still-valid token.
func Auth(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Token expirado. Inicia sesión nuevamente.")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido.")
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido. Usuario no encontrado.")
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, "Cuenta desactivada. Contacta al administrador.")
			}

			c.Set("actor", ports.Actor{ID: user.ID, Role: user.Role})
			return next(c)
		}
	}
}

// OptionalAuth attaches the actor when a valid token for an active account is
// present and continues anonymously otherwise. Used on the public request
// creation route so internal submissions record their author.
func OptionalAuth(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return next(c)
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				return next(c)
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err == nil && user.IsActive {
				c.Set("actor", ports.Actor{ID: user.ID, Role: user.Role})
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Acceso denegado. Token no proporcionado.")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Cabecera de autorización inválida.")
	}
	return parts[1], nil
}
