package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

// RBAC enforces route-level role gating. Must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := c.Get("actor").(ports.Actor)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Acceso denegado. No autenticado.")
			}
			if _, ok := allowed[actor.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Acceso denegado. Rol insuficiente.")
			}
			return next(c)
		}
	}
}
