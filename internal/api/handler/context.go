package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/FelixFS3D/uixom/internal/core/ports"
)

// actorKey is where the auth middleware stores the authenticated actor.
const actorKey = "actor"

// ctxActor extracts the actor injected by the auth middleware. Presence
// proves the middleware ran; a missing actor means the route was wired
// without authentication and must not reach protected logic.
func ctxActor(c echo.Context) (ports.Actor, error) {
	actor, ok := c.Get(actorKey).(ports.Actor)
	if !ok || actor.ID == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "Acceso denegado. No autenticado.")
	}
	return actor, nil
}

// ctxOptionalActor returns the actor when one was attached, or a zero Actor
// for anonymous callers.
func ctxOptionalActor(c echo.Context) ports.Actor {
	actor, _ := c.Get(actorKey).(ports.Actor)
	return actor
}
