package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/FelixFS3D/uixom/internal/api/metrics"
	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

// UserHandler handles HTTP operations on accounts.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users.
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	input := ports.ListUsersInput{
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	if raw := c.QueryParam("isActive"); raw != "" {
		active := raw == "true"
		input.IsActive = &active
	}

	result, err := h.service.List(c.Request().Context(), actor, input)
	if err != nil {
		return err
	}

	items := result.Items
	if items == nil {
		items = []*domain.User{}
	}
	return c.JSON(http.StatusOK, listUsersResponse{
		Users: items,
		Pagination: paginationResponse{
			Total: result.Total,
			Page:  result.Page,
			Limit: result.Limit,
			Pages: result.TotalPages,
		},
	})
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Payload inválido.")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), actor, ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(created.Role)).Inc()
	return c.JSON(http.StatusCreated, userResponse{
		Message: "Usuario creado exitosamente.",
		User:    created,
	})
}

// Update handles PUT /api/users/:id.
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Payload inválido.")
	}
	if req.empty() {
		return newValidationError("body", "Debes enviar al menos un campo para actualizar.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.UpdateUserInput{
		Name:     req.Name,
		Email:    normalizedEmail(req.Email),
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	updated, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{
		Message: "Usuario actualizado.",
		User:    updated,
	})
}

// Delete handles DELETE /api/users/:id as a soft deactivation, never a removal.
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Deactivate(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Usuario desactivado exitosamente."})
}
