package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/FelixFS3D/uixom/internal/api/metrics"
	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
)

// RequestHandler handles HTTP operations on service requests.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create handles POST /api/requests. The route is public; when a valid token
// accompanies the submission the actor is recorded as createdBy.
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Payload inválido.")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Description = strings.TrimSpace(req.Description)
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := ctxOptionalActor(c)
	created, err := h.service.Create(c.Request().Context(), ports.CreateRequestInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Description: req.Description,
		CreatedByID: actor.ID,
	})
	if err != nil {
		return err
	}

	source := "public"
	if actor.ID != "" {
		source = "internal"
	}
	metrics.RequestsCreatedTotal.WithLabelValues(source).Inc()

	return c.JSON(http.StatusCreated, created)
}

// List handles GET /api/requests.
func (h *RequestHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	input := ports.ListRequestsInput{
		Status:    c.QueryParam("status"),
		Priority:  c.QueryParam("priority"),
		Search:    c.QueryParam("search"),
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}

	result, err := h.service.List(c.Request().Context(), actor, input)
	if err != nil {
		return err
	}

	items := result.Items
	if items == nil {
		items = []*domain.ServiceRequest{}
	}
	return c.JSON(http.StatusOK, listRequestsResponse{
		Requests: items,
		Pagination: paginationResponse{
			Total: result.Total,
			Page:  result.Page,
			Limit: result.Limit,
			Pages: result.TotalPages,
		},
		Sort: result.Sort,
	})
}

// Stats handles GET /api/requests/stats.
func (h *RequestHandler) Stats(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Get handles GET /api/requests/:id.
func (h *RequestHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	req, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

// Update handles PATCH /api/requests/:id.
func (h *RequestHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Payload inválido.")
	}
	if req.empty() {
		return newValidationError("body", "Debes enviar al menos un campo para actualizar.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.UpdateRequestInput{AssignedToID: req.AssignedTo}
	if req.Status != nil {
		status := domain.RequestStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.RequestPriority(*req.Priority)
		input.Priority = &priority
	}

	updated, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// AddNote handles POST /api/requests/:id/notes.
func (h *RequestHandler) AddNote(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req addNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Payload inválido.")
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := c.Validate(&req); err != nil {
		return err
	}

	notes, err := h.service.AddNote(c.Request().Context(), actor, c.Param("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, notesResponse{Notes: notes})
}

// Delete handles DELETE /api/requests/:id.
func (h *RequestHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Solicitud eliminada exitosamente."})
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
