package doctor

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/docbook/docbook/internal/platform/auth"
	"github.com/docbook/docbook/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public directory on pub and the management
// endpoints on admin. Admin routes require the staff role.
func (h *Handler) RegisterRoutes(pub *echo.Group, admin *echo.Group) {
	pub.GET("/doctors", h.ListPublic)
	pub.GET("/doctors/specializations", h.Specializations)
	pub.GET("/doctors/:id", h.GetPublic)

	staff := admin.Group("", auth.RequireRole(auth.RoleStaff))
	staff.GET("/doctors", h.List)
	staff.POST("/doctors", h.Create)
	staff.GET("/doctors/:id", h.Get)
	staff.PATCH("/doctors/:id", h.Update)
	staff.DELETE("/doctors/:id", h.Deactivate)
}

// -- Public --

func (h *Handler) ListPublic(c echo.Context) error {
	p := pagination.FromContext(c)
	docs, total, err := h.svc.ListActive(c.Request().Context(), c.QueryParam("specialization"), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	out := make([]Summary, len(docs))
	for i, d := range docs {
		out[i] = d.PublicView()
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(out, total, p.Limit, p.Offset))
}

func (h *Handler) GetPublic(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetActive(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d.DetailView())
}

func (h *Handler) Specializations(c echo.Context) error {
	specs, err := h.svc.Specializations(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, specs)
}

// -- Admin --

func (h *Handler) List(c echo.Context) error {
	filter := ListFilter{
		Specialization: c.QueryParam("specialization"),
		Search:         c.QueryParam("search"),
	}
	if v := c.QueryParam("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "is_active must be true or false")
		}
		filter.Active = &active
	}
	p := pagination.FromContext(c)
	docs, total, err := h.svc.List(c.Request().Context(), filter, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []*Doctor{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(docs, total, p.Limit, p.Offset))
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Deactivate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// httpError maps registry errors onto HTTP errors. Validation errors pass
// through untouched for the server error handler to render.
func httpError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return err
}
