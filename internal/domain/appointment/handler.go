package appointment

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/docbook/docbook/internal/domain/doctor"
	"github.com/docbook/docbook/internal/platform/auth"
	"github.com/docbook/docbook/pkg/pagination"
)

const conflictMessage = "This time slot is already booked. Please choose another time."

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(pub *echo.Group, admin *echo.Group) {
	pub.GET("/appointments/available-slots", h.AvailableSlots)
	pub.GET("/appointments/my-appointments", h.MyAppointments)
	pub.POST("/appointments", h.Book)

	staff := admin.Group("", auth.RequireRole(auth.RoleStaff))
	staff.GET("/appointments", h.List)
	staff.GET("/appointments/:id", h.Get)
	staff.PATCH("/appointments/:id", h.Update)
	staff.GET("/stats", h.Stats)
}

// -- Public --

func (h *Handler) AvailableSlots(c echo.Context) error {
	doctorParam := strings.TrimSpace(c.QueryParam("doctor_id"))
	date := strings.TrimSpace(c.QueryParam("date"))
	if doctorParam == "" || date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_id and date are required")
	}
	doctorID, err := uuid.Parse(doctorParam)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	slots, err := h.svc.AvailableSlots(c.Request().Context(), doctorID, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctor_id":       doctorID,
		"date":            date,
		"available_slots": slots,
	})
}

func (h *Handler) Book(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	b, err := h.svc.Book(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":     "Appointment booked successfully",
		"appointment": b.View(),
	})
}

func (h *Handler) MyAppointments(c echo.Context) error {
	bookings, err := h.svc.ListByContact(c.Request().Context(), c.QueryParam("contact"))
	if err != nil {
		return httpError(err)
	}
	out := make([]Public, len(bookings))
	for i, b := range bookings {
		out[i] = b.View()
	}
	return c.JSON(http.StatusOK, out)
}

// -- Admin --

func (h *Handler) List(c echo.Context) error {
	filter := ListFilter{
		Date:   strings.TrimSpace(c.QueryParam("date")),
		Status: strings.TrimSpace(c.QueryParam("status")),
	}
	if v := strings.TrimSpace(c.QueryParam("doctor")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor")
		}
		filter.DoctorID = &id
	}
	p := pagination.FromContext(c)
	appts, total, err := h.svc.List(c.Request().Context(), filter, p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	out := make([]Admin, len(appts))
	for i, a := range appts {
		out[i] = a.AdminView()
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(out, total, p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a.AdminView())
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in AdminUpdate
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a.AdminView())
}

func (h *Handler) Stats(c echo.Context) error {
	s, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// httpError maps booking errors onto HTTP errors. Validation errors pass
// through for the server error handler to render with their field.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrSlotConflict):
		return echo.NewHTTPError(http.StatusConflict, conflictMessage)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, doctor.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return err
}
