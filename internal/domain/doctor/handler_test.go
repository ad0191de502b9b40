package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/docbook/docbook/internal/platform/validation"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _, _ := newTestService()
	return NewHandler(svc), echo.New()
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()

	body := `{"name":"Dr. Rao","specialization":"Cardiology","bio":"Heart doctor","years_of_experience":12,"consultation_modes":["online","in-person"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/doctors", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var d Doctor
	json.Unmarshal(rec.Body.Bytes(), &d)
	if d.Name != "Dr. Rao" || !d.IsActive {
		t.Errorf("unexpected doctor %+v", d)
	}
}

func TestHandler_Create_ValidationError(t *testing.T) {
	h, e := newTestHandler()

	body := `{"name":"Dr. Rao","specialization":"Cardiology","consultation_modes":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/doctors", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Create(c)
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "consultation_modes" {
		t.Errorf("expected field consultation_modes, got %q", verr.Field)
	}
}

func TestHandler_GetPublic(t *testing.T) {
	h, e := newTestHandler()
	d, _ := h.svc.Create(context.Background(), CreateInput{Name: "Dr. Rao", Specialization: "Cardiology", Bio: "Bio text", ConsultationModes: []string{ModeOnline}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	if err := h.GetPublic(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got["bio"] != "Bio text" {
		t.Errorf("expected bio in detail view, got %v", got["bio"])
	}
	if got["is_available"] != true {
		t.Errorf("expected is_available true, got %v", got["is_available"])
	}
	if _, ok := got["created_at"]; ok {
		t.Error("public detail must not expose timestamps")
	}
}

func TestHandler_GetPublic_Inactive(t *testing.T) {
	h, e := newTestHandler()
	ctx := context.Background()
	d, _ := h.svc.Create(ctx, validInput("Dr. Rao", "Cardiology"))
	h.svc.Deactivate(ctx, d.ID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	err := h.GetPublic(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetPublic_InvalidID(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetPublic(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_ListPublic(t *testing.T) {
	h, e := newTestHandler()
	ctx := context.Background()
	h.svc.Create(ctx, validInput("Dr. A", "Cardiology"))
	h.svc.Create(ctx, validInput("Dr. B", "Neurology"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors?specialization=CARDIO", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListPublic(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Data  []map[string]interface{} `json:"data"`
		Total int                      `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("expected 1 match, got %d", resp.Total)
	}
	if _, ok := resp.Data[0]["bio"]; ok {
		t.Error("list projection must not include bio")
	}
}

func TestHandler_Specializations(t *testing.T) {
	h, e := newTestHandler()
	ctx := context.Background()
	h.svc.Create(ctx, validInput("Dr. A", "Neurology"))
	h.svc.Create(ctx, validInput("Dr. B", "Cardiology"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/specializations", nil)
	rec := httptest.NewRecorder()
	if err := h.Specializations(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var specs []string
	json.Unmarshal(rec.Body.Bytes(), &specs)
	if len(specs) != 2 || specs[0] != "Cardiology" {
		t.Errorf("unexpected specializations %v", specs)
	}
}

func TestHandler_List_ActiveFilter(t *testing.T) {
	h, e := newTestHandler()
	ctx := context.Background()
	h.svc.Create(ctx, validInput("Dr. A", "Neurology"))
	b, _ := h.svc.Create(ctx, validInput("Dr. B", "Cardiology"))
	h.svc.Deactivate(ctx, b.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/doctors?is_active=false", nil)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Data  []Doctor `json:"data"`
		Total int      `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Data[0].ID != b.ID {
		t.Errorf("expected only the inactive doctor, got %+v", resp.Data)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/doctors?is_active=maybe", nil)
	err := h.List(e.NewContext(req, httptest.NewRecorder()))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad is_active, got %v", err)
	}
}

func TestHandler_List_EmptyIsArray(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/doctors?search=nobody", nil)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(resp["data"]) != "[]" {
		t.Errorf("expected empty data array, got %s", resp["data"])
	}
}

func TestHandler_Update(t *testing.T) {
	h, e := newTestHandler()
	d, _ := h.svc.Create(context.Background(), validInput("Dr. A", "Neurology"))

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"years_of_experience":20}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Doctor
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.YearsOfExperience != 20 || got.Name != "Dr. A" {
		t.Errorf("unexpected doctor after patch %+v", got)
	}
}

func TestHandler_Deactivate(t *testing.T) {
	h, e := newTestHandler()
	d, _ := h.svc.Create(context.Background(), validInput("Dr. A", "Neurology"))

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	if err := h.Deactivate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	got, _ := h.svc.Get(context.Background(), d.ID)
	if got.IsActive {
		t.Error("expected doctor to be soft-deleted")
	}
}

func TestHandler_Deactivate_NotFound(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Deactivate(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
