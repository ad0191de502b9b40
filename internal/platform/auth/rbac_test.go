package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRequireRole(ctx context.Context) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	return rec, RequireRole(RoleStaff)(handler)(c)
}

func TestRequireRole_Allowed(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, "staff-1")
	ctx = context.WithValue(ctx, UserRolesKey, []string{RoleStaff})

	rec, err := runRequireRole(ctx)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, "someone")
	ctx = context.WithValue(ctx, UserRolesKey, []string{"patient"})

	_, err := runRequireRole(ctx)
	expectStatus(t, err, http.StatusForbidden)
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	_, err := runRequireRole(context.Background())
	expectStatus(t, err, http.StatusUnauthorized)
}
