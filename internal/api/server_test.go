package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hamzat06/esk-sub000/internal/api/middleware"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/permissions"
)

func panelContext(t *testing.T, path string, profile *models.Profile) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if profile != nil {
		c.Set("profile", profile)
	}
	return c, rec
}

func TestPanelRequirementFromPath(t *testing.T) {
	cases := []struct {
		path string
		perm permissions.Permission
	}{
		{"/panel/ChopNow/Product", permissions.PermProducts},
		{"/panel/ChopNow/Order", permissions.PermOrders},
		{"/panel/ChopNow/CateringBooking/edit/1", permissions.PermCatering},
		{"/panel", ""},
		{"/panel/ChopNow", ""},
	}

	for _, tc := range cases {
		c, _ := panelContext(t, tc.path, nil)
		req := panelRequirement(c)
		if req.Permission != tc.perm {
			t.Fatalf("path %s resolved to %q, want %q", tc.path, req.Permission, tc.perm)
		}
	}
}

func TestPanelGuardNamesMissingPermission(t *testing.T) {
	guard := middleware.RedirectGuardFor(panelRequirement, "/signin", "/panel")
	handler := guard(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// Scoped admin holding orders only opens the product pages.
	c, rec := panelContext(t, "/panel/ChopNow/Product", &models.Profile{
		Role:   models.UserRoleAdmin,
		Access: permissions.Scoped(permissions.PermOrders),
	})
	if err := handler(c); err != nil {
		t.Fatalf("guard should redirect, not error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if location := rec.Header().Get(echo.HeaderLocation); location != "/panel?error=missing_permission&permission=products" {
		t.Fatalf("location = %q", location)
	}
}

func TestPanelGuardSendsAnonymousToSignin(t *testing.T) {
	guard := middleware.RedirectGuardFor(panelRequirement, "/signin", "/panel")
	handler := guard(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	c, rec := panelContext(t, "/panel/ChopNow/Order", nil)
	if err := handler(c); err != nil {
		t.Fatalf("guard should redirect, not error: %v", err)
	}
	location := rec.Header().Get(echo.HeaderLocation)
	if !strings.HasPrefix(location, "/signin?next=") {
		t.Fatalf("location = %q", location)
	}
}

func TestPanelGuardAdmitsGrantedAdmin(t *testing.T) {
	guard := middleware.RedirectGuardFor(panelRequirement, "/signin", "/panel")
	called := false
	handler := guard(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c, _ := panelContext(t, "/panel/ChopNow/Product", &models.Profile{
		Role:   models.UserRoleAdmin,
		Access: permissions.Scoped(permissions.PermProducts),
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("granted admin should reach the page")
	}
}
