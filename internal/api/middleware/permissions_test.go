package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hamzat06/esk-sub000/internal/apperrors"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/permissions"
)

func superAdmin() *models.Profile {
	return &models.Profile{Role: models.UserRoleAdmin, Access: permissions.Unrestricted()}
}

func scopedAdmin(perms ...permissions.Permission) *models.Profile {
	return &models.Profile{Role: models.UserRoleAdmin, Access: permissions.Scoped(perms...)}
}

func customer() *models.Profile {
	return &models.Profile{Role: models.UserRoleCustomer, Access: permissions.Scoped()}
}

func newContext(t *testing.T, path string, profile *models.Profile) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if profile != nil {
		c.Set(profileContextKey, profile)
	}
	return c
}

func TestEvaluate(t *testing.T) {
	ordersReq := Requirement{Permission: permissions.PermOrders}

	if err := Evaluate(nil, ordersReq); apperrors.KindOf(err) != apperrors.KindUnauthorized {
		t.Fatalf("anonymous caller should be unauthorized, got %v", err)
	}
	if err := Evaluate(customer(), ordersReq); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("customer should be forbidden, got %v", err)
	}
	if err := Evaluate(scopedAdmin(permissions.PermOrders), ordersReq); err != nil {
		t.Fatalf("granted admin should pass, got %v", err)
	}
	if err := Evaluate(superAdmin(), ordersReq); err != nil {
		t.Fatalf("super admin should pass, got %v", err)
	}

	err := Evaluate(scopedAdmin(permissions.PermProducts), ordersReq)
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("missing grant should be forbidden, got %v", err)
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Permission != "orders" {
		t.Fatalf("denial should name the missing permission, got %v", err)
	}
}

func TestEvaluateSuperAdminRequirement(t *testing.T) {
	req := Requirement{SuperAdmin: true}

	if err := Evaluate(superAdmin(), req); err != nil {
		t.Fatalf("super admin should pass, got %v", err)
	}
	// Even an admin holding every tag is still scoped, not unrestricted.
	if err := Evaluate(scopedAdmin(permissions.All()...), req); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("scoped admin must not satisfy super admin checks, got %v", err)
	}
}

func TestEvaluateAnyAdminRequirement(t *testing.T) {
	if err := Evaluate(scopedAdmin(), Requirement{}); err != nil {
		t.Fatalf("zero requirement admits any admin, got %v", err)
	}
	if err := Evaluate(customer(), Requirement{}); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("zero requirement still excludes customers, got %v", err)
	}
}

func TestRequirePermissionGuard(t *testing.T) {
	handler := RequirePermission(permissions.PermCatering)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c := newContext(t, "/api/v1/admin/catering", scopedAdmin(permissions.PermCatering))
	if err := handler(c); err != nil {
		t.Fatalf("granted admin should reach the handler, got %v", err)
	}

	c = newContext(t, "/api/v1/admin/catering", scopedAdmin(permissions.PermOrders))
	err := handler(c)
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("ungranted admin should be forbidden, got %v", err)
	}

	c = newContext(t, "/api/v1/admin/catering", nil)
	if err := handler(c); apperrors.KindOf(err) != apperrors.KindUnauthorized {
		t.Fatalf("anonymous should be unauthorized, got %v", err)
	}
}

func TestRedirectGuardSendsAnonymousToSignin(t *testing.T) {
	handler := RedirectGuard(Requirement{}, "/signin", "/panel")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c := newContext(t, "/panel/orders?page=2", nil)
	if err := handler(c); err != nil {
		t.Fatalf("redirect guard should not raise, got %v", err)
	}

	rec := c.Response().Writer.(*httptest.ResponseRecorder)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	location := rec.Header().Get(echo.HeaderLocation)
	if !strings.HasPrefix(location, "/signin?next=") {
		t.Fatalf("location = %q", location)
	}
	if !strings.Contains(location, "%2Fpanel%2Forders") {
		t.Fatalf("original path should survive the round trip, got %q", location)
	}
}

func TestRedirectGuardNamesMissingPermission(t *testing.T) {
	handler := RedirectGuard(Requirement{Permission: permissions.PermSettings}, "/signin", "/panel")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c := newContext(t, "/panel/settings", scopedAdmin(permissions.PermOrders))
	if err := handler(c); err != nil {
		t.Fatalf("redirect guard should not raise, got %v", err)
	}

	rec := c.Response().Writer.(*httptest.ResponseRecorder)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	location := rec.Header().Get(echo.HeaderLocation)
	if location != "/panel?error=missing_permission&permission=settings" {
		t.Fatalf("location = %q", location)
	}
}

func TestRedirectGuardSuperAdminRequired(t *testing.T) {
	handler := RedirectGuard(Requirement{SuperAdmin: true}, "/signin", "/panel")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c := newContext(t, "/panel/admins", scopedAdmin(permissions.All()...))
	if err := handler(c); err != nil {
		t.Fatalf("redirect guard should not raise, got %v", err)
	}

	rec := c.Response().Writer.(*httptest.ResponseRecorder)
	if location := rec.Header().Get(echo.HeaderLocation); location != "/panel?error=superadmin_required" {
		t.Fatalf("location = %q", location)
	}
}

func TestRedirectGuardPassesThrough(t *testing.T) {
	called := false
	handler := RedirectGuard(Requirement{}, "/signin", "/panel")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c := newContext(t, "/panel", superAdmin())
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("allowed caller should reach the handler")
	}
}

func TestBooleanAdapters(t *testing.T) {
	c := newContext(t, "/api/v1/auth/me", scopedAdmin(permissions.PermProducts))
	if !Can(c, permissions.PermProducts) {
		t.Fatal("granted permission should report true")
	}
	if Can(c, permissions.PermAnalytics) {
		t.Fatal("ungranted permission should report false")
	}
	if CanManageAdmins(c) {
		t.Fatal("scoped admin cannot manage admins")
	}

	c = newContext(t, "/api/v1/auth/me", superAdmin())
	if !CanManageAdmins(c) {
		t.Fatal("super admin manages admins")
	}

	c = newContext(t, "/api/v1/auth/me", nil)
	if Can(c, permissions.PermProducts) {
		t.Fatal("anonymous callers hold no permissions")
	}
}
