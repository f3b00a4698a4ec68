package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/hamzat06/esk-sub000/internal/apperrors"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/permissions"
)

// Requirement describes what a guarded route needs. The zero Permission with
// SuperAdmin false means "any authenticated admin".
type Requirement struct {
	Permission permissions.Permission
	SuperAdmin bool
}

// Evaluate is the single access decision every guard adapter goes through.
// Returning nil means allowed; otherwise the error kind tells the adapter
// how to fail (Unauthorized vs Forbidden with the missing permission).
func Evaluate(profile *models.Profile, req Requirement) error {
	if profile == nil {
		return apperrors.Unauthorized("authentication required")
	}
	if !profile.IsAdminRole() {
		return apperrors.Forbidden("", "admin access required")
	}
	if req.SuperAdmin {
		if !permissions.IsSuperAdmin(profile) {
			return apperrors.Forbidden("", "super admin access required")
		}
		return nil
	}
	if req.Permission == "" {
		return nil
	}
	if !permissions.HasPermission(profile, req.Permission) {
		return apperrors.Forbidden(string(req.Permission),
			"missing permission: "+string(req.Permission))
	}
	return nil
}

// RequirePermission is the throwing guard for JSON routes: failures become
// 401/403 via the central error handler.
func RequirePermission(perm permissions.Permission) echo.MiddlewareFunc {
	return requireGuard(Requirement{Permission: perm})
}

// RequireAdmin admits any authenticated admin, scoped or not.
func RequireAdmin() echo.MiddlewareFunc {
	return requireGuard(Requirement{})
}

// RequireSuperAdmin admits unrestricted admins only.
func RequireSuperAdmin() echo.MiddlewareFunc {
	return requireGuard(Requirement{SuperAdmin: true})
}

func requireGuard(req Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := Evaluate(GetProfile(c), req); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RedirectGuard is the page-facing adapter used in front of the mounted
// admin panel. Unauthenticated callers go to sign-in with the original path
// preserved; authenticated callers lacking access land on the fallback page
// with a query parameter the UI renders as a banner.
func RedirectGuard(req Requirement, signinURL, fallbackURL string) echo.MiddlewareFunc {
	return RedirectGuardFor(func(echo.Context) Requirement { return req }, signinURL, fallbackURL)
}

// RedirectGuardFor is RedirectGuard with a per-request requirement. The
// admin panel uses it to derive the needed permission from the page path,
// so a scoped admin opening a page it lacks gets redirected with the
// missing permission named.
func RedirectGuardFor(resolve func(echo.Context) Requirement, signinURL, fallbackURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := resolve(c)
			err := Evaluate(GetProfile(c), req)
			if err == nil {
				return next(c)
			}

			switch apperrors.KindOf(err) {
			case apperrors.KindUnauthorized:
				return c.Redirect(http.StatusSeeOther,
					signinURL+"?next="+url.QueryEscape(c.Request().URL.RequestURI()))
			default:
				var appErr *apperrors.Error
				target := fallbackURL + "?error=unauthorized"
				if e, ok := err.(*apperrors.Error); ok {
					appErr = e
				}
				if appErr != nil && appErr.Permission != "" {
					target = fallbackURL + "?error=missing_permission&permission=" + url.QueryEscape(appErr.Permission)
				} else if req.SuperAdmin {
					target = fallbackURL + "?error=superadmin_required"
				}
				return c.Redirect(http.StatusSeeOther, target)
			}
		}
	}
}

// Can is the boolean adapter for conditional data shaping: same evaluation,
// no redirect, no error.
func Can(c echo.Context, perm permissions.Permission) bool {
	return Evaluate(GetProfile(c), Requirement{Permission: perm}) == nil
}

// CanManageAdmins reports the derived super-admin-only capability.
func CanManageAdmins(c echo.Context) bool {
	return Evaluate(GetProfile(c), Requirement{SuperAdmin: true}) == nil
}
