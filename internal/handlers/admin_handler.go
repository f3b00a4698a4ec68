package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/api/middleware"
	"github.com/hamzat06/esk-sub000/internal/events"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/permissions"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// AdminHandler manages the admin roster. Every route here sits behind the
// super-admin guard; scoped admins never reach these handlers.
type AdminHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db, log: logger.New("AdminHandler")}
}

// ListAdmins returns every admin profile with its access summary.
// @Summary List admins
// @Description List all admin profiles
// @Tags admin-management
// @Produce json
// @Success 200 {array} models.Profile
// @Failure 403 {object} map[string]string "Super admin required"
// @Router /admin/admins [get]
func (h *AdminHandler) ListAdmins(c echo.Context) error {
	var admins []models.Profile
	if err := h.db.Where("role = ?", models.UserRoleAdmin).Order("created_at ASC").Find(&admins).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch admins"})
	}
	return c.JSON(http.StatusOK, admins)
}

type GrantAdminRequest struct {
	Email       string                   `json:"email" validate:"required,email"`
	Permissions []permissions.Permission `json:"permissions" validate:"required,min=1,dive,permission_tag"`
}

// GrantAdmin promotes an existing customer profile to a scoped admin.
// Unrestricted access is never granted over the API; super admins are
// created through the bootstrap seeder or the grant CLI.
// @Summary Promote a profile to admin
// @Description Make an existing customer a scoped admin
// @Tags admin-management
// @Accept json
// @Produce json
// @Param request body GrantAdminRequest true "Email and permission set"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string "Unknown permission tag"
// @Failure 403 {object} map[string]string "Super admin required"
// @Failure 404 {object} map[string]string "Profile not found"
// @Router /admin/admins [post]
func (h *AdminHandler) GrantAdmin(c echo.Context) error {
	var req GrantAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	var profile models.Profile
	if err := h.db.Where("email = ?", req.Email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "No profile with that email"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch profile"})
	}

	profile.Role = models.UserRoleAdmin
	profile.Access = permissions.Scoped(req.Permissions...)

	if err := h.db.Model(&profile).Updates(map[string]interface{}{
		"role":   profile.Role,
		"access": profile.Access,
	}).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to grant admin role"})
	}

	h.log.Success("Granted admin role to %s by %s", profile.Email, middleware.GetUserID(c))
	events.Emit("admin.granted", &profile)

	return c.JSON(http.StatusOK, profile)
}

type UpdateAccessRequest struct {
	Permissions []permissions.Permission `json:"permissions" validate:"required,dive,permission_tag"`
}

// UpdateAccess replaces a scoped admin's permission set. A super admin
// cannot edit its own grants, so the last unrestricted admin can never lock
// itself out.
// @Summary Update admin access
// @Description Replace an admin's permission set
// @Tags admin-management
// @Accept json
// @Produce json
// @Param id path string true "Admin profile ID"
// @Param request body UpdateAccessRequest true "New permission set"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string "Cannot edit own access"
// @Failure 403 {object} map[string]string "Super admin required"
// @Failure 404 {object} map[string]string "Admin not found"
// @Router /admin/admins/{id}/access [put]
func (h *AdminHandler) UpdateAccess(c echo.Context) error {
	id := c.Param("id")
	if id == middleware.GetUserID(c) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "You cannot change your own access",
		})
	}

	var req UpdateAccessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	var profile models.Profile
	if err := h.db.First(&profile, "id = ? AND role = ?", id, models.UserRoleAdmin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Admin not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch admin"})
	}

	profile.Access = permissions.Scoped(req.Permissions...)
	if err := h.db.Model(&profile).Update("access", profile.Access).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update access"})
	}

	h.log.Info("Access for %s updated by %s", profile.Email, middleware.GetUserID(c))
	events.Emit("admin.access_updated", &profile)

	return c.JSON(http.StatusOK, profile)
}

// RevokeAdmin demotes an admin back to a customer profile. Self-revocation
// is rejected for the same lock-out reason as self-editing access.
// @Summary Revoke admin role
// @Description Demote an admin back to customer
// @Tags admin-management
// @Produce json
// @Param id path string true "Admin profile ID"
// @Success 200 {object} map[string]string "Admin role revoked"
// @Failure 400 {object} map[string]string "Cannot revoke own access"
// @Failure 403 {object} map[string]string "Super admin required"
// @Failure 404 {object} map[string]string "Admin not found"
// @Router /admin/admins/{id} [delete]
func (h *AdminHandler) RevokeAdmin(c echo.Context) error {
	id := c.Param("id")
	if id == middleware.GetUserID(c) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "You cannot change your own access",
		})
	}

	var profile models.Profile
	if err := h.db.First(&profile, "id = ? AND role = ?", id, models.UserRoleAdmin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Admin not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch admin"})
	}

	// Demotion reverts access to NULL. The role gate keeps customers out of
	// every permission check, so the column reads as unset, not unrestricted.
	if err := h.db.Model(&profile).Updates(map[string]interface{}{
		"role":   models.UserRoleCustomer,
		"access": permissions.Unrestricted(),
	}).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to revoke admin role"})
	}

	h.log.Info("Admin role revoked for %s by %s", profile.Email, middleware.GetUserID(c))
	events.Emit("admin.revoked", &profile)

	return c.JSON(http.StatusOK, map[string]string{"message": "Admin role revoked"})
}
