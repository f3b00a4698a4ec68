package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/events"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// SettingsHandler exposes the single shop settings row. Public reads power
// the storefront banner and fee display; writes sit behind the settings
// permission.
type SettingsHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db, log: logger.New("SettingsHandler")}
}

// Get returns the shop settings.
// @Summary Get shop settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.ShopSettings
// @Router /settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	var settings models.ShopSettings
	if err := h.db.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Shop settings not initialized"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch settings"})
	}
	return c.JSON(http.StatusOK, settings)
}

type UpdateSettingsRequest struct {
	ShopName     *string  `json:"shopName"`
	DeliveryFee  *float64 `json:"deliveryFee" validate:"omitempty,gte=0"`
	MinOrder     *float64 `json:"minOrder" validate:"omitempty,gte=0"`
	Open         *bool    `json:"open"`
	Announcement *string  `json:"announcement"`
	SupportEmail *string  `json:"supportEmail" validate:"omitempty,email"`
	SupportPhone *string  `json:"supportPhone"`
}

// Update edits the settings row. The delivery fee applies to checkouts from
// this point on; already placed orders keep their snapshot.
// @Summary Update shop settings
// @Tags admin-settings
// @Accept json
// @Produce json
// @Param request body UpdateSettingsRequest true "Fields to update"
// @Success 200 {object} models.ShopSettings
// @Failure 403 {object} map[string]string "Missing settings permission"
// @Router /admin/settings [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	var settings models.ShopSettings
	if err := h.db.First(&settings).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch settings"})
	}

	updates := map[string]interface{}{}
	if req.ShopName != nil {
		updates["shop_name"] = *req.ShopName
	}
	if req.DeliveryFee != nil {
		updates["delivery_fee"] = *req.DeliveryFee
	}
	if req.MinOrder != nil {
		updates["min_order"] = *req.MinOrder
	}
	if req.Open != nil {
		updates["open"] = *req.Open
	}
	if req.Announcement != nil {
		updates["announcement"] = *req.Announcement
	}
	if req.SupportEmail != nil {
		updates["support_email"] = *req.SupportEmail
	}
	if req.SupportPhone != nil {
		updates["support_phone"] = *req.SupportPhone
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Nothing to update"})
	}

	if err := h.db.Model(&settings).Updates(updates).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update settings"})
	}

	h.log.Info("Shop settings updated")
	events.Emit("settings.updated", &settings)

	return c.JSON(http.StatusOK, settings)
}
