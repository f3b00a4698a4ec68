package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/models"
)

// MenuHandler serves the public storefront catalog. Only available products
// appear; the back office manages the full set through its own routes.
type MenuHandler struct {
	db *gorm.DB
}

func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

// GetMenu returns every category with its available products, in sort order.
// @Summary Storefront menu
// @Description Categories with their available products
// @Tags menu
// @Produce json
// @Success 200 {array} models.Category
// @Router /menu [get]
func (h *MenuHandler) GetMenu(c echo.Context) error {
	var categories []models.Category
	err := h.db.WithContext(c.Request().Context()).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("available = ?", true).Order("sort_order ASC")
		}).
		Order("sort_order ASC").
		Find(&categories).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch menu"})
	}
	return c.JSON(http.StatusOK, categories)
}

// GetProduct returns one available product for the storefront detail page.
// @Summary Product details
// @Tags menu
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]string "Product not found"
// @Router /menu/products/{id} [get]
func (h *MenuHandler) GetProduct(c echo.Context) error {
	var product models.Product
	err := h.db.WithContext(c.Request().Context()).
		Preload("Category").
		First(&product, "id = ? AND available = ?", c.Param("id"), true).Error
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}
	return c.JSON(http.StatusOK, product)
}
