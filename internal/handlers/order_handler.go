package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hamzat06/esk-sub000/internal/api/middleware"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/orders"
	"github.com/hamzat06/esk-sub000/internal/utils"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

type OrderHandler struct {
	orders *orders.Service
	log    *logger.Logger
}

func NewOrderHandler(orderService *orders.Service) *OrderHandler {
	return &OrderHandler{orders: orderService, log: logger.New("OrderHandler")}
}

// ListMine returns the caller's own orders, newest first.
// @Summary List my orders
// @Description List the authenticated customer's orders
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Failure 401 {object} map[string]string "Not authenticated"
// @Router /orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
	}

	list, err := h.orders.FindByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	return c.JSON(http.StatusOK, list)
}

// Track resolves an order number for the caller. Numbers belonging to other
// customers read as 404.
// @Summary Track an order
// @Description Look up one of the caller's orders by order number
// @Tags orders
// @Produce json
// @Param number path string true "Order number"
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]string "Order not found"
// @Router /orders/track/{number} [get]
func (h *OrderHandler) Track(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
	}

	order, err := h.orders.FindByNumberForUser(c.Request().Context(), c.Param("number"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// AdminList returns the back-office order queue with optional status filter.
// @Summary List orders (back office)
// @Description List all orders with optional status filter and pagination
// @Tags admin-orders
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Missing orders permission"
// @Router /admin/orders [get]
func (h *OrderHandler) AdminList(c echo.Context) error {
	status := models.OrderStatus(c.QueryParam("status"))
	if status != "" && !models.IsValidOrderStatus(status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unrecognized status filter"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	list, total, err := h.orders.List(c.Request().Context(), status, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  list,
		"total": total,
	})
}

// AdminGet returns one order for the back office.
// @Summary Get order (back office)
// @Tags admin-orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]string "Order not found"
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) AdminGet(c echo.Context) error {
	order, err := h.orders.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,order_status"`
	Note   string             `json:"note"`
}

// UpdateStatus applies an admin-driven lifecycle transition. Illegal moves
// come back as 400 with the transitions that would have been accepted.
// @Summary Update order status
// @Description Move an order through its lifecycle
// @Tags admin-orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body UpdateStatusRequest true "Target status"
// @Success 200 {object} models.Order
// @Failure 400 {object} map[string]string "Illegal transition"
// @Failure 403 {object} map[string]string "Missing orders permission"
// @Failure 404 {object} map[string]string "Order not found"
// @Router /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	actorID := middleware.GetUserID(c)
	h.log.Info("Status change to %s requested by %s from %s",
		req.Status, actorID, utils.GetIPAddress(c.Request()))

	order, err := h.orders.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status, actorID, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// History returns the audit trail of an order's transitions.
// @Summary Order status history
// @Tags admin-orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {array} models.OrderStatusChange
// @Router /admin/orders/{id}/history [get]
func (h *OrderHandler) History(c echo.Context) error {
	history, err := h.orders.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch history"})
	}
	return c.JSON(http.StatusOK, history)
}
