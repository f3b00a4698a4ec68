package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hamzat06/esk-sub000/internal/api/middleware"
	"github.com/hamzat06/esk-sub000/internal/checkout"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	log          *logger.Logger
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		log:          logger.New("CheckoutHandler"),
	}
}

// Submit takes a cart and returns the hosted payment session the storefront
// redirects to. The order exists in pending_payment before this returns.
// @Summary Submit checkout
// @Description Create an order from the cart and open a hosted payment session
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body checkout.Request true "Cart and delivery address"
// @Success 200 {object} checkout.Result
// @Failure 400 {object} map[string]string "Empty cart or incomplete address"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 502 {object} map[string]string "Payment provider unavailable"
// @Router /checkout [post]
func (h *CheckoutHandler) Submit(c echo.Context) error {
	profile := middleware.GetProfile(c)
	if profile == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
	}

	var req checkout.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	result, err := h.orchestrator.Submit(c.Request().Context(), profile, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
