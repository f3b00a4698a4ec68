package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/api/middleware"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

type CateringHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCateringHandler(db *gorm.DB) *CateringHandler {
	return &CateringHandler{db: db, log: logger.New("CateringHandler")}
}

type CateringRequest struct {
	ContactName string `json:"contactName" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	EventDate   string `json:"eventDate" validate:"required"`
	Headcount   int    `json:"headcount" validate:"required,min=1"`
	Message     string `json:"message"`
}

// Submit accepts a catering inquiry from the public storefront. Logged-in
// customers get the booking attached to their profile; anonymous submissions
// are kept reachable by email only.
// @Summary Submit a catering inquiry
// @Description Request a catering quote for an event
// @Tags catering
// @Accept json
// @Produce json
// @Param request body CateringRequest true "Event details"
// @Success 201 {object} models.CateringBooking
// @Failure 400 {object} map[string]string "Validation error"
// @Router /catering [post]
func (h *CateringHandler) Submit(c echo.Context) error {
	var req CateringRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	eventDate, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		eventDate, err = time.Parse("2006-01-02", req.EventDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "eventDate must be an ISO date"})
		}
	}
	if eventDate.Before(time.Now()) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "eventDate must be in the future"})
	}

	booking := models.CateringBooking{
		UserID:      middleware.GetUserID(c),
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		EventDate:   eventDate,
		Headcount:   req.Headcount,
		Message:     req.Message,
		Status:      models.CateringStatusPending,
	}

	// The AfterCreate hook emits catering.requested exactly once.
	if err := h.db.Create(&booking).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save inquiry"})
	}

	h.log.Success("Catering inquiry %s for %d guests on %s", booking.ID, booking.Headcount, eventDate.Format("2006-01-02"))
	return c.JSON(http.StatusCreated, booking)
}

type CateringUpdateRequest struct {
	Status      models.CateringStatus `json:"status" validate:"omitempty,catering_status"`
	QuoteAmount *float64              `json:"quoteAmount" validate:"omitempty,gt=0"`
	AdminNotes  string                `json:"adminNotes"`
}

// AdminUpdate moves a booking through the quoting workflow.
// @Summary Update a catering booking
// @Description Set status, quote amount or notes on a booking
// @Tags admin-catering
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body CateringUpdateRequest true "Fields to update"
// @Success 200 {object} models.CateringBooking
// @Failure 403 {object} map[string]string "Missing catering permission"
// @Failure 404 {object} map[string]string "Booking not found"
// @Router /admin/catering/{id} [patch]
func (h *CateringHandler) AdminUpdate(c echo.Context) error {
	var req CateringUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	var booking models.CateringBooking
	if err := h.db.First(&booking, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch booking"})
	}

	updates := map[string]interface{}{}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.QuoteAmount != nil {
		updates["quote_amount"] = *req.QuoteAmount
	}
	if req.AdminNotes != "" {
		updates["admin_notes"] = req.AdminNotes
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Nothing to update"})
	}

	if err := h.db.Model(&booking).Updates(updates).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update booking"})
	}

	return c.JSON(http.StatusOK, booking)
}
