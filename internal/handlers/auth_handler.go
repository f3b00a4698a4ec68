package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/api/middleware"
	"github.com/hamzat06/esk-sub000/internal/events"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/permissions"
	"github.com/hamzat06/esk-sub000/internal/utils"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

type AuthHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db, log: logger.New("AuthHandler")}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required,min=2"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a customer account. Admin accounts are never created
// here; they are granted through the back office or the bootstrap seeder.
// @Summary Register a new customer
// @Description Register a new customer with email, password and name
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} map[string]string "Account created"
// @Failure 400 {object} map[string]string "Validation error or email exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	var existing models.Profile
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	profile := models.Profile{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     models.UserRoleCustomer,
		Access:   permissions.Scoped(),
	}

	if err := h.db.Create(&profile).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email already registered"})
	}

	events.Emit("profile.created", &profile)

	return c.JSON(http.StatusCreated, map[string]string{"message": "Account created successfully"})
}

// Login authenticates a customer or admin and returns a token pair.
// @Summary Login
// @Description Authenticate and return JWT token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]string "JWT token pair"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	var profile models.Profile
	if err := h.db.Where("email = ?", req.Email).First(&profile).Error; err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}

	token, err := utils.GenerateJWT(profile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}
	refreshToken, err := utils.GenerateRefreshToken(profile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token, "refresh_token": refreshToken})
}

// RefreshToken exchanges a valid refresh token for a new access token.
// @Summary Refresh access token
// @Description Get a new access token using a valid refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh_token body string true "Refresh token"
// @Success 200 {object} map[string]string "New access token"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid refresh token"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid input"})
	}

	claims, err := utils.ParseJWT(input.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid refresh token"})
	}

	var profile models.Profile
	if err := h.db.Where("id = ?", claims.UserID).First(&profile).Error; err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Profile not found"})
	}

	accessToken, err := utils.GenerateJWT(profile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate access token"})
	}

	return c.JSON(http.StatusOK, map[string]string{"token": accessToken, "exp": "24h"})
}

// MeResponse is the profile plus the capability map the admin UI uses to
// decide which navigation entries to render.
type MeResponse struct {
	Profile      *models.Profile `json:"profile"`
	IsSuperAdmin bool            `json:"isSuperAdmin"`
	Capabilities map[string]bool `json:"capabilities,omitempty"`
}

// GetMe returns the current profile and, for admins, its capabilities.
// @Summary Get current profile
// @Description Get the authenticated profile with its capability map
// @Tags auth
// @Produce json
// @Success 200 {object} MeResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c echo.Context) error {
	profile := middleware.GetProfile(c)
	if profile == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
	}

	resp := MeResponse{Profile: profile}
	if profile.IsAdminRole() {
		resp.IsSuperAdmin = permissions.IsSuperAdmin(profile)
		caps := make(map[string]bool, len(permissions.All())+1)
		for _, perm := range permissions.All() {
			caps[string(perm)] = middleware.Can(c, perm)
		}
		caps["manage_admins"] = middleware.CanManageAdmins(c)
		resp.Capabilities = caps
	}

	return c.JSON(http.StatusOK, resp)
}

type UpdateMeRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}

// UpdateMe lets a profile edit its own contact and address details. Role and
// access are not reachable from here.
// @Summary Update current profile
// @Description Update contact and default delivery address
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /auth/me [put]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	profile := middleware.GetProfile(c)
	if profile == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
	}

	var req UpdateMeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid input"})
	}

	updates := map[string]interface{}{
		"full_name": req.FullName,
		"phone":     req.Phone,
		"street":    req.Street,
		"city":      req.City,
		"state":     req.State,
		"zip":       req.Zip,
	}
	if err := h.db.Model(profile).Updates(updates).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update profile"})
	}

	var fresh models.Profile
	if err := h.db.First(&fresh, "id = ?", profile.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load profile"})
	}

	return c.JSON(http.StatusOK, fresh)
}
