package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/utils"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

var log = logger.New("auth_middleware")

const profileContextKey = "profile"

// AuthMiddleware authenticates bearer tokens and resolves the caller's
// profile row. The profile, not the token, is what guards evaluate: a token
// is identity only, grants are whatever the database says right now.
type AuthMiddleware struct {
	db *gorm.DB
}

func NewAuthMiddleware(db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{db: db}
}

// Middleware is the edge enforcement point: requests without a valid
// identity are rejected before any handler or data fetch runs.
func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := utils.ParseJWT(tokenParts[1])
			if err != nil {
				log.Warn("Rejected token: %v", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			// Authenticated but profile row missing is its own failure;
			// the auth principal exists, the application row does not.
			profile := &models.Profile{}
			if err := m.db.Where("id = ?", claims.UserID).First(profile).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Profile not found")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
			}

			c.Set(profileContextKey, profile)
			c.Set("userID", profile.ID)
			c.Set("email", profile.Email)
			c.Set("role", string(profile.Role))

			return next(c)
		}
	}
}

// OptionalMiddleware resolves the profile when a valid token is present but
// lets anonymous requests through. Used on public routes that attach extra
// data for logged-in callers.
func (m *AuthMiddleware) OptionalMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return next(c)
			}

			claims, err := utils.ParseJWT(tokenParts[1])
			if err != nil {
				return next(c)
			}

			profile := &models.Profile{}
			if err := m.db.Where("id = ?", claims.UserID).First(profile).Error; err != nil {
				return next(c)
			}

			c.Set(profileContextKey, profile)
			c.Set("userID", profile.ID)
			c.Set("email", profile.Email)
			c.Set("role", string(profile.Role))

			return next(c)
		}
	}
}

// GetProfile returns the resolved caller profile, nil when unauthenticated.
func GetProfile(c echo.Context) *models.Profile {
	if profile, ok := c.Get(profileContextKey).(*models.Profile); ok {
		return profile
	}
	return nil
}

// GetUserID returns the caller's profile id, empty when unauthenticated.
func GetUserID(c echo.Context) string {
	if id, ok := c.Get("userID").(string); ok {
		return id
	}
	return ""
}
