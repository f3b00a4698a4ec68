package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/api/middleware"
	"github.com/hamzat06/esk-sub000/internal/handlers"
)

func SetupAuthRoutes(e *echo.Echo, db *gorm.DB) {
	authHandler := handlers.NewAuthHandler(db)

	base := e.Group("/api/v1")
	auth := base.Group("/auth")

	// Public routes (no auth required)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Routes that need a resolved profile
	authMiddleware := middleware.NewAuthMiddleware(db)
	me := auth.Group("/me")
	me.Use(authMiddleware.Middleware())
	me.GET("", authHandler.GetMe)
	me.PUT("", authHandler.UpdateMe)
}
