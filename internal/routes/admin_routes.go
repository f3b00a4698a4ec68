package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/api/controllers"
	"github.com/hamzat06/esk-sub000/internal/api/middleware"
	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/handlers"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/orders"
	"github.com/hamzat06/esk-sub000/internal/permissions"
	"github.com/hamzat06/esk-sub000/internal/services"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// SetupAdminRoutes wires the back office. The group-level guard admits any
// admin; each sub-resource then requires its own permission, so a scoped
// admin only reaches the features it was granted.
func SetupAdminRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	log := logger.New("admin_routes")

	orderService := orders.NewService(db)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(db)
	cateringHandler := handlers.NewCateringHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db)
	analyticsHandler := handlers.NewAnalyticsHandler(db)
	uploadHandler := handlers.NewUploadHandler()

	productController := controllers.NewBaseController(
		services.NewBaseService(db, models.Product{}))
	categoryController := controllers.NewBaseController(
		services.NewBaseService(db, models.Category{}))
	cateringController := controllers.NewBaseController(
		services.NewBaseService(db, models.CateringBooking{}))
	customerController := controllers.NewBaseController(
		services.NewBaseService(db, models.Profile{}))

	authMiddleware := middleware.NewAuthMiddleware(db)
	admin := e.Group("/api/v1/admin")
	admin.Use(authMiddleware.Middleware())
	admin.Use(middleware.RequireAdmin())

	// Catalog
	product := admin.Group("/products", middleware.RequirePermission(permissions.PermProducts))
	product.GET("", productController.List)
	product.GET("/:id", productController.Get)
	product.POST("", productController.Create)
	product.PUT("/:id", productController.Update)
	product.DELETE("/:id", productController.Delete)
	product.POST("/image", uploadHandler.UploadImage)

	category := admin.Group("/categories", middleware.RequirePermission(permissions.PermCategories))
	category.GET("", categoryController.List)
	category.GET("/:id", categoryController.Get)
	category.POST("", categoryController.Create)
	category.PUT("/:id", categoryController.Update)
	category.DELETE("/:id", categoryController.Delete)

	// Orders
	order := admin.Group("/orders", middleware.RequirePermission(permissions.PermOrders))
	order.GET("", orderHandler.AdminList)
	order.GET("/:id", orderHandler.AdminGet)
	order.GET("/:id/history", orderHandler.History)
	order.PATCH("/:id/status", orderHandler.UpdateStatus)

	// Customers (read only: profiles are edited by their owners)
	customer := admin.Group("/customers", middleware.RequirePermission(permissions.PermCustomers))
	customer.GET("", customerController.List)
	customer.GET("/:id", customerController.Get)

	// Catering
	catering := admin.Group("/catering", middleware.RequirePermission(permissions.PermCatering))
	catering.GET("", cateringController.List)
	catering.GET("/:id", cateringController.Get)
	catering.PATCH("/:id", cateringHandler.AdminUpdate)
	catering.DELETE("/:id", cateringController.Delete)

	// Settings
	settings := admin.Group("/settings", middleware.RequirePermission(permissions.PermSettings))
	settings.GET("", settingsHandler.Get)
	settings.PUT("", settingsHandler.Update)

	// Analytics
	analytics := admin.Group("/analytics", middleware.RequirePermission(permissions.PermAnalytics))
	analytics.GET("/dashboard", analyticsHandler.Dashboard)
	analytics.GET("/top-products", analyticsHandler.TopProducts)

	// Admin roster management, super admin only
	roster := admin.Group("/admins", middleware.RequireSuperAdmin())
	roster.GET("", adminHandler.ListAdmins)
	roster.POST("", adminHandler.GrantAdmin)
	roster.PUT("/:id/access", adminHandler.UpdateAccess)
	roster.DELETE("/:id", adminHandler.RevokeAdmin)

	log.Success("Admin routes initialized")
}
