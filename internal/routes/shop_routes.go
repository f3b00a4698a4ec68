package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/api/middleware"
	"github.com/hamzat06/esk-sub000/internal/checkout"
	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/handlers"
	"github.com/hamzat06/esk-sub000/internal/orders"
	"github.com/hamzat06/esk-sub000/internal/payments"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// SetupShopRoutes wires the storefront surface: public menu and catering
// routes, the customer checkout and order routes, and the payment webhook.
func SetupShopRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config) error {
	log := logger.New("shop_routes")

	orderService := orders.NewService(db)
	menuHandler := handlers.NewMenuHandler(db)
	cateringHandler := handlers.NewCateringHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db)
	orderHandler := handlers.NewOrderHandler(orderService)
	webhookHandler := handlers.NewWebhookHandler(orderService, cfg)

	paymentClient, err := payments.NewClient(cfg.Payment)
	if err != nil {
		return err
	}
	orchestrator := checkout.NewOrchestrator(
		checkout.NewGormStore(db),
		checkout.NewSettingsStore(db, cfg),
		paymentClient,
		cfg,
	)
	checkoutHandler := handlers.NewCheckoutHandler(orchestrator)

	base := e.Group("/api/v1")

	// Public storefront
	base.GET("/menu", menuHandler.GetMenu)
	base.GET("/menu/products/:id", menuHandler.GetProduct)
	base.GET("/settings", settingsHandler.Get)

	// Webhook: unauthenticated, protected by signature verification instead.
	base.POST("/webhooks/payment", webhookHandler.HandlePaymentEvent)

	// Catering inquiries are public but attach the profile when the caller
	// happens to be logged in.
	authMiddleware := middleware.NewAuthMiddleware(db)
	base.POST("/catering", cateringHandler.Submit, authMiddleware.OptionalMiddleware())

	// Customer routes
	customer := base.Group("")
	customer.Use(authMiddleware.Middleware())
	customer.POST("/checkout", checkoutHandler.Submit)
	customer.GET("/orders", orderHandler.ListMine)
	customer.GET("/orders/track/:number", orderHandler.Track)

	log.Success("Shop routes initialized")
	return nil
}
