package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hamzat06/esk-sub000/docs/swagger"

	"github.com/hamzat06/esk-sub000/internal/routes"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ChopNow API")
	})
	// Health check
	// @Summary Health check
	// @Description Check if the server is running
	// @Accept json
	// @Produce json
	// @Success 200 {object} map[string]string "OK"
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	routes.SetupAuthRoutes(s.echo, s.db)
	if err := routes.SetupShopRoutes(s.echo, s.db, s.config); err != nil {
		log.Warn("Shop routes degraded: %v", err)
	}
	routes.SetupAdminRoutes(s.echo, s.db, s.config)
}
