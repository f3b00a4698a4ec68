package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-advanced-admin/admin"
	admingorm "github.com/go-advanced-admin/orm-gorm"
	adminecho "github.com/go-advanced-admin/web-echo"
	"golang.org/x/time/rate"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/api/middleware"
	"github.com/hamzat06/esk-sub000/internal/api/validator"
	"github.com/hamzat06/esk-sub000/internal/apperrors"
	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/permissions"
	console "github.com/hamzat06/esk-sub000/internal/utils/logger"
)

type Server struct {
	echo   *echo.Echo
	config *config.Config
	db     *gorm.DB
}

var log = console.New("API-Server")

// panelPermissions maps admin panel models to the permission gating them.
var panelPermissions = map[string]permissions.Permission{
	"Product":         permissions.PermProducts,
	"Category":        permissions.PermCategories,
	"Order":           permissions.PermOrders,
	"Profile":         permissions.PermCustomers,
	"CateringBooking": permissions.PermCatering,
	"ShopSettings":    permissions.PermSettings,
}

// panelRequirement derives the permission a panel page needs from its path:
// model pages carry the registered model name as a path segment, everything
// else (index, app overview) only needs an admin role.
func panelRequirement(c echo.Context) middleware.Requirement {
	for _, seg := range strings.Split(c.Request().URL.Path, "/") {
		if perm, ok := panelPermissions[seg]; ok {
			return middleware.Requirement{Permission: perm}
		}
	}
	return middleware.Requirement{}
}

// NewServer builds the echo server, seeds bootstrap data and mounts the
// admin panel before registering the API routes.
func NewServer(cfg *config.Config, db *gorm.DB) *Server {
	e := echo.New()

	// Create custom validator
	e.Validator = validator.NewValidator()

	// Configure middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentLength},
	}))
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.TimeoutWithConfig(echomiddleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
	e.Use(echomiddleware.GzipWithConfig(echomiddleware.GzipConfig{
		Level: 5,
	}))
	e.Use(echomiddleware.BodyLimit("10M"))
	e.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(rate.Limit(20))))

	// Custom error handler
	e.HTTPErrorHandler = customHTTPErrorHandler

	s := &Server{
		echo:   e,
		config: cfg,
		db:     db,
	}

	if err := models.SeedShopSettings(db, cfg); err != nil {
		log.Warn("Warning: Failed to seed shop settings: %v", err)
	}

	if err := models.CreateSuperAdminFromEnv(db, cfg); err != nil {
		log.Warn("Warning: Failed to create super admin: %v", err)
	} else {
		log.Success("Super admin ready")
	}

	if err := s.mountAdminPanel(); err != nil {
		log.Warn("Admin panel unavailable: %v", err)
	}

	s.registerRoutes()
	return s
}

// mountAdminPanel serves the generated back-office pages. Pages redirect
// rather than error on denial: unauthenticated visitors land on sign-in with
// the original URL preserved, scoped admins without the needed permission
// land back on the panel home with a banner parameter.
func (s *Server) mountAdminPanel() error {
	guard := middleware.RedirectGuardFor(panelRequirement, "/signin", "/panel")

	gormIntegrator := admingorm.NewIntegrator(s.db)
	echoIntegrator := adminecho.NewIntegrator(s.echo.Group("/panel",
		middleware.NewAuthMiddleware(s.db).OptionalMiddleware(), guard))

	permissionChecker := func(request admin.PermissionRequest, ctx interface{}) (bool, error) {
		c, ok := ctx.(echo.Context)
		if !ok {
			return false, nil
		}
		req := middleware.Requirement{}
		if request.ModelName != nil {
			if perm, found := panelPermissions[*request.ModelName]; found {
				req.Permission = perm
			}
		}
		return middleware.Evaluate(middleware.GetProfile(c), req) == nil, nil
	}

	adminPanel, err := admin.NewPanel(gormIntegrator, echoIntegrator, permissionChecker, nil)
	if err != nil {
		return err
	}

	app, err := adminPanel.RegisterApp("ChopNow", "ChopNow Back Office", nil)
	if err != nil {
		return err
	}

	for _, model := range []interface{}{
		&models.Product{}, &models.Category{}, &models.Order{},
		&models.Profile{}, &models.CateringBooking{}, &models.ShopSettings{},
	} {
		if _, err := app.RegisterModel(model, nil); err != nil {
			log.Warn("Failed to register panel model: %v", err)
		}
	}

	return nil
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Health check endpoint
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// Custom HTTP error handler
func customHTTPErrorHandler(err error, c echo.Context) {
	var (
		code    = http.StatusInternalServerError
		message interface{}
		extra   map[string]string
	)

	switch e := err.(type) {
	case *echo.HTTPError:
		code = e.Code
		message = e.Message
	case validator.ValidationErrors:
		code = http.StatusBadRequest
		message = e.Format()
	case *apperrors.Error:
		code = apperrors.HTTPStatus(e)
		message = e.Message
		if e.Permission != "" {
			extra = map[string]string{"permission": e.Permission}
		}
	default:
		if apperrors.KindOf(err) != apperrors.KindUnknown {
			code = apperrors.HTTPStatus(err)
			message = err.Error()
		} else {
			message = http.StatusText(code)
		}
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			body := map[string]interface{}{
				"error": message,
				"code":  code,
				"time":  time.Now().Format(time.RFC3339),
			}
			for k, v := range extra {
				body[k] = v
			}
			err = c.JSON(code, body)
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}
