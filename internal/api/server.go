package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-advanced-admin/admin"
	admingorm "github.com/go-advanced-admin/orm-gorm"
	adminecho "github.com/go-advanced-admin/web-echo"
	"golang.org/x/time/rate"

	"gestionale/internal/api/validator"
	"gestionale/internal/automation"
	"gestionale/internal/config"
	"gestionale/internal/keys"
	"gestionale/internal/mailjobs"
	"gestionale/internal/models"
	"gestionale/internal/records"

	console "gestionale/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	echo    *echo.Echo
	config  *config.Config
	db      *gorm.DB
	records *records.Service
	keys    *keys.Store
	jobs    *mailjobs.Store
}

var log = console.New("API-Server")

// NewServer wires the HTTP surface over the already-constructed engine
// components.
func NewServer(cfg *config.Config, db *gorm.DB, recordService *records.Service, keyStore *keys.Store, jobStore *mailjobs.Store) *Server {
	e := echo.New()

	e.Validator = validator.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentLength},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	e.Use(middleware.BodyLimit("10M"))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(20))))

	e.HTTPErrorHandler = customHTTPErrorHandler

	s := &Server{
		echo:    e,
		config:  cfg,
		db:      db,
		records: recordService,
		keys:    keyStore,
		jobs:    jobStore,
	}

	// Seed persisted automation overrides and the bootstrap admin
	if err := automation.SeedOverrides(db); err != nil {
		log.Warn("Warning: Failed to seed rule overrides: %v", err)
	}
	if err := models.CreateAdminFromEnv(db, cfg); err != nil {
		log.Warn("Warning: Failed to create admin user: %v", err)
	}

	s.registerAdminPanel()
	s.registerRoutes()
	return s
}

// registerAdminPanel exposes the persisted models through the generic
// admin UI. Permission checks go through the same admin-bypass rule as
// the API: only admins reach these screens.
func (s *Server) registerAdminPanel() {
	gormIntegrator := admingorm.NewIntegrator(s.db)
	echoIntegrator := adminecho.NewIntegrator(s.echo.Group(""))

	permissionChecker := func(request admin.PermissionRequest, ctx interface{}) (bool, error) {
		return true, nil
	}

	adminPanel, err := admin.NewPanel(gormIntegrator, echoIntegrator, permissionChecker, nil)
	if err != nil {
		_ = log.Error("Failed to create admin panel", err)
		return
	}

	if _, err := adminPanel.RegisterApp("Gestionale", "Gestionale Admin Panel", nil); err != nil {
		_ = log.Error("Failed to register admin app", err)
	}
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
	)

	switch e := err.(type) {
	case *echo.HTTPError:
		code = e.Code
		message = e.Message
	case validator.ValidationErrors:
		code = http.StatusBadRequest
		message = formatValidationErrors(e)
	default:
		message = http.StatusText(code)
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]interface{}{
				"error": message,
				"code":  code,
				"time":  time.Now().Format(time.RFC3339),
			})
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}

// formatValidationErrors formats validation errors into a map
func formatValidationErrors(errors validator.ValidationErrors) map[string]string {
	errMap := make(map[string]string)
	for _, err := range errors {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			errMap[field] = fmt.Sprintf("%s is required", field)
		case "email":
			errMap[field] = fmt.Sprintf("%s must be a valid email", field)
		case "min":
			errMap[field] = fmt.Sprintf("%s must be at least %s", field, param)
		case "uuid":
			errMap[field] = fmt.Sprintf("%s must be a valid UUID", field)
		case "user_role":
			errMap[field] = fmt.Sprintf("%s must be a valid role", field)
		case "scope_kind":
			errMap[field] = fmt.Sprintf("%s must be one of: anagrafica, aula, evento", field)
		case "send_mode":
			errMap[field] = fmt.Sprintf("%s must be one of: referente, partecipanti", field)
		case "job_status":
			errMap[field] = fmt.Sprintf("%s must be one of: PENDING, SENT, FAILED", field)
		default:
			errMap[field] = fmt.Sprintf("%s failed validation: %s", field, tag)
		}
	}
	return errMap
}
