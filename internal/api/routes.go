package api

import (
	"net/http"

	"gestionale/internal/api/controllers"
	"gestionale/internal/api/middleware"
	"gestionale/internal/automation"

	_ "gestionale/docs/swagger"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "gestionale")
	})
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	authController := controllers.NewAuthController(s.db, s.config.JWT.Secret)
	s.echo.POST("/auth/login", authController.Login)

	// API v1 group, everything below requires a bearer token
	api := s.echo.Group("/api/v1")
	auth := middleware.NewAuthMiddleware(s.config.JWT.Secret, s.db, s.keys)
	api.Use(auth.Middleware())

	api.POST("/auth/logout", authController.Logout)

	// Dynamic record routes: permission resolution happens in the
	// middleware, own-only list filtering in the controller.
	recordController := controllers.NewRecordController(s.records)
	recordGroup := api.Group("/records/:domain/:slug")
	recordGroup.Use(middleware.RequireRecordPermission())
	recordGroup.GET("", recordController.List)
	recordGroup.POST("", recordController.Create)
	recordGroup.GET("/:id", recordController.Get)
	recordGroup.PUT("/:id", recordController.Update)
	recordGroup.DELETE("/:id", recordController.Delete)

	// Explicit grants: listing is open to the owner, writes are admin only
	keyController := controllers.NewKeyController(s.keys)
	api.GET("/resource-keys", keyController.List)
	keyAdminGroup := api.Group("/resource-keys")
	keyAdminGroup.Use(middleware.RequireAdmin())
	keyAdminGroup.POST("", keyController.Create)
	keyAdminGroup.DELETE("/:id", keyController.Delete)

	// Automation administration
	overrideController := controllers.NewOverrideController(automation.NewOverrideStore(s.db))
	jobController := controllers.NewJobController(s.jobs)
	adminGroup := api.Group("")
	adminGroup.Use(middleware.RequireAdmin())
	adminGroup.GET("/rule-overrides", overrideController.List)
	adminGroup.PUT("/rule-overrides/:actionId", overrideController.Update)
	adminGroup.GET("/mail-jobs", jobController.List)

	// Visibility-window feed
	notificationController := controllers.NewNotificationController(s.records)
	api.GET("/notifications", notificationController.List)
}
