// Package api assembles the HTTP surface of the wizard: profile CRUD, the
// Kometa mapping endpoints, connectivity checks, run control and the
// websocket channel.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/kometawizard/kometawizard/internal/catalog"
	"github.com/kometawizard/kometawizard/internal/config"
	"github.com/kometawizard/kometawizard/internal/history"
	"github.com/kometawizard/kometawizard/internal/installer"
	"github.com/kometawizard/kometawizard/internal/kometa"
	"github.com/kometawizard/kometawizard/internal/plex"
	"github.com/kometawizard/kometawizard/internal/profile"
	"github.com/kometawizard/kometawizard/internal/runner"
	"github.com/kometawizard/kometawizard/internal/scheduler"
	"github.com/kometawizard/kometawizard/internal/tmdb"
	"github.com/kometawizard/kometawizard/internal/websocket"
)

// Deps carries the services the server exposes. All are constructed in main
// so they can be shared with the scheduler and the log broadcaster.
type Deps struct {
	Config    *config.Config
	Hub       *websocket.Hub
	Profiles  *profile.Manager
	Generator *kometa.Generator
	Importer  *kometa.Importer
	Plex      *plex.Client
	PlexCache *plex.LibraryCache
	PlexOAuth *plex.OAuth
	TMDb      *tmdb.Client
	Runner    *runner.Service
	Installer *installer.Service
	Scheduler *scheduler.Service
	History   *history.Service
	Logs      LogsProvider
}

// Server handles HTTP requests for the wizard API.
type Server struct {
	echo   *echo.Echo
	deps   Deps
	logger zerolog.Logger
}

// NewServer creates a new API server instance.
func NewServer(deps Deps, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		deps:   deps,
		logger: logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ws", s.deps.Hub.HandleWebSocket)

	api := s.echo.Group("/api")

	api.GET("/status", s.getStatus)

	profileHandlers := profile.NewHandlers(s.deps.Profiles)
	profileHandlers.RegisterRoutes(api)

	catalogHandlers := catalog.NewHandlers()
	catalogHandlers.RegisterRoutes(api.Group("/defaults"))

	plexHandlers := plex.NewHandlers(s.deps.Plex, s.deps.PlexCache, s.deps.PlexOAuth)
	plexHandlers.RegisterRoutes(api.Group("/plex"))

	tmdbHandlers := tmdb.NewHandlers(s.deps.TMDb)
	tmdbHandlers.RegisterRoutes(api)

	historyHandlers := history.NewHandlers(s.deps.History)
	historyHandlers.RegisterRoutes(api)

	logsHandlers := NewLogsHandlers(s.deps.Logs)
	logsHandlers.RegisterRoutes(api.Group("/logs"))

	api.GET("/preview", s.getPreview)
	api.POST("/import", s.importYAML)

	// Everything the UI triggers rather than edits lives under /actions.
	actions := api.Group("/actions")
	actions.POST("/generate-yaml", s.generateYAML)

	actions.POST("/run-kometa", s.startRun)
	actions.POST("/stop-kometa", s.stopRun)
	actions.GET("/run-status", s.runStatus)

	actions.POST("/create-schedule", s.setSchedule)
	actions.POST("/remove-schedule", s.removeSchedule)
	actions.GET("/schedule-status", s.scheduleStatus)

	actions.POST("/install-kometa", s.install)
	actions.POST("/update-kometa", s.update)
	actions.GET("/installation-status", s.installStatus)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance (for serving static files).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	active := s.deps.Profiles.Active()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":       "0.0.1-dev",
		"activeProfile": active.Name,
		"running":       s.deps.Runner.Status().Running,
		"installed":     s.deps.Installer.Status().Installed,
		"clients":       s.deps.Hub.ClientCount(),
	})
}
