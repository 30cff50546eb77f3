package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kometawizard/kometawizard/internal/api"
	"github.com/kometawizard/kometawizard/internal/config"
	"github.com/kometawizard/kometawizard/internal/database"
	"github.com/kometawizard/kometawizard/internal/history"
	"github.com/kometawizard/kometawizard/internal/installer"
	"github.com/kometawizard/kometawizard/internal/kometa"
	"github.com/kometawizard/kometawizard/internal/logger"
	"github.com/kometawizard/kometawizard/internal/plex"
	"github.com/kometawizard/kometawizard/internal/profile"
	"github.com/kometawizard/kometawizard/internal/runner"
	"github.com/kometawizard/kometawizard/internal/scheduler"
	"github.com/kometawizard/kometawizard/internal/tmdb"
	"github.com/kometawizard/kometawizard/internal/websocket"
	"github.com/kometawizard/kometawizard/web"
)

func main() {
	// .env is optional; environment beats file either way.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Path:   cfg.Logging.Path,
	})
	defer log.Close()

	log.Info().Str("logLevel", cfg.Logging.Level).Msg("starting kometa wizard")

	port, err := cfg.Server.ResolvePort()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve server port")
	}
	if port != cfg.Server.Port {
		log.Warn().Int("configuredPort", cfg.Server.Port).Int("actualPort", port).
			Msg("configured port in use, using alternative port")
		cfg.Server.Port = port
	}

	hub := websocket.NewHub()
	go hub.Run()
	log.SetBroadcastHub(hub)

	db, err := database.New(cfg.Data.HistoryDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	store, err := profile.NewStore(cfg.Data.ProfilesDir, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open profile store")
	}
	profiles := profile.NewManager(store, log.Logger)

	generator := kometa.NewGenerator(log.Logger)
	importer := kometa.NewImporter(log.Logger)

	plexClient := plex.NewClient(uuid.NewString(), log.Logger)
	plexCache := plex.NewLibraryCache(0)
	plexOAuth := plex.NewOAuth(plexClient, log.Logger)
	tmdbClient := tmdb.NewClient(log.Logger)

	historyService := history.NewService(db.Conn(), log.Logger)
	runnerService := runner.NewService(cfg.Kometa, hub, historyService, log.Logger)
	installerService := installer.NewService(cfg.Kometa, hub, log.Logger)

	schedulePath := filepath.Join(cfg.Data.OutputDir, "schedule.json")
	schedulerService, err := scheduler.NewService(schedulePath, func(profileName string) error {
		p, err := store.Load(profileName)
		if err != nil {
			return err
		}
		configPath := filepath.Join(cfg.Data.OutputDir, profile.SanitizeName(p.Name)+".yml")
		if err := generator.Save(p, configPath); err != nil {
			return err
		}
		return runnerService.Start(p.Name, configPath, runner.TriggerScheduled)
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	defer schedulerService.Shutdown()

	server := api.NewServer(api.Deps{
		Config:    cfg,
		Hub:       hub,
		Profiles:  profiles,
		Generator: generator,
		Importer:  importer,
		Plex:      plexClient,
		PlexCache: plexCache,
		PlexOAuth: plexOAuth,
		TMDb:      tmdbClient,
		Runner:    runnerService,
		Installer: installerService,
		Scheduler: schedulerService,
		History:   historyService,
		Logs:      log,
	}, log.Logger)

	if distFS, err := web.DistFS(); err == nil {
		registerFrontendHandler(server.Echo(), distFS)
	} else {
		log.Warn().Err(err).Msg("frontend assets unavailable")
	}

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)).Msg("wizard ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}

// registerFrontendHandler serves the embedded UI with an index.html fallback
// for client-side routes.
func registerFrontendHandler(e *echo.Echo, distFS fs.FS) {
	fileServer := http.FileServer(http.FS(distFS))

	e.GET("/*", func(c echo.Context) error {
		path := c.Request().URL.Path

		if strings.HasPrefix(path, "/api/") || path == "/ws" {
			return echo.ErrNotFound
		}

		if path != "/" {
			cleanPath := strings.TrimPrefix(path, "/")
			if file, err := distFS.Open(cleanPath); err == nil {
				file.Close()
				fileServer.ServeHTTP(c.Response(), c.Request())
				return nil
			}
		}

		indexFile, err := distFS.Open("index.html")
		if err != nil {
			return echo.ErrNotFound
		}
		defer indexFile.Close()

		return c.Stream(http.StatusOK, "text/html; charset=utf-8", indexFile)
	})
}
