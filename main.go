package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "go.uber.org/automaxprocs"

	"sih-portal/internal/config"
	"sih-portal/internal/container"
	"sih-portal/internal/handler"
	"sih-portal/internal/metrics"
	"sih-portal/internal/middleware"
	"sih-portal/internal/notify"
	"sih-portal/internal/repository"
	"sih-portal/pkg/logger"
	"sih-portal/pkg/server"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errors []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errors = append(errors, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container != nil {
		r.log.Info("Closing store and Redis connections...")
		if err := r.container.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close connections")
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		r.log.WithField("error_count", len(errors)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errors), errors)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.WithFields(map[string]interface{}{
		"port":          cfg.Port,
		"log_level":     cfg.LogLevel,
		"environment":   cfg.Environment,
		"store_backend": cfg.StoreBackend,
	}).Info("Starting sih-portal server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create dependency injection container
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	router, err := setupRouter(c)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure router")
	}

	srv := server.New(cfg.Port, router)

	resources := &Resources{
		container: c,
		server:    srv,
		log:       log,
	}

	// Cleanup runs regardless of how the program exits
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	if err := server.Serve(ctx, srv, log); err != nil {
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) (*chi.Mux, error) {
	cfg := c.Config
	log := c.Logger

	cookie := handler.CookieSettings{Secure: cfg.IsProduction()}
	if c.Sessions != nil {
		cookie.TTL = c.Sessions.TTL()
	}

	// Create handlers
	var cache repository.Pinger
	if c.HasRedis() {
		cache = c.RedisClient
	}
	healthHandler := handler.NewHealthHandler(c.Repositories.Store, cache, log)
	registrationHandler := handler.NewRegistrationHandler(c.Services.Registration, cookie, log)
	teamHandler := handler.NewTeamHandler(c.Services.Teams, c.Services.Discovery, log)
	pageHandler, err := handler.NewPageHandler(c.Services.Registration, c.Services.Teams, c.Services.Discovery, cookie, log)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	// Setup middlewares
	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(notify.Middleware)
		r.Use(middleware.Session(c.Sessions, log))

		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/registrations", registrationHandler.Register)

			r.Route("/teams", func(r chi.Router) {
				r.Post("/", teamHandler.CreateTeam)
				r.Post("/join", teamHandler.JoinTeam)
				r.Get("/open", teamHandler.OpenTeams)
			})
		})

		r.Get("/", pageHandler.Landing)
		r.Get("/register", pageHandler.RegisterForm)
		r.Post("/register", pageHandler.RegisterSubmit)
		r.Get("/team-formation", pageHandler.TeamFormation)
		r.Get("/create-team", pageHandler.CreateTeamForm)
		r.Post("/create-team", pageHandler.CreateTeamSubmit)
		r.Get("/join-team", pageHandler.JoinTeamForm)
		r.Post("/join-team", pageHandler.JoinTeamSubmit)
		r.Get("/find-teams", pageHandler.FindTeams)
	})

	r.NotFound(notify.Middleware(http.HandlerFunc(pageHandler.NotFound)).ServeHTTP)

	log.Info("Router configured successfully")
	return r, nil
}
