package container

import (
	"context"
	"errors"
	"fmt"

	"sih-portal/internal/config"
	"sih-portal/internal/notify"
	"sih-portal/internal/repository"
	"sih-portal/internal/service"
	"sih-portal/internal/service/auth"
	"sih-portal/pkg/database"
	"sih-portal/pkg/logger"
	"sih-portal/pkg/redis"
	"sih-portal/pkg/supabase"
)

// Services groups the workflows exposed over HTTP
type Services struct {
	Registration *service.RegistrationService
	Teams        *service.TeamService
	Discovery    *service.DiscoveryService
}

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Repositories *repository.Repositories
	Sessions     *auth.SessionService
	Notifier     notify.Notifier
	Services     *Services
}

// New creates a new dependency injection container. The postgres backend
// connects eagerly; Redis is optional and its failure only disables the
// membership guard.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: log,
	}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, database.PoolOptions{
			ApplicationName: "sih-portal",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db
		c.Repositories = repository.NewPostgresStore(db).Repositories()
		log.Info("Using postgres store")
	case config.BackendSupabase:
		client := supabase.NewClient(supabase.Config{
			URL:     cfg.SupabaseURL,
			AnonKey: cfg.SupabaseAnonKey,
			Timeout: cfg.RemoteTimeout,
		}, log)
		c.Repositories = repository.NewSupabaseStore(client).Repositories()
		log.WithField("url", cfg.SupabaseURL).Info("Using supabase store")
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	var guard service.MembershipGuard = service.NoopGuard{}
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without membership guard")
		} else {
			c.RedisClient = client
			guard = service.NewRedisGuard(client, cfg.JoinLockTTL, log)
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without membership guard")
	}

	if cfg.SessionsEnabled() {
		c.Sessions = auth.NewSessionService(cfg.SessionSecret, cfg.SessionTTL, log)
	} else {
		log.Warn("SESSION_SECRET not set, joins resolve the most recent registration")
	}

	c.Notifier = notify.NewRequestNotifier(log)

	c.Services = &Services{
		Registration: service.NewRegistrationService(c.Repositories.Registrations, c.Sessions, c.Notifier, log),
		Teams:        service.NewTeamService(c.Repositories, guard, c.Notifier, log),
		Discovery:    service.NewDiscoveryService(c.Repositories, cfg.DiscoveryConcurrency, c.Notifier, log),
	}

	return c, nil
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// Close releases the store and Redis connections
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
		c.RedisClient = nil
	}

	if c.DB != nil {
		c.DB.Close()
		c.DB = nil
	}

	return errors.Join(errs...)
}
