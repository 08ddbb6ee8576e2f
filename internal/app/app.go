// Package app owns the process-wide resources: it builds every dependency
// once, serves HTTP until told to stop, and tears everything down in order.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/project-registry/internal/api"
	"github.com/99minutos/project-registry/internal/api/handler"
	"github.com/99minutos/project-registry/internal/api/metrics"
	"github.com/99minutos/project-registry/internal/core/ports"
	"github.com/99minutos/project-registry/internal/core/service"
	"github.com/99minutos/project-registry/internal/infrastructure/audit"
	"github.com/99minutos/project-registry/internal/infrastructure/config"
	"github.com/99minutos/project-registry/internal/infrastructure/db/mongo"
	"github.com/99minutos/project-registry/internal/infrastructure/db/redis"
	"github.com/99minutos/project-registry/internal/infrastructure/db/sqlstore"
	"github.com/99minutos/project-registry/internal/infrastructure/lockout"
	"github.com/99minutos/project-registry/internal/infrastructure/queue"
)

const shutdownGrace = 10 * time.Second

// App is the application context. Build it with New, serve with Run, and
// release it with Close.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	store      *sqlstore.Store
	redis      *goredis.Client
	mongo      *mongodriver.Client
	dispatcher *queue.Dispatcher
	registry   *prometheus.Registry
	echo       *echo.Echo
}

// New connects to every configured backend, creates the schema, and wires
// the HTTP router. On error, whatever was opened is closed again.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	a.store, err = sqlstore.Open(ctx, sqlstore.Config{URI: cfg.Database.URI}, log)
	if err != nil {
		return nil, err
	}
	if err = a.store.Migrate(ctx); err != nil {
		return nil, err
	}
	log.Info().Msg("database schema ready")

	checks := map[string]handler.Checker{"database": a.store.Ping}

	var lockoutStore ports.LoginLockoutStore
	switch {
	case cfg.Auth.LoginMaxAttempts == 0:
		log.Warn().Msg("login lockout disabled")
	case cfg.Redis.Addr != "":
		a.redis, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		lockoutStore = redis.NewLoginLockout(a.redis, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutWindow)
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
		log.Info().Msg("login lockout backed by redis")
	default:
		lockoutStore = lockout.NewMemoryStore(cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutWindow)
	}

	var sink ports.AuditSink
	if cfg.Mongo.URI != "" {
		var db *mongodriver.Database
		a.mongo, db, err = mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		repo := mongo.NewAuditRepository(db)
		if idxErr := repo.EnsureIndexes(ctx); idxErr != nil {
			log.Warn().Err(idxErr).Msg("audit index not created")
		}
		sink = repo
		checks["mongodb"] = func(ctx context.Context) error { return a.mongo.Ping(ctx, nil) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail backed by mongodb")
	} else {
		sink = audit.NewLogSink(log)
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(a.registry)

	a.dispatcher = queue.NewDispatcher(cfg.AuditWorkers, sink, log, m)
	m.RegisterAuditQueueDepth(a.dispatcher.Pending)
	a.dispatcher.Start(ctx)

	userRepo := sqlstore.NewUserRepository(a.store)
	projectRepo := sqlstore.NewProjectRepository(a.store)

	a.echo = api.NewRouter(api.RouterConfig{
		Logger:   log,
		Registry: a.registry,
		Metrics:  m,
		AuthService: service.NewAuthService(userRepo, lockoutStore, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL,
			log.With().Str("component", "auth").Logger()),
		UserService:     service.NewUserService(userRepo, log.With().Str("component", "users").Logger()),
		ProjectService:  service.NewProjectService(projectRepo, userRepo, log.With().Str("component", "projects").Logger()),
		Auditor:         a.dispatcher,
		ReadinessChecks: checks,
		HTTPSRedirect:   cfg.HTTPSRedirect,
	})

	return a, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.echo
}

// Run serves HTTP on the configured port until ctx is cancelled, then shuts
// the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	<-errCh
	return nil
}

// Close drains the audit queue and releases every connection. It is safe to
// call on a partially built App.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.dispatcher != nil {
		if err := a.dispatcher.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("audit dispatcher: %w", err))
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongo: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	return errors.Join(errs...)
}
