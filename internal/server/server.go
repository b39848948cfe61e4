package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/eatwell/eatwell-backend/config"
	"github.com/eatwell/eatwell-backend/internal/app/controller"
	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/internal/app/service"
	"github.com/eatwell/eatwell-backend/internal/db"
	"github.com/eatwell/eatwell-backend/internal/mailer"
	"github.com/eatwell/eatwell-backend/internal/middleware"
	"github.com/eatwell/eatwell-backend/internal/router"
	"github.com/eatwell/eatwell-backend/internal/scheduler"
	"github.com/eatwell/eatwell-backend/pkg/logger"
	"github.com/eatwell/eatwell-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

// Deps are the shared pieces every backend is built from.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Mailer mailer.Gateway
	Users  repository.UserRepository

	shutdown []func()
}

// OnShutdown registers fn to run after the HTTP server has stopped.
func (d *Deps) OnShutdown(fn func()) {
	d.shutdown = append(d.shutdown, fn)
}

// MountFunc returns the domain controllers of one backend. Auth is filled in by Run.
type MountFunc func(deps *Deps) router.Controllers

// Run boots a backend: configuration, logging, database, mail, optional
// session revocation, the token cleanup job and the HTTP server. It returns
// once the server has shut down after SIGINT or SIGTERM.
func Run(serviceName string, mount MountFunc) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		Service:     serviceName,
		EnableColor: true,
	})

	logger.Info("Starting backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		return err
	}

	deps := &Deps{
		Config: cfg,
		DB:     db.GetDB(),
		Mailer: mailer.NewGateway(&cfg.Mail),
		Users:  repository.NewUserRepository(db.GetDB()),
	}

	// Interfaces stay nil without redis so logout is disabled rather than half wired
	var (
		revoker     service.SessionRevoker
		revocations middleware.RevocationChecker
	)
	if cfg.Redis.Enabled {
		client, err := redis.Connect(&cfg.Redis)
		if err != nil {
			return err
		}
		defer closeRedis(client)

		blacklist := redis.NewTokenBlacklist(client)
		revoker = blacklist
		revocations = blacklist
	} else {
		logger.Warn("Redis disabled, logout endpoint is not mounted")
	}

	authService := service.NewAuthService(deps.Users, deps.Mailer, service.AuthConfig{
		JWTSecret:       cfg.JWT.Secret,
		SessionTTL:      cfg.JWT.SessionTTL,
		VerificationTTL: cfg.Tokens.VerificationTTL,
		ClientURL:       cfg.Server.ClientURL,
	}, revoker)
	resetService := service.NewPasswordResetService(deps.Users, deps.Mailer, cfg.Server.ClientURL, cfg.Tokens.ResetTTL)

	controllers := mount(deps)
	defer func() {
		for i := len(deps.shutdown) - 1; i >= 0; i-- {
			deps.shutdown[i]()
		}
	}()
	controllers.Auth = controller.NewAuthController(authService, resetService)

	cleanup := scheduler.NewTokenCleanupScheduler(deps.Users, cfg.Scheduler.TokenCleanupSpec)
	if err := cleanup.Start(); err != nil {
		return err
	}
	defer cleanup.Stop()

	engine := router.NewRouter(
		serviceName,
		controllers,
		middleware.NewAuthMiddleware(cfg.JWT.Secret, revocations),
		revoker != nil,
		cfg,
	).Setup()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-quit:
	}

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped successfully")
	return nil
}

func closeRedis(client *goredis.Client) {
	if err := client.Close(); err != nil {
		logger.Error("Failed to close redis connection", err)
	}
}
