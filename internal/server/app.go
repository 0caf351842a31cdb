// Package server wires the gophtodo components together and runs the HTTP
// and gRPC endpoints until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/httpapi"
	"github.com/dmitrijs2005/gophtodo/internal/server/incidents"
	"github.com/dmitrijs2005/gophtodo/internal/server/notify"
	"github.com/dmitrijs2005/gophtodo/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/gophtodo/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	dispatcher  *notify.Dispatcher
	userService *services.UserService
	todoService *services.TodoService
	tokens      *auth.TokenService
	limiter     ratelimit.Limiter
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewDefault(c.IsProduction())
	if c.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{config: c, logger: logger}

	rm, err := app.initStorage(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	reporter, err := app.initReporter(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.limiter, err = app.initLimiter(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.dispatcher = notify.NewDispatcher(notify.NewLogSender(logger), c.NotifyQueueSize, logger)
	app.tokens = auth.NewTokenService(c)
	app.userService = services.NewUserService(rm, c, app.dispatcher, reporter, logger)
	app.todoService = services.NewTodoService(rm, app.dispatcher, logger)

	if c.AdminEmail != "" {
		if _, err := app.userService.EnsureAdmin(ctx, c.AdminEmail, c.AdminPassword); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed administrator: %w", err)
		}
	}

	return app, nil
}

func (app *App) initStorage(ctx context.Context) (repomanager.RepositoryManager, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, using in-memory store")
		return memory.NewStore(), nil
	}

	db, err := repomanager.Open(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	app.db = db

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return rm, nil
}

func (app *App) initReporter(ctx context.Context) (incidents.Reporter, error) {
	if app.config.S3Bucket == "" {
		return incidents.NewLogReporter(app.logger), nil
	}
	r, err := incidents.NewS3Reporter(ctx, app.config)
	if err != nil {
		return nil, fmt.Errorf("incident store: %w", err)
	}
	return r, nil
}

func (app *App) initLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	if app.config.RateLimitPerMinute == 0 {
		return ratelimit.Unlimited{}, nil
	}
	if app.config.RedisURL == "" {
		return ratelimit.NewMemoryLimiter(app.config.RateLimitPerMinute, time.Minute), nil
	}
	client, err := ratelimit.Dial(ctx, app.config.RedisURL)
	if err != nil {
		return nil, err
	}
	app.redis = client
	return ratelimit.NewRedisLimiter(client, app.config.RateLimitPerMinute, time.Minute), nil
}

// Close releases connections opened by NewApp.
func (app *App) Close() {
	if app.db != nil {
		_ = app.db.Close()
	}
	if app.redis != nil {
		_ = app.redis.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.todoService, app.tokens)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router, err := httpapi.NewRouter(httpapi.Dependencies{
		Config:      app.config,
		Users:       app.userService,
		Todos:       app.todoService,
		Tokens:      app.tokens,
		RateLimiter: app.limiter,
		Logger:      app.logger,
	})
	if err != nil {
		app.logger.Error(ctx, "http router setup failed", "error", err)
		cancelFunc()
		return
	}

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http server shutdown failed", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP, "env", app.config.Env)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server stopped unexpectedly", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	app.dispatcher.Start(ctx)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.dispatcher.Close()
	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}
