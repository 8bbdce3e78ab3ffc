package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rcollings/duetick-api/internal/config"
	"github.com/rcollings/duetick-api/internal/platform/postgres"
	"github.com/rcollings/duetick-api/internal/platform/webpush"
	"github.com/rcollings/duetick-api/internal/reminder"
	"github.com/rcollings/duetick-api/internal/scheduler"
	"github.com/rcollings/duetick-api/internal/service"
	"github.com/rcollings/duetick-api/internal/service/auth"
	"github.com/rcollings/duetick-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore         store.UserStore
	taskStore         store.TaskStore
	categoryStore     store.CategoryStore
	subscriptionStore store.PushSubscriptionStore
	notificationStore store.SentNotificationStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	taskService      service.TaskService
	categoryService  service.CategoryService

	// Reminder dispatch
	pushSender *webpush.Sender
	dispatcher *reminder.Dispatcher
	scheduler  *scheduler.Scheduler
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	bcryptCost := cfg.Auth.BcryptCost
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	app.userStore = postgres.NewPostgresUserStore(db, bcryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.categoryStore = postgres.NewPostgresCategoryStore(db, logger)
	app.subscriptionStore = postgres.NewPostgresSubscriptionStore(db, logger)
	app.notificationStore = postgres.NewPostgresSentNotificationStore(db, logger)

	// Initialize services
	app.taskService, err = service.NewTaskService(app.taskStore, app.categoryStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.categoryService, err = service.NewCategoryService(app.categoryStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create category service: %w", err)
	}

	// Initialize the web-push sender and reminder dispatcher
	app.pushSender, err = webpush.NewSender(cfg.Push, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize push sender: %w", err)
	}

	app.dispatcher = reminder.NewDispatcher(
		app.taskStore,
		app.subscriptionStore,
		app.notificationStore,
		app.pushSender,
		reminder.Config{
			WindowPast:         time.Duration(cfg.Dispatch.WindowPastMinutes) * time.Minute,
			WindowFuture:       time.Duration(cfg.Dispatch.WindowFutureMinutes) * time.Minute,
			SendTimeout:        time.Duration(cfg.Dispatch.SendTimeoutSeconds) * time.Second,
			MaxConcurrentSends: cfg.Dispatch.MaxConcurrentSends,
		},
		logger,
	)

	// Start the in-process scheduler when an interval is configured.
	// With run_interval_minutes=0 an external scheduler drives the
	// dispatch trigger endpoint instead.
	if cfg.Dispatch.RunIntervalMinutes > 0 {
		if err := setupScheduler(app); err != nil {
			return nil, fmt.Errorf("failed to setup scheduler: %w", err)
		}
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupScheduler starts the background dispatch loop on the configured
// interval.
func setupScheduler(app *application) error {
	app.scheduler = scheduler.New(app.logger)

	interval := time.Duration(app.config.Dispatch.RunIntervalMinutes) * time.Minute
	_, err := app.scheduler.ScheduleInterval(interval, app.runDispatchCycle)
	if err != nil {
		return fmt.Errorf("failed to schedule dispatch cycle: %w", err)
	}

	app.scheduler.Start()
	app.logger.Info("Reminder scheduler started",
		"run_interval_minutes", app.config.Dispatch.RunIntervalMinutes)
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// runDispatchCycle is the scheduled job body. Cycle failures are logged
// and retried at the next tick; idempotency markers make the retry safe.
func (app *application) runDispatchCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := app.dispatcher.RunCycle(ctx); err != nil {
		app.logger.Error("Dispatch cycle failed", "error", err)
	}
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop the scheduler and wait for an in-flight cycle to finish
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
