// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	router "papertrade/internal/api"
	"papertrade/internal/api/handler"
	"papertrade/internal/config"
	"papertrade/internal/quote"
	"papertrade/internal/repository"
	"papertrade/internal/repository/postgres"
	"papertrade/internal/service"
	"papertrade/internal/session"
	"papertrade/internal/util"
	"papertrade/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	UserRepository        repository.UserRepository
	TransactionRepository repository.TransactionRepository

	// Collaborators
	Quotes   quote.Provider
	Sessions session.Store

	// Services
	AuthService    service.AuthService
	TradingService service.TradingService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
// Logger is usable immediately so initialization failures can be reported.
func NewApplication() *Application {
	return &Application{Logger: util.GetLogger()}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and apply migrations
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.Migrate(app.DB, app.Config.DB.MigrationDir); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	app.Logger.Info("Database migrations applied.")

	// 4. Connect to Redis
	redisClient, err := session.NewRedisClient(app.Config.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.Redis = redisClient
	app.Logger.Info("Redis connection established.")

	// 5. Initialize Repositories and Collaborators
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.Sessions = session.NewRedisStore(app.Redis, app.Config.Session.TTL)
	app.Quotes = quote.NewCachedProvider(
		quote.NewClient(app.Config.Quote),
		app.Redis,
		app.Config.Quote.CacheTTL,
	)
	app.Logger.Info("Repositories and collaborators initialized.")

	// 6. Initialize Services
	app.AuthService = service.NewAuthService(app.DB, app.UserRepository, app.Sessions)
	app.TradingService = service.NewTradingService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.TransactionRepository,
		app.Quotes,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	authHandler := handler.NewAuthHandler(app.AuthService, app.Logger)
	tradingHandler := handler.NewTradingHandler(app.TradingService, app.Logger)
	app.HTTPHandler = router.NewRouter(authHandler, tradingHandler, app.AuthService, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close Redis connection", "error", err)
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
		app.Logger.Info("Redis connection closed.")
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
