package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hemantapkh/NcellBot/internal/action"
	"github.com/hemantapkh/NcellBot/internal/carrier"
	"github.com/hemantapkh/NcellBot/internal/config"
	"github.com/hemantapkh/NcellBot/internal/dialog"
	"github.com/hemantapkh/NcellBot/internal/flow"
	"github.com/hemantapkh/NcellBot/internal/handler"
	"github.com/hemantapkh/NcellBot/internal/messages"
	"github.com/hemantapkh/NcellBot/internal/middleware"
	"github.com/hemantapkh/NcellBot/internal/repository/postgres"
	"github.com/hemantapkh/NcellBot/internal/session"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Ncell Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	accountRepo := postgres.NewAccountRepo(db)
	tempRepo := postgres.NewTempRepo(db)

	// Initialize core components
	msgs, err := messages.Load()
	if err != nil {
		logger.Fatal("Failed to load message catalog", zap.Error(err))
	}

	carrierClient := carrier.NewHTTPClient(cfg.Carrier.BaseURL, cfg.Carrier.Timeout, logger)
	sessions := session.NewManager(accountRepo, logger)
	engine := dialog.New(cfg.WizardTTL, logger)
	router := action.NewRouter(logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: buildPoller(cfg),
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}
	bot.Use(middleware.Recover(logger))

	logger.Info("Telegram bot initialized", zap.String("run_mode", cfg.RunMode))

	// Wire conversational flows and handlers
	flows := flow.New(flow.Deps{
		Logger:   logger,
		Users:    userRepo,
		Accounts: accountRepo,
		Temp:     tempRepo,
		Carrier:  carrierClient,
		Sessions: sessions,
		Dialog:   engine,
		Actions:  router,
		Messages: msgs,
	})

	h := handler.NewHandler(bot, flows, userRepo, accountRepo, msgs, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Expire abandoned wizards in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go engine.Run(ctx)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// buildPoller returns the update source matching the configured run mode.
func buildPoller(cfg *config.Config) tele.Poller {
	if cfg.RunMode == config.RunModeWebhook {
		return &tele.Webhook{
			Listen: cfg.Webhook.Listen,
			Endpoint: &tele.WebhookEndpoint{
				PublicURL: cfg.Webhook.PublicURL,
			},
		}
	}
	return &tele.LongPoller{Timeout: 10 * time.Second}
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations applied")
	return nil
}
