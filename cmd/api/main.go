package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/expense-tracker/internal/api/http"
	"github.com/spec-kit/expense-tracker/internal/api/http/handlers"
	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/config"
	"github.com/spec-kit/expense-tracker/internal/events"
	"github.com/spec-kit/expense-tracker/internal/observability"
	"github.com/spec-kit/expense-tracker/internal/persistence"
	"github.com/spec-kit/expense-tracker/internal/repository"
	"github.com/spec-kit/expense-tracker/internal/service"
	"github.com/spec-kit/expense-tracker/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool, cfg.Auth.BcryptCost)
	categoryRepo := repository.NewCategoryRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	userService := service.NewUserService(userRepo, dispatcher)
	categoryService := service.NewCategoryService(categoryRepo, dispatcher)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, dispatcher)
	activityService := service.NewActivityService(dispatcher, redis.Client, logger, cfg.Activity.MaxEntries)
	worker.StartActivityWorker(activityService)

	authMiddleware := auth.NewMiddleware(tokenManager)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(userService, tokenManager),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Transactions:   handlers.NewTransactionsHandler(transactionService),
		Activity:       handlers.NewActivityHandler(activityService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
