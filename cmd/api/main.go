package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/form-service/internal/api/http"
	"github.com/spec-kit/form-service/internal/api/http/handlers"
	"github.com/spec-kit/form-service/internal/auth"
	"github.com/spec-kit/form-service/internal/config"
	"github.com/spec-kit/form-service/internal/draft"
	"github.com/spec-kit/form-service/internal/events"
	"github.com/spec-kit/form-service/internal/form"
	"github.com/spec-kit/form-service/internal/observability"
	"github.com/spec-kit/form-service/internal/persistence"
	"github.com/spec-kit/form-service/internal/repository"
	"github.com/spec-kit/form-service/internal/service"
	"github.com/spec-kit/form-service/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	fileRepo := repository.NewFileRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{UserRepo: userRepo})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		SubmissionRepo: submissionRepo,
		Cache:          redis,
		CacheTTL:       cfg.Form.ListCacheTTL(),
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	storageService := service.NewStorageService(fileRepo, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	drafts := draft.NewStore(draft.NewRedisKV(redis.Client), logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics)
	usersHandler := handlers.NewUsersHandler(authService)
	formHandler := handlers.NewFormHandler(
		form.Config{Slot: cfg.Form.DraftSlot, CloseDelay: cfg.Form.CloseDelay()},
		drafts,
		submissionService,
		auth.ContextSessionProvider{},
		logger,
	)
	submissionsHandler := handlers.NewSubmissionsHandler(submissionService)
	filesHandler := handlers.NewFilesHandler(storageService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          usersHandler,
		Form:           formHandler,
		Submissions:    submissionsHandler,
		Files:          filesHandler,
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
