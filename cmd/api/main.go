package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/dern-company/support-portal/internal/api/http"
	"github.com/dern-company/support-portal/internal/api/http/handlers"
	"github.com/dern-company/support-portal/internal/auth"
	"github.com/dern-company/support-portal/internal/config"
	"github.com/dern-company/support-portal/internal/events"
	"github.com/dern-company/support-portal/internal/observability"
	"github.com/dern-company/support-portal/internal/persistence"
	"github.com/dern-company/support-portal/internal/repository"
	"github.com/dern-company/support-portal/internal/service"
	"github.com/dern-company/support-portal/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	accountService := service.NewAccountService(*cfg, userRepo)
	ticketService := service.NewTicketService(ticketRepo, dispatcher)
	bookingService := service.NewBookingService(bookingRepo, serviceRepo, dispatcher)
	catalogService := service.NewCatalogService(serviceRepo, bookingRepo, persistence.NewKeyValueCache(redis.Client), logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	actorMiddleware := auth.NewActorMiddleware(accountService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(pg, redis),
		Auth:            handlers.NewAuthHandler(accountService),
		Users:           handlers.NewUsersHandler(accountService),
		Tickets:         handlers.NewTicketsHandler(ticketService),
		Bookings:        handlers.NewBookingsHandler(bookingService),
		Services:        handlers.NewServicesHandler(catalogService),
		ActorMiddleware: actorMiddleware,
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
