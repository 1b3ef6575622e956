package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/tickease/tickease/internal/api/http"
	"github.com/tickease/tickease/internal/api/http/handlers"
	"github.com/tickease/tickease/internal/auth"
	"github.com/tickease/tickease/internal/config"
	"github.com/tickease/tickease/internal/events"
	"github.com/tickease/tickease/internal/observability"
	"github.com/tickease/tickease/internal/persistence"
	"github.com/tickease/tickease/internal/repository"
	"github.com/tickease/tickease/internal/service"
	"github.com/tickease/tickease/internal/worker"
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
	taskRepo := repository.NewTaskRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:    taskRepo,
		UserRepo:    userRepo,
		ProjectRepo: projectRepo,
		Dispatcher:  dispatcher,
	})
	conversionService := service.NewConversionService(service.ConversionDependencies{
		TicketRepo: ticketRepo,
		TaskRepo:   taskRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	memberService := service.NewMemberService(userRepo)
	projectService := service.NewProjectService(projectRepo)
	dashboardService := service.NewDashboardService(taskRepo, redis.Client, cfg.Dashboard.CacheTTL(), logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tasks:          handlers.NewTasksHandler(taskService, conversionService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Members:        handlers.NewMembersHandler(memberService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
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
