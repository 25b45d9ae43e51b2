package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/cache"
	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/events"
	"github.com/spec-kit/helpdesk-portal/internal/observability"
	"github.com/spec-kit/helpdesk-portal/internal/pager"
	"github.com/spec-kit/helpdesk-portal/internal/remote"
	"github.com/spec-kit/helpdesk-portal/internal/service"
	"github.com/spec-kit/helpdesk-portal/internal/session"
	"github.com/spec-kit/helpdesk-portal/internal/web"
	"github.com/spec-kit/helpdesk-portal/internal/web/handlers"
	"github.com/spec-kit/helpdesk-portal/internal/worker"
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

	store, closeStore, err := newSnapshotStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to init snapshot store", zap.Error(err))
	}
	defer closeStore()

	metrics := observability.NewMetrics()
	client := remote.New(cfg.API, logger, metrics)
	dispatcher := events.NewInMemoryDispatcher(logger)

	manager := session.NewManager(session.ManagerDependencies{
		Remote:  client,
		Store:   store,
		Config:  cfg.Session,
		FeedCfg: cfg.Feed,
		Logger:  logger,
		Metrics: metrics,
	})
	registerFeedSubscriptions(dispatcher, manager)

	ticketService := service.NewTicketService(client, dispatcher, logger)
	userService := service.NewUserService(client, dispatcher, logger)
	feedbackService := service.NewFeedbackService(client, dispatcher, logger)

	worker.StartSessionJanitor(ctx, manager, cfg.Session.CleanupInterval(), logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	web.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	web.RegisterRoutes(app, web.RouteConfig{
		Auth:       handlers.NewAuthHandler(manager, cfg.Session),
		Tickets:    handlers.NewTicketsHandler(ticketService, cfg.Feed),
		Portal:     handlers.NewPortalHandler(ticketService, feedbackService, cfg.Feed),
		Users:      handlers.NewUsersHandler(userService, cfg.Feed),
		Feedback:   handlers.NewFeedbackHandler(feedbackService, pager.NewStateStore(), cfg.Feed),
		Uploads:    handlers.NewUploadsHandler(ticketService),
		Manager:    manager,
		SessionCfg: cfg.Session,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	manager.CloseAll()
}

// newSnapshotStore picks the snapshot backend: per-key JSON files by default,
// Redis when configured.
func newSnapshotStore(cfg *config.Config, logger *zap.Logger) (cache.SnapshotStore, func(), error) {
	if cfg.Cache.Backend == "redis" {
		redisStore := cache.NewRedisStore(cfg.Redis, logger)
		return redisStore, redisStore.Close, nil
	}
	fileStore, err := cache.NewFileStore(cfg.Cache.Dir)
	if err != nil {
		return nil, nil, err
	}
	return fileStore, func() {}, nil
}

// registerFeedSubscriptions refreshes the publishing session's feeds as soon
// as a mutation is acknowledged, instead of waiting for the next poll.
func registerFeedSubscriptions(dispatcher events.Dispatcher, manager *session.Manager) {
	invalidateTickets := func(_ context.Context, event events.Event) error {
		if sess, ok := manager.ByID(event.SessionID); ok {
			sess.InvalidateTickets()
		}
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, invalidateTickets)
	dispatcher.Subscribe(events.EventTicketStatusChanged, invalidateTickets)
	dispatcher.Subscribe(events.EventTicketTransferred, invalidateTickets)
	dispatcher.Subscribe(events.EventTicketResponded, invalidateTickets)

	dispatcher.Subscribe(events.EventUsersChanged, func(_ context.Context, event events.Event) error {
		if sess, ok := manager.ByID(event.SessionID); ok {
			sess.InvalidateUsers()
		}
		return nil
	})
	dispatcher.Subscribe(events.EventEvaluationSubmitted, func(_ context.Context, event events.Event) error {
		if sess, ok := manager.ByID(event.SessionID); ok {
			sess.InvalidateEvaluations()
		}
		return nil
	})
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
