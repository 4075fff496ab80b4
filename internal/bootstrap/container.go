package bootstrap

import (
	"context"
	"log"
	"time"

	"user-directory-be/internal/config"
	"user-directory-be/internal/controller"
	"user-directory-be/internal/handler"
	"user-directory-be/internal/pkg/logger"
	"user-directory-be/internal/pkg/metrics"
	"user-directory-be/internal/repository/memory"
	"user-directory-be/internal/service"
	"user-directory-be/internal/websocket"
	"user-directory-be/pkg/directory"
	"user-directory-be/pkg/identifier"
	pktNats "user-directory-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	UserController      controller.IUserController
	FormController      controller.IFormController
	DirectoryController controller.IDirectoryController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	DirectoryService service.IDirectoryService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Metrics *metrics.Metrics
	Logger  logger.ILogger

	closers []func()
}

// NewContainer wires every dependency. Redis and NATS are optional: an empty
// URL, or one that cannot be reached, leaves that feature off.
func NewContainer(cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger, Metrics: metrics.New()}

	ids, err := identifier.New(cfg.App.IDStrategy, time.Now())
	if err != nil {
		return nil, err
	}

	// Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var mirror service.EventMirror
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			mirror = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// Redis
	var rdb *redis.Client
	if cfg.Notification.RedisURL != "" {
		rdb = connectRedis(cfg.Notification.RedisURL)
		if rdb != nil {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	var hubLogger logger.ILogger = logger.NewNopLogger()
	if cfg.App.HubLogFilePath != "" {
		hubLogger = logger.NewIsolatedLogger(cfg.App.HubLogFilePath)
	}
	c.WebSocketHub = websocket.NewHub(rdb, hubLogger)

	var auditLogger logger.ILogger = sysLogger
	if cfg.App.AuditLogFilePath != "" {
		auditLogger = logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	}

	// Repositories
	userRepo := memory.NewUserRepository(ids)
	sessionRepo := memory.NewSessionRepository(cfg.Session.TTL)

	// Services
	notificationService := service.NewNotificationService(cfg.Notification.TTL, c.WebSocketHub, c.Metrics, sysLogger)
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub, mirror, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.Topic, auditLogger)

	userService := service.NewUserService(userRepo, publisherService, notificationService, c.Metrics, sysLogger)
	formService := service.NewFormService(sessionRepo, userService, notificationService, c.Metrics, sysLogger)
	c.DirectoryService = service.NewDirectoryService(
		directory.NewClient(cfg.Directory.URL, cfg.Directory.Timeout),
		userService,
		notificationService,
		cfg.Directory.Timeout,
		cfg.Directory.DefaultDepartment,
		c.Metrics,
		sysLogger,
	)
	if !cfg.Directory.Enabled {
		c.DirectoryService.Disable()
	}

	// Controllers
	c.UserController = controller.NewUserController(userService)
	c.FormController = controller.NewFormController(formService)
	c.DirectoryController = controller.NewDirectoryController(c.DirectoryService)
	c.NotificationHandler = handler.NewNotificationHandler(notificationService, c.WebSocketHub, sysLogger)

	return c, nil
}

func connectRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, notifications stay local: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// Close releases external connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
