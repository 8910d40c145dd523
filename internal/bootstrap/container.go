package bootstrap

import (
	"context"
	"log"

	"finverse-be/internal/config"
	"finverse-be/internal/controller"
	"finverse-be/internal/handler"
	"finverse-be/internal/pkg/logger"
	"finverse-be/internal/repository/memory"
	"finverse-be/internal/service"
	"finverse-be/internal/websocket"
	assistantrest "finverse-be/pkg/assistant/rest"
	catalogrest "finverse-be/pkg/catalog/rest"
	"finverse-be/pkg/chat"
	"finverse-be/pkg/comparison"
	"finverse-be/pkg/events"

	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ChatController       controller.IChatController
	ComparisonController controller.IComparisonController

	// Background Services (Exposed for main.go to run)
	NotificationService service.INotificationService

	// WebSockets & Notification
	NotificationHandler handler.INotificationHandler
	WebSocketHub        *websocket.Hub

	// Event Bus (Exposed for shutdown)
	Bus *events.Bus
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	bus := events.NewBus()

	// 3. Capability Clients
	assistantClient := assistantrest.NewClient(
		cfg.Capability.ChatbotBaseURL,
		cfg.Capability.APIKey,
		cfg.Capability.AssistantTimeout,
	)
	catalogClient := catalogrest.NewClient(
		cfg.Capability.CatalogBaseURL,
		cfg.Capability.APIKey,
		cfg.Capability.CatalogTimeout,
	)

	// Redis is optional; the hub degrades to single-instance fan-out
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Domain Components
	sessionRepo := memory.NewSessionRepository()
	set := comparison.NewStore(cfg.Comparison.MaxProducts, bus)
	aggregator := comparison.NewAggregator(catalogClient, sysLogger)
	router := chat.NewRouter(assistantClient, set, sysLogger)

	// 5. Services
	chatService := service.NewChatService(router, sessionRepo, bus, sysLogger)
	comparisonService := service.NewComparisonService(set, aggregator, assistantClient, bus, sysLogger)
	notificationService := service.NewNotificationService(bus, wsHub, wsLogger)

	// 6. Handlers & Controllers
	return &Container{
		ChatController:       controller.NewChatController(chatService),
		ComparisonController: controller.NewComparisonController(comparisonService),
		NotificationService:  notificationService,
		NotificationHandler:  handler.NewNotificationHandler(wsHub),
		WebSocketHub:         wsHub,
		Bus:                  bus,
	}
}
