package bootstrap

import (
	"context"
	"log"

	"cooksession-be/internal/config"
	"cooksession-be/internal/controller"
	"cooksession-be/internal/handler"
	"cooksession-be/internal/pkg/logger"
	"cooksession-be/internal/repository/unitofwork"
	"cooksession-be/internal/service"
	"cooksession-be/internal/websocket"
	"cooksession-be/pkg/cooking/adjust"
	"cooksession-be/pkg/cooking/autostep"
	"cooksession-be/pkg/idempotency"
	"cooksession-be/pkg/llm/factory"

	pktNats "cooksession-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController    controller.ISessionController
	AdjustmentController controller.IAdjustmentController
	PantryController     controller.IPantryController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Generative capability for adjustment previews. The engine degrades to
	// its rule table when this is down, so a failed init only loses quality.
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.BaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM provider, adjustments fall back to rules: %v", err)
	} else {
		log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Engines
	autoStepEngine := autostep.NewEngine(autostep.DefaultConfig())

	var generator adjust.Generator
	if llmProvider != nil {
		generator = adjust.NewLLMGenerator(llmProvider)
	}
	adjustEngine := adjust.NewEngine(generator, cfg.Ai.Timeout, sysLogger)

	idempotencyGuard := idempotency.NewGuard(cfg.Engine.IdempotencyTTL)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.SessionTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.SessionTopic, wsHub, wsLogger)

	// One locker for every session-writing service; splitting it would let
	// a patch and an adjustment on the same session interleave.
	sessionLocker := service.NewSessionLocker()

	sessionService := service.NewSessionService(uowFactory, autoStepEngine, publisherService, natsPub, sessionLocker, sysLogger)
	adjustmentService := service.NewAdjustmentService(uowFactory, adjustEngine, publisherService, sessionLocker, sysLogger)
	pantryService := service.NewPantryService(uowFactory, sessionLocker, sysLogger)

	// 5. Controllers
	return &Container{
		SessionController:    controller.NewSessionController(sessionService, idempotencyGuard),
		AdjustmentController: controller.NewAdjustmentController(adjustmentService, idempotencyGuard),
		PantryController:     controller.NewPantryController(pantryService, idempotencyGuard),

		ConsumerService: consumerService,

		StreamHandler: handler.NewStreamHandler(sessionService, wsHub, wsLogger),
		WebSocketHub:  wsHub,
	}
}
