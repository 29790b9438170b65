package bootstrap

import (
	"context"
	"log"
	"time"

	"meal-subscription-be/internal/config"
	"meal-subscription-be/internal/controller"
	"meal-subscription-be/internal/pkg/logger"
	"meal-subscription-be/internal/pkg/mailer"
	"meal-subscription-be/internal/repository/memory"
	"meal-subscription-be/internal/repository/unitofwork"
	"meal-subscription-be/internal/service"
	"meal-subscription-be/pkg/lock"
	"meal-subscription-be/pkg/payment"

	pktNats "meal-subscription-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PlanController         controller.IPlanController
	SubscriptionController controller.ISubscriptionController
	OrderController        controller.IOrderController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	c := &Container{}

	// 2. Receipt queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var eventBus service.EventBus
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventBus = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// Redis
	locker := newLocker(cfg.App.RedisURL)

	gateway := payment.NewRazorpayGateway(cfg.Payment.RazorpayKeyId, cfg.Payment.RazorpayKeySecret)
	quoteRepo := memory.NewQuoteRepository(cfg.Payment.QuoteTTL)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Queue.ReceiptTopic, pubSub)
	c.ConsumerService = service.NewReceiptConsumerService(
		pubSub,
		cfg.Queue.ReceiptTopic,
		uowFactory,
		emailService,
		sysLogger,
	)

	lifecyclePublisher := service.NewLifecyclePublisher(eventBus, sysLogger)

	subscriptionService := service.NewSubscriptionService(
		uowFactory,
		gateway,
		service.PaymentSettings{
			KeySecret: cfg.Payment.RazorpayKeySecret,
			Currency:  cfg.Payment.Currency,
		},
		locker,
		quoteRepo,
		lifecyclePublisher,
		publisherService,
		sysLogger,
	)
	planService := service.NewPlanService(uowFactory)
	orderService := service.NewOrderService(uowFactory)

	// 5. Controllers
	c.PlanController = controller.NewPlanController(planService)
	c.SubscriptionController = controller.NewSubscriptionController(subscriptionService)
	c.OrderController = controller.NewOrderController(orderService)
	c.closers = append(c.closers, func() { _ = sysLogger.Sync() })

	return c
}

// newLocker prefers Redis so several instances share payment locks, and
// falls back to an in-process locker when Redis is unreachable.
func newLocker(redisURL string) lock.Locker {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: redisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Payment locks are process-local", err)
		_ = rdb.Close()
		return lock.NewLocalLocker()
	}
	return lock.NewRedisLocker(rdb, "payment-lock:")
}

// Close releases the broker connections opened by NewContainer.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
