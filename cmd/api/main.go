package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vpnshop/internal/auth"
	"vpnshop/internal/catalog"
	"vpnshop/internal/client"
	"vpnshop/internal/config"
	"vpnshop/internal/events"
	"vpnshop/internal/logger"
	"vpnshop/internal/repository"
	"vpnshop/internal/server"
	"vpnshop/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.CloseDB(db); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return err
	}

	var revocations auth.Revocations = auth.NoRevocations{}
	if cfg.Redis.URL != "" {
		rdb, err := client.InitRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)
		revocations = auth.NewRedisRevocations(rdb)
	} else {
		log.Info("REDIS_URL not set, logout will not revoke issued tokens")
	}

	var publisher events.Publisher = events.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := client.InitKafkaProducer(cfg.Kafka.Brokers)
		if err != nil {
			return err
		}
		defer closeProducer(producer, log)
		publisher = events.NewKafkaPublisher(producer, cfg.Kafka.Topic, log)
	}

	if !cfg.Lava.IsConfigured() {
		log.Warn("LAVA_MERCHANT_ID or LAVA_SECRET_KEY is not set, payments will be unavailable")
	}
	if cfg.AllowSimulatedOrders && cfg.Environment.IsProduction() {
		log.Warn("simulated orders are enabled in production")
	}

	lavaClient := client.NewLavaClient(&cfg.Lava)

	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	cartService := service.NewCartService(userRepo, cat, log)
	orderService := service.NewOrderService(db, orderRepo, userRepo, cat, cfg.AllowSimulatedOrders, log)
	paymentService := service.NewPaymentService(
		lavaClient, cfg.Lava, cfg.BaseURL,
		cat,
		userRepo,
		webhookEventRepo,
		orderService,
		cartService,
		publisher,
		log,
	)
	subscriptionService := service.NewSubscriptionService(
		subscriptionRepo, orderRepo, cat, cfg.Provision, cfg.AllowSimulatedOrders, publisher, log,
	)

	srv := server.NewServer(server.Deps{
		Config:              cfg,
		Logger:              log,
		Catalog:             cat,
		UserRepo:            userRepo,
		Revocations:         revocations,
		UserService:         service.NewUserService(userRepo, cfg.JWT, revocations, log),
		CartService:         cartService,
		OrderService:        orderService,
		PaymentService:      paymentService,
		SubscriptionService: subscriptionService,
		AdminService:        service.NewAdminService(userRepo, orderService, log),
	})

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		log.Info("signal received, starting graceful shutdown", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func closeRedis(rdb *redis.Client, log *zap.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn("close redis", zap.Error(err))
	}
}

func closeProducer(producer sarama.SyncProducer, log *zap.Logger) {
	if err := producer.Close(); err != nil {
		log.Warn("close kafka producer", zap.Error(err))
	}
}
