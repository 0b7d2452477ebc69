package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"award-registration/internal/api"
	"award-registration/internal/catalog"
	"award-registration/internal/config"
	"award-registration/internal/kafka"
	"award-registration/internal/logger"
	"award-registration/internal/models"
	"award-registration/internal/page"
	"award-registration/internal/payment/services"
	"award-registration/internal/payment/signature"
	"award-registration/internal/payment/webhook"
	"award-registration/internal/sse"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if cfg.Addr == "" {
		log.Info("REDIS", "REDIS_ADDR not set, intent creation is not rate limited")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DialTimeout: cfg.DialTimeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// The limiter fails open, so a missing Redis only costs protection.
		log.Warn("REDIS", fmt.Sprintf("Redis at %s not reachable yet: %v", cfg.Addr, err))
	} else {
		log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Addr))
	}
	return rdb
}

func buildSinks(cfg *config.Config, emitter *sse.ConfirmationEmitter, log *logger.Logger) (webhook.MultiSink, *kafka.Producer) {
	sinks := webhook.MultiSink{
		webhook.LogSink{Log: log},
		webhook.EmitterSink{Emitter: emitter},
	}
	if !cfg.Kafka.Enabled {
		return sinks, nil
	}

	topic := cfg.Kafka.Topics.PaymentConfirmed
	if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{topic}, log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}
	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	log.Info("KAFKA", fmt.Sprintf("Publishing confirmations to %s", topic))
	return append(sinks, webhook.KafkaSink{Publisher: producer, Topic: topic}), producer
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("[CONFIG] .env file not found, using environment variables")
	}

	cfg := config.Load()

	log, err := logger.New(logger.Options{
		Dir:      cfg.Log.Dir,
		Prefix:   "registration",
		MinLevel: logger.ParseLevel(cfg.Log.Level),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("APP", fmt.Sprintf("Starting registration service for %s", cfg.Event.Name))

	cat, err := catalog.Load(cfg.Event.CatalogPath)
	if err != nil {
		log.Fatal("CONFIG", fmt.Sprintf("Failed to load catalog: %v", err))
	}
	log.Info("CONFIG", fmt.Sprintf("Catalog loaded with %d tiers, price check mode: %s", len(cat.Tiers()), cfg.Pricing.Mode))

	if !cfg.Stripe.Ready() {
		log.Warn("CONFIG", "STRIPE_SECRET_KEY not set, payment requests will fail")
	}
	if !cfg.Stripe.WebhookReady() {
		log.Warn("CONFIG", "STRIPE_WEBHOOK_SECRET not set, callbacks will be refused")
	}

	ctx := context.Background()
	rdb := connectRedis(ctx, cfg.Redis, log)

	emitter := sse.NewConfirmationEmitter()
	sinks, producer := buildSinks(cfg, emitter, log)

	processor := services.NewStripeService(cfg.Stripe, log)
	intents := services.NewIntentService(processor, cat, cfg, log)
	callbacks := webhook.NewHandler(cfg.Stripe, signature.NewVerifier(cfg.Stripe.SignatureTolerance), sinks, log)

	renderer, err := page.NewRenderer(cat, cfg.Event.Name, cfg.Stripe.PublishableKey)
	if err != nil {
		log.Fatal("APP", fmt.Sprintf("Failed to build page: %v", err))
	}

	handler := &api.Handler{
		Intents:   intents,
		Callbacks: callbacks,
		Emitter:   emitter,
		Offerings: models.OfferingsResponse{
			Event:          cfg.Event.Name,
			Currency:       cfg.Stripe.Currency,
			PublishableKey: cfg.Stripe.PublishableKey,
			Tiers:          cat.Tiers(),
			Individual:     cat.Individual(),
		},
		Page:   renderer,
		Logger: log,
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      api.NewRouter(handler, rdb, cfg.Redis),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Registration service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("REDIS", fmt.Sprintf("Failed to close Redis client: %v", err))
		}
	}
	log.Info("APP", "✅ Registration service shutdown complete")
}
