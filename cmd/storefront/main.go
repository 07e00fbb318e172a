package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	c "github.com/ahmedmegahedd/modera-nado/internal/cache"
	"github.com/ahmedmegahedd/modera-nado/internal/events"
	h "github.com/ahmedmegahedd/modera-nado/internal/http"
	"github.com/ahmedmegahedd/modera-nado/internal/identity"
	"github.com/ahmedmegahedd/modera-nado/internal/repository"
	s "github.com/ahmedmegahedd/modera-nado/internal/service"
)

type Config struct {
	HTTPPort          string
	MongoURI          string
	MongoDBName       string
	RedisAddr         string
	RedisPassword     string
	KafkaBrokers      string
	AdminEmail        string
	AdminPassword     string
	StrictTransitions bool
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "storefront"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:      getEnv("KAFKA_BROKERS", ""),
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@localhost"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "change-me"),
		StrictTransitions: getEnv("STRICT_STATUS_TRANSITIONS", "false") == "true",
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	// Set up MongoDB connection
	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	productRepo := repository.NewMongoProductRepository(mongoDB)
	orderRepo := repository.NewMongoOrderRepository(mongoDB)

	// Seed the default administrator (idempotent)
	if err := identity.EnsureDefaultAdmin(ctx, mongoDB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")
	productCache := c.NewRedisCache(redisClient)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing order events to %s", cfg.KafkaBrokers)
	} else {
		log.Printf("KAFKA_BROKERS not set, order events disabled")
	}

	orderService := s.NewOrderService(productRepo, orderRepo, productCache, publisher, cfg.StrictTransitions)
	catalogService := s.NewCatalogService(productRepo, productCache)

	// Background retry of stock adjustments that lost a race at placement
	reconcilerCtx, stopReconciler := context.WithCancel(ctx)
	reconciler := s.NewReconciler(orderRepo, productRepo)
	go reconciler.Run(reconcilerCtx)

	orderHandler := h.NewOrderHandler(orderService, cfg.RequestTimeout)
	productHandler := h.NewProductHandler(catalogService, cfg.RequestTimeout)
	router := h.NewRouter(orderHandler, productHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopReconciler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		log.Printf("failed to disconnect from MongoDB: %v", err)
	}

	log.Println("server exited")
}
