package main

import (
	"context" // context package is needed for Redis operations
	"time"    // CORS preflight cache

	"shop_backend/internal/api"        // Custom package for API handlers
	"shop_backend/internal/auth"       // Token gateway
	"shop_backend/internal/cache"      // Catalog cache
	"shop_backend/internal/config"     // Custom package for configuration
	"shop_backend/internal/db"         // Database connection
	"shop_backend/internal/events"     // Order event hub
	"shop_backend/internal/middleware" // Custom package for middleware
	"shop_backend/internal/service"    // Core services
	"shop_backend/internal/store"      // Entity store

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	gateway, err := auth.NewGateway(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logrus.Fatalf("failed to set up auth: %v", err)
	}

	// Wire services
	st := store.New(gdb, cfg.StoreTimeout)
	hub := events.NewHub()
	carts := service.NewCartManager(st, cfg.UserWriteRetries)
	addresses := service.NewAddressRegistry(st, cfg.UserWriteRetries)
	services := api.Services{
		Store:     st,
		Gateway:   gateway,
		Accounts:  service.NewAccounts(st, gateway, cfg.UserWriteRetries),
		Catalog:   service.NewCatalog(st, cache.New(redisClient, cfg.CacheTTL)),
		Carts:     carts,
		Addresses: addresses,
		Orders:    service.NewOrderEngine(st, addresses, carts, hub, cfg.UserWriteRetries),
		Auditor:   service.NewAuditor(st, cfg.UserWriteRetries),
		Hub:       hub,
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.New()                                     // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestLogger()) // Recover panics, log requests

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// CORS
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	api.RegisterRoutes(r, services)

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {             // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
