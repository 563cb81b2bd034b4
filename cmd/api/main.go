// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nuvella/storefront-api/internal/config"
	"github.com/nuvella/storefront-api/internal/domain/analytics"
	"github.com/nuvella/storefront-api/internal/domain/assistant"
	"github.com/nuvella/storefront-api/internal/domain/chat"
	"github.com/nuvella/storefront-api/internal/domain/session"
	"github.com/nuvella/storefront-api/internal/domain/user"
	"github.com/nuvella/storefront-api/internal/infrastructure/database/postgres"
	"github.com/nuvella/storefront-api/internal/infrastructure/database/redis"
	"github.com/nuvella/storefront-api/internal/infrastructure/storage"
	"github.com/nuvella/storefront-api/internal/interfaces/http"
	"github.com/nuvella/storefront-api/internal/interfaces/http/middleware"
	"github.com/nuvella/storefront-api/internal/interfaces/http/routes"
	"github.com/nuvella/storefront-api/internal/interfaces/http/ws"
	"github.com/nuvella/storefront-api/internal/pkg/auth"
	"github.com/nuvella/storefront-api/internal/pkg/logger"
	"github.com/nuvella/storefront-api/internal/pkg/ollama"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	sweepInterval = 5 * time.Minute
	purgeInterval = time.Hour
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg)

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Connect to database when a component stores data there
	var gormDB *gorm.DB
	if cfg.UsesPostgres() {
		db, err := postgres.NewConnection(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Health(); err != nil {
			log.Fatalf("Database health check failed: %v", err)
		}

		// Run database migrations
		migration := postgres.NewMigration(db.GetDB())

		if err := migration.RunAutoMigrations(); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}

		if err := migration.CreateIndexes(); err != nil {
			log.Printf("Warning: Index creation failed: %v", err)
		}

		if cfg.IsDevelopment() {
			if err := migration.GetTableInfo(); err != nil {
				log.Printf("Warning: Table info failed: %v", err)
			}
		}

		if cfg.Storage.Driver == config.DriverPostgres {
			go purgeStaleEntries(ctx, migration, cfg.Storage.TTL)
		}

		gormDB = db.GetDB()
	}

	// Connect to Redis when cart snapshots live there
	var redisConn *redis.Client
	var redisClient *goredis.Client
	if cfg.UsesRedis() {
		client, err := redis.NewConnection(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()

		if err := client.Health(ctx); err != nil {
			log.Fatalf("Redis health check failed: %v", err)
		}

		redisConn = client
		redisClient = client.GetClient()
	}

	// Key/value store for cart snapshots and profiles
	var kv storage.Store
	switch cfg.Storage.Driver {
	case config.DriverRedis:
		kv = redisConn.Store(cfg.Storage.TTL)
	case config.DriverPostgres:
		kv = storage.NewPostgres(gormDB)
	default:
		kv = storage.NewMemory()
	}

	// Analytics events
	var eventStore analytics.EventStore = analytics.NewMemoryStore()
	if cfg.Analytics.Driver == config.DriverPostgres {
		eventStore = analytics.NewGormStore(gormDB)
	}
	analyticsService := analytics.NewService(eventStore, appLogger)

	// AI proxy, answered in-process unless a remote proxy is configured
	var generator assistant.Generator
	if cfg.AIEnabled() {
		generator = ollama.NewClient(cfg.Ollama.URL, cfg.Ollama.Timeout)
	}
	assistantService := assistant.NewService(cfg, generator, appLogger)

	var responder chat.Responder = assistantService
	if cfg.Chat.ProxyURL != "" {
		responder = assistant.NewClient(cfg.Chat.ProxyURL, cfg.Chat.ClientTimeout)
		log.Printf("🤖 Chat replies proxied through %s", cfg.Chat.ProxyURL)
	}

	// Per-browser sessions and their event stream
	hub := ws.NewHub(middleware.OriginChecker(cfg), appLogger)
	defer hub.Close()

	factory := session.NewFactory(cfg, kv, analyticsService, responder, hub, appLogger)
	registry := session.NewRegistry(factory, cfg.Session.IdleTimeout)
	go registry.Run(ctx, sweepInterval)

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, routes.Dependencies{
		Config:    cfg,
		JWT:       auth.NewJWTManager(cfg),
		Sessions:  registry,
		Assistant: assistantService,
		Users:     user.NewService(kv, appLogger),
		Analytics: analyticsService,
		Hub:       hub,
		Log:       appLogger,
	}, gormDB, redisClient)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")
	stop()

	// Give server 30 seconds to shutdown gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
}

// purgeStaleEntries drops cart snapshots older than ttl until ctx is cancelled
func purgeStaleEntries(ctx context.Context, migration *postgres.Migration, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := migration.PurgeStaleEntries(ttl); err != nil {
				log.Printf("Warning: Purging stale entries failed: %v", err)
			}
		}
	}
}
