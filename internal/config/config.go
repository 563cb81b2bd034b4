// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Chat      ChatConfig
	Ollama    OllamaConfig
	Storage   StorageConfig
	Analytics AnalyticsConfig
	Session   SessionConfig
	Logging   LoggingConfig
	Store     StoreProfile
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
	SiteURL     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains bearer token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	RateLimitBurst     int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// ChatConfig contains the chat widget configuration
type ChatConfig struct {
	Enabled        bool
	Provider       string
	ProxyURL       string
	WhatsAppNumber string
	ClientTimeout  time.Duration
}

// OllamaConfig contains the model-serving endpoint configuration
type OllamaConfig struct {
	URL          string
	Model        string
	BackupModels []string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
}

// StorageConfig selects the key/value backend used for cart snapshots
type StorageConfig struct {
	Driver             string
	TTL                time.Duration
	PersistenceEnabled bool
}

// AnalyticsConfig selects where tracked events are recorded
type AnalyticsConfig struct {
	Driver string
}

// SessionConfig contains per-browser-session state configuration
type SessionConfig struct {
	CookieName  string
	IdleTimeout time.Duration
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Storage and analytics drivers
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Chat providers
const (
	ProviderOllama = "ollama"
	ProviderStatic = "static"
)

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Toko Online Nuxt"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			SiteURL:     getEnv("SITE_URL", "http://localhost:3000"),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 45*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront_db"),
			User:         getEnv("DB_USER", "storefront_user"),
			Password:     getEnv("DB_PASSWORD", "storefront_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-in-production"),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Chat: ChatConfig{
			Enabled:        getEnv("CHAT_ENABLED", "true") != "false",
			Provider:       getEnv("CHAT_PROVIDER", ProviderOllama),
			ProxyURL:       getEnv("CHAT_PROXY_URL", ""),
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "0812-3456-7890"),
			ClientTimeout:  getEnvAsDuration("CHAT_CLIENT_TIMEOUT", 30*time.Second),
		},
		Ollama: OllamaConfig{
			URL:          getEnv("OLLAMA_URL", "http://localhost:11434"),
			Model:        getEnv("OLLAMA_MODEL", "llama3.2:1b"),
			BackupModels: getEnvAsSlice("OLLAMA_BACKUP_MODELS", []string{"llama3.2:3b", "llama3:8b", "llama2:7b", "codellama:7b"}),
			MaxTokens:    getEnvAsInt("AI_MAX_TOKENS", 350),
			Temperature:  getEnvAsFloat("AI_TEMPERATURE", 0.7),
			Timeout:      getEnvAsDuration("OLLAMA_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Driver:             getEnv("STORAGE_DRIVER", DriverMemory),
			TTL:                getEnvAsDuration("STORAGE_TTL", 24*time.Hour),
			PersistenceEnabled: getEnvAsBool("CART_PERSISTENCE_ENABLED", true),
		},
		Analytics: AnalyticsConfig{
			Driver: getEnv("ANALYTICS_DRIVER", DriverMemory),
		},
		Session: SessionConfig{
			CookieName:  getEnv("SESSION_COOKIE_NAME", "session_id"),
			IdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	profile, err := LoadStoreProfile(getEnv("STORE_PROFILE_FILE", ""), config.Chat.WhatsAppNumber)
	if err != nil {
		return nil, err
	}
	config.Store = profile

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	switch c.Storage.Driver {
	case DriverMemory, DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Analytics.Driver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("unsupported ANALYTICS_DRIVER %q", c.Analytics.Driver)
	}

	switch c.Chat.Provider {
	case ProviderOllama, ProviderStatic:
	default:
		return fmt.Errorf("unsupported CHAT_PROVIDER %q", c.Chat.Provider)
	}

	if c.Chat.Provider == ProviderOllama && c.Ollama.URL == "" {
		return fmt.Errorf("OLLAMA_URL is required for the ollama provider")
	}

	if c.UsesRedis() && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.UsesPostgres() && c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST or DATABASE_URL is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesRedis reports whether any component needs a Redis connection
func (c *Config) UsesRedis() bool {
	return c.Storage.Driver == DriverRedis
}

// UsesPostgres reports whether any component needs a database connection
func (c *Config) UsesPostgres() bool {
	return c.Storage.Driver == DriverPostgres || c.Analytics.Driver == DriverPostgres
}

// AIEnabled reports whether chat replies come from the model endpoint
func (c *Config) AIEnabled() bool {
	return c.Chat.Provider != ProviderStatic
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}
