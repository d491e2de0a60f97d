package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers for the cart record repository
const (
	StorageBolt     = "bolt"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server    ServerConfig
	Shop      ShopConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cart      CartConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// ShopConfig points at the remote catalog/checkout API
type ShopConfig struct {
	BaseURL     string
	Timeout     time.Duration
	CatalogFile string // static catalog; overrides BaseURL for product loading
}

type StorageConfig struct {
	Driver   string
	BoltPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled   bool // connect even when carts live elsewhere, for rate limiting
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
}

type CartConfig struct {
	Key string
}

type RateLimitConfig struct {
	CheckoutRequests int
	CheckoutWindow   time.Duration
}

// IsDevelopment reports whether the server runs in development mode
func (c ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr returns host:port for the redis client
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("SHOP_API_URL", "https://deisishop.pythonanywhere.com")
	v.SetDefault("SHOP_API_TIMEOUT_SECONDS", 30)
	v.SetDefault("CATALOG_FILE", "")
	v.SetDefault("STORAGE_DRIVER", StorageBolt)
	v.SetDefault("BOLT_PATH", "storefront.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "storefront")
	v.SetDefault("CART_KEY", "carrinho")
	v.SetDefault("CHECKOUT_RATE_LIMIT", 5)
	v.SetDefault("CHECKOUT_RATE_WINDOW_SECONDS", 60)
}

// Load reads configuration from .env in the working directory and the
// environment, environment taking precedence
func Load() *Config {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	setDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Shop: ShopConfig{
			BaseURL:     strings.TrimRight(v.GetString("SHOP_API_URL"), "/"),
			Timeout:     time.Duration(v.GetInt("SHOP_API_TIMEOUT_SECONDS")) * time.Second,
			CatalogFile: v.GetString("CATALOG_FILE"),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
			BoltPath: v.GetString("BOLT_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Enabled:   v.GetBool("REDIS_ENABLED"),
			Host:      v.GetString("REDIS_HOST"),
			Port:      v.GetString("REDIS_PORT"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
		},
		Cart: CartConfig{
			Key: v.GetString("CART_KEY"),
		},
		RateLimit: RateLimitConfig{
			CheckoutRequests: v.GetInt("CHECKOUT_RATE_LIMIT"),
			CheckoutWindow:   time.Duration(v.GetInt("CHECKOUT_RATE_WINDOW_SECONDS")) * time.Second,
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
