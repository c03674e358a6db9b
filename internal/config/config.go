// backend-go/internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Zoho     ZohoConfig
	Cache    CacheConfig
	Reorder  ReorderConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ZohoConfig holds credentials and endpoints for the Zoho Inventory API.
type ZohoConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	OrgID        string
	AccountsURL  string
	APIBaseURL   string
	FetchBatch   int
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	CatalogTTLSeconds int
}

// ReorderConfig exposes the engine tunables. Defaults match the values the
// buyers calibrated for the current supplier base; treat them as a starting
// point for other inventories, not universal constants.
type ReorderConfig struct {
	MinCoverWeeks     float64
	TopupMaxWeeks     float64
	TargetCoverWeeks  float64
	AnomalyMultiplier float64

	DefaultMinimumEUR float64

	QuickStockThreshold int
	QuickVelocity       float64
	QuickRefillTarget   int

	FullModeBudgetSeconds int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 120)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "reorder")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("ZOHO_CLIENT_ID", "")
		viper.SetDefault("ZOHO_CLIENT_SECRET", "")
		viper.SetDefault("ZOHO_REFRESH_TOKEN", "")
		viper.SetDefault("ZOHO_ORG_ID", "")
		viper.SetDefault("ZOHO_ACCOUNTS_URL", "https://accounts.zoho.eu")
		viper.SetDefault("ZOHO_API_BASE_URL", "https://www.zohoapis.eu/inventory/v1")
		viper.SetDefault("ZOHO_FETCH_BATCH", 20)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_CATALOG_TTL_SECONDS", 1800)
		viper.SetDefault("REORDER_MIN_COVER_WEEKS", 5.0)
		viper.SetDefault("REORDER_TOPUP_MAX_WEEKS", 12.0)
		viper.SetDefault("REORDER_TARGET_COVER_WEEKS", 12.0)
		viper.SetDefault("REORDER_ANOMALY_MULTIPLIER", 3.0)
		viper.SetDefault("REORDER_DEFAULT_MINIMUM_EUR", 500.0)
		viper.SetDefault("REORDER_QUICK_STOCK_THRESHOLD", 20)
		viper.SetDefault("REORDER_QUICK_VELOCITY", 4.0)
		viper.SetDefault("REORDER_QUICK_REFILL_TARGET", 50)
		viper.SetDefault("REORDER_FULL_MODE_BUDGET_SECONDS", 90)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Zoho: ZohoConfig{
				ClientID:     viper.GetString("ZOHO_CLIENT_ID"),
				ClientSecret: viper.GetString("ZOHO_CLIENT_SECRET"),
				RefreshToken: viper.GetString("ZOHO_REFRESH_TOKEN"),
				OrgID:        viper.GetString("ZOHO_ORG_ID"),
				AccountsURL:  viper.GetString("ZOHO_ACCOUNTS_URL"),
				APIBaseURL:   viper.GetString("ZOHO_API_BASE_URL"),
				FetchBatch:   viper.GetInt("ZOHO_FETCH_BATCH"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				CatalogTTLSeconds: viper.GetInt("CACHE_CATALOG_TTL_SECONDS"),
			},
			Reorder: ReorderConfig{
				MinCoverWeeks:         viper.GetFloat64("REORDER_MIN_COVER_WEEKS"),
				TopupMaxWeeks:         viper.GetFloat64("REORDER_TOPUP_MAX_WEEKS"),
				TargetCoverWeeks:      viper.GetFloat64("REORDER_TARGET_COVER_WEEKS"),
				AnomalyMultiplier:     viper.GetFloat64("REORDER_ANOMALY_MULTIPLIER"),
				DefaultMinimumEUR:     viper.GetFloat64("REORDER_DEFAULT_MINIMUM_EUR"),
				QuickStockThreshold:   viper.GetInt("REORDER_QUICK_STOCK_THRESHOLD"),
				QuickVelocity:         viper.GetFloat64("REORDER_QUICK_VELOCITY"),
				QuickRefillTarget:     viper.GetInt("REORDER_QUICK_REFILL_TARGET"),
				FullModeBudgetSeconds: viper.GetInt("REORDER_FULL_MODE_BUDGET_SECONDS"),
			},
		}
	})

	return instance
}
