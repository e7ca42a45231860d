package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Business timezone: IANA name or fixed offset such as "+05:30".
	BusinessTimezone string `mapstructure:"BUSINESS_TIMEZONE"`

	// Storage: "mongo", "postgres" or "sqlite".
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`
	PostgresDSN   string `mapstructure:"POSTGRES_DSN"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`

	RepositoryTimeout time.Duration `mapstructure:"REPOSITORY_TIMEOUT"`

	// Redis configuration.
	RedisEnabled     bool          `mapstructure:"REDIS_ENABLED"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int           `mapstructure:"REDIS_CACHE_DB"`
	RedisTaskDB      int           `mapstructure:"REDIS_TASK_DB"`
	SnapshotCacheTTL time.Duration `mapstructure:"SNAPSHOT_CACHE_TTL"`
	WarmupWeeks      int           `mapstructure:"WARMUP_WEEKS"`

	// Kafka change events. Empty brokers disables publishing.
	KafkaBrokers    string `mapstructure:"KAFKA_BROKERS"`
	KafkaSlotsTopic string `mapstructure:"KAFKA_SLOTS_TOPIC"`

	// Tracing.
	OtelEnabled       bool    `mapstructure:"OTEL_ENABLED"`
	OtelEndpoint      string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelSamplingRatio float64 `mapstructure:"OTEL_SAMPLING_RATIO"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("BUSINESS_TIMEZONE", "UTC")
	viper.SetDefault("STORAGE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "studiobook")
	viper.SetDefault("POSTGRES_DSN", "")
	viper.SetDefault("SQLITE_PATH", "studiobook.db")
	viper.SetDefault("REPOSITORY_TIMEOUT", "3s")
	viper.SetDefault("REDIS_ENABLED", true)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_TASK_DB", 1)
	viper.SetDefault("SNAPSHOT_CACHE_TTL", "24h")
	viper.SetDefault("WARMUP_WEEKS", 4)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_SLOTS_TOPIC", "slots.changed")
	viper.SetDefault("OTEL_ENABLED", false)
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	viper.SetDefault("OTEL_SAMPLING_RATIO", 1.0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
