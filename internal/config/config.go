package config

import (
	"os"
	"strconv"
	"time"

	"ovation/internal/cache"
	"ovation/internal/database"
	"ovation/internal/messaging"
	"ovation/internal/search"
)

// Config holds the application configuration
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// Maximum time a subscriber's request is held open waiting for its
	// availability threshold before the wait is abandoned.
	SubscribeWaitTimeout time.Duration

	// Worker pool serving post-commit availability sweeps.
	SweepWorkers   int
	SweepQueueSize int

	Database      database.Config
	NATS          messaging.Config
	Cache         cache.Config
	Elasticsearch search.Config
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SubscribeWaitTimeout: time.Duration(getEnvInt("SUBSCRIBE_WAIT_TIMEOUT_SEC", 600)) * time.Second,
		SweepWorkers:         getEnvInt("SWEEP_WORKERS", 5),
		SweepQueueSize:       getEnvInt("SWEEP_QUEUE_SIZE", 256),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "ovation"),
			Password:           getEnv("DB_PASSWORD", "ovation"),
			DBName:             getEnv("DB_NAME", "ovation"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "ovation"),
			ClientID:  getEnv("NATS_CLIENT_ID", "ovation-api"),
		},

		Cache: cache.Config{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			TokenTTL: time.Duration(getEnvInt("REDIS_TOKEN_TTL_MIN", 30)) * time.Minute,
		},

		Elasticsearch: search.Config{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "concerts"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},
	}
}

// getEnv returns the value of an environment variable or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
