package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// WorkerConfig configures the standalone outbox worker; environment only,
// no config file.
type WorkerConfig struct {
	MongoURI      string        `envconfig:"MONGO_URI" required:"true"`
	MongoDatabase string        `envconfig:"MONGO_DATABASE" default:"hospital"`
	RedisURL      string        `envconfig:"REDIS_URL" required:"true"`
	Channel       string        `envconfig:"OUTBOX_CHANNEL" default:"events"`
	BatchSize     int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	PollInterval  time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	RetryAttempts int           `envconfig:"OUTBOX_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"OUTBOX_RETRY_DELAY" default:"5s"`
	MetricsPort   int           `envconfig:"METRICS_PORT" default:"9090"`
}

func LoadWorkerConfig() (*WorkerConfig, error) {
	_ = godotenv.Load()

	var config WorkerConfig
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process worker config: %w", err)
	}

	return &config, nil
}
