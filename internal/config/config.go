package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Redis   RedisConfig   `mapstructure:"redis"`
	OAuth   OAuthConfig   `mapstructure:"oauth"`
	Storage StorageConfig `mapstructure:"storage"`
	Outbox  OutboxConfig  `mapstructure:"outbox"`
	Admin   AdminConfig   `mapstructure:"admin"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	RateLimit      float64  `mapstructure:"rate_limit"`
	RateBurst      int      `mapstructure:"rate_burst"`
	AllowOrigins   []string `mapstructure:"allow_origins"`
}

type MongoConfig struct {
	URI            string `mapstructure:"uri"`
	Database       string `mapstructure:"database"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	ExpiryHours       int    `mapstructure:"expiry_hours"`
	CallSessionSecret string `mapstructure:"call_session_secret"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type OAuthConfig struct {
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	AuthURL        string `mapstructure:"auth_url"`
	TokenURL       string `mapstructure:"token_url"`
	UserInfoURL    string `mapstructure:"user_info_url"`
	RedirectURL    string `mapstructure:"redirect_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

type OutboxConfig struct {
	Channel             string `mapstructure:"channel"`
	BatchSize           int    `mapstructure:"batch_size"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds"`
	RetryAttempts       int    `mapstructure:"retry_attempts"`
	RetryDelaySeconds   int    `mapstructure:"retry_delay_seconds"`
}

type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

func (c ServerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject environment directly.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}

	return &config, nil
}
