// Package config handles application configuration loading and validation using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Rewards   RewardsConfig   `mapstructure:"rewards"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Announcer AnnouncerConfig `mapstructure:"announcer"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig contains database connection settings for PostgreSQL and Redis.
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains PostgreSQL database connection and pool settings.
type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// RedisConfig contains Redis connection and pool settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// RewardsConfig tunes the click reward pipeline.
type RewardsConfig struct {
	PremiumMultiplier int `mapstructure:"premium_multiplier"`
	// WorkerQueueSize bounds the async reward evaluation queue.
	WorkerQueueSize int `mapstructure:"worker_queue_size"`
	Workers         int `mapstructure:"workers"`
}

// RateLimitConfig bounds per-user click throughput.
type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	ClicksPerSec  int  `mapstructure:"clicks_per_sec"`
	Burst         int  `mapstructure:"burst"`
	WindowClicks  int  `mapstructure:"window_clicks"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

// Window returns the shared rate-limit window as a duration.
func (c *RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// AnnouncerConfig contains outbound webhook announcement settings.
type AnnouncerConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Username   string `mapstructure:"username"`
	Enabled    bool   `mapstructure:"enabled"`
}

// SchedulerConfig contains the daily challenge rotation settings.
type SchedulerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	RotationCron   string `mapstructure:"rotation_cron"`
	DailyChallenge int    `mapstructure:"daily_challenges"`
}

// MetricsConfig contains Prometheus exporter settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/click-empire/")
	}

	setDefaults(v)

	// Explicit env bindings for 12-factor deployments.
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.environment", "SERVER_ENVIRONMENT")

	_ = v.BindEnv("database.postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("database.postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("database.postgres.database", "POSTGRES_DB")
	_ = v.BindEnv("database.postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("database.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("database.postgres.ssl_mode", "POSTGRES_SSL_MODE")
	_ = v.BindEnv("database.postgres.max_open_conns", "POSTGRES_MAX_OPEN_CONNS")
	_ = v.BindEnv("database.postgres.max_idle_conns", "POSTGRES_MAX_IDLE_CONNS")
	_ = v.BindEnv("database.postgres.conn_max_lifetime", "POSTGRES_CONN_MAX_LIFETIME")

	_ = v.BindEnv("database.redis.host", "REDIS_HOST")
	_ = v.BindEnv("database.redis.port", "REDIS_PORT")
	_ = v.BindEnv("database.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("database.redis.db", "REDIS_DB")
	_ = v.BindEnv("database.redis.pool_size", "REDIS_POOL_SIZE")

	_ = v.BindEnv("rewards.premium_multiplier", "REWARDS_PREMIUM_MULTIPLIER")
	_ = v.BindEnv("rewards.worker_queue_size", "REWARDS_WORKER_QUEUE_SIZE")
	_ = v.BindEnv("rewards.workers", "REWARDS_WORKERS")

	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.clicks_per_sec", "RATE_LIMIT_CLICKS_PER_SEC")
	_ = v.BindEnv("rate_limit.burst", "RATE_LIMIT_BURST")
	_ = v.BindEnv("rate_limit.window_clicks", "RATE_LIMIT_WINDOW_CLICKS")
	_ = v.BindEnv("rate_limit.window_seconds", "RATE_LIMIT_WINDOW_SECONDS")

	_ = v.BindEnv("announcer.webhook_url", "ANNOUNCER_WEBHOOK_URL")
	_ = v.BindEnv("announcer.username", "ANNOUNCER_USERNAME")
	_ = v.BindEnv("announcer.enabled", "ANNOUNCER_ENABLED")

	_ = v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	_ = v.BindEnv("scheduler.rotation_cron", "SCHEDULER_ROTATION_CRON")
	_ = v.BindEnv("scheduler.daily_challenges", "SCHEDULER_DAILY_CHALLENGES")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("rewards.premium_multiplier", 2)
	v.SetDefault("rewards.worker_queue_size", 4096)
	v.SetDefault("rewards.workers", 4)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.clicks_per_sec", 20)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("rate_limit.window_clicks", 600)
	v.SetDefault("rate_limit.window_seconds", 60)
	v.SetDefault("scheduler.rotation_cron", "0 0 * * *")
	v.SetDefault("scheduler.daily_challenges", 3)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if c.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if c.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if c.Database.Redis.Host == "" {
		return fmt.Errorf("database.redis.host is required")
	}
	if c.Rewards.PremiumMultiplier < 1 {
		return fmt.Errorf("rewards.premium_multiplier must be at least 1")
	}
	if c.Announcer.Enabled && c.Announcer.WebhookURL == "" {
		return fmt.Errorf("announcer.webhook_url is required when announcer is enabled")
	}
	return nil
}
