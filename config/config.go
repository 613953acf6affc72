package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	Scheduler SchedulerDefaultsConfig
	Processor ProcessorConfig
	Provider  ProviderConfig
	DebugMode bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"SERVER_HOST"`
	Port         int           `mapstructure:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"SERVER_IDLE_TIMEOUT"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI              string `mapstructure:"MONGO_URI"`
	Database         string `mapstructure:"MONGO_DATABASE"`
	DirectionTTLSecs int32  `mapstructure:"MONGO_DIRECTION_TTL_SECONDS"`
}

// SchedulerDefaultsConfig holds the request-overridable grace/unloading
// windows (§4.2) used when a ScheduleRequest doesn't specify its own.
type SchedulerDefaultsConfig struct {
	BeforePickupSec     int `mapstructure:"SCHEDULER_BEFORE_PICKUP_SECONDS"`
	AfterPickupSec      int `mapstructure:"SCHEDULER_AFTER_PICKUP_SECONDS"`
	DropoffUnloadingSec int `mapstructure:"SCHEDULER_DROPOFF_UNLOADING_SECONDS"`
}

// ProcessorConfig holds the C9 background executor's polling settings.
type ProcessorConfig struct {
	Interval  time.Duration `mapstructure:"PROCESSOR_INTERVAL"`
	BatchSize int           `mapstructure:"PROCESSOR_BATCH_SIZE"`
}

// ProviderConfig holds the C1 routing provider's credentials.
type ProviderConfig struct {
	GoogleMapsAPIKey string `mapstructure:"GOOGLE_MAPS_API_KEY"`
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// ── Defaults ────────────────────────────────────────
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "scheduler")
	viper.SetDefault("MONGO_DIRECTION_TTL_SECONDS", 24*60*60)

	viper.SetDefault("SCHEDULER_BEFORE_PICKUP_SECONDS", 300)
	viper.SetDefault("SCHEDULER_AFTER_PICKUP_SECONDS", 300)
	viper.SetDefault("SCHEDULER_DROPOFF_UNLOADING_SECONDS", 120)

	viper.SetDefault("PROCESSOR_INTERVAL", "5s")
	viper.SetDefault("PROCESSOR_BATCH_SIZE", 10)

	viper.SetDefault("GOOGLE_MAPS_API_KEY", "")

	viper.SetDefault("DEBUG_MODE", false)

	// Try to read .env file. If it doesn't exist (e.g., inside Docker),
	// env vars injected by docker-compose env_file are used instead.
	_ = viper.ReadInConfig()

	cfg := &Config{}

	// ── Server ──────────────────────────────────────────
	cfg.Server = ServerConfig{
		Host:         viper.GetString("SERVER_HOST"),
		Port:         viper.GetInt("SERVER_PORT"),
		ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  viper.GetDuration("SERVER_IDLE_TIMEOUT"),
	}

	// ── Mongo ───────────────────────────────────────────
	cfg.Mongo = MongoConfig{
		URI:              viper.GetString("MONGO_URI"),
		Database:         viper.GetString("MONGO_DATABASE"),
		DirectionTTLSecs: viper.GetInt32("MONGO_DIRECTION_TTL_SECONDS"),
	}

	// ── Scheduler defaults ──────────────────────────────
	cfg.Scheduler = SchedulerDefaultsConfig{
		BeforePickupSec:     viper.GetInt("SCHEDULER_BEFORE_PICKUP_SECONDS"),
		AfterPickupSec:      viper.GetInt("SCHEDULER_AFTER_PICKUP_SECONDS"),
		DropoffUnloadingSec: viper.GetInt("SCHEDULER_DROPOFF_UNLOADING_SECONDS"),
	}

	// ── Processor (C9) ──────────────────────────────────
	cfg.Processor = ProcessorConfig{
		Interval:  viper.GetDuration("PROCESSOR_INTERVAL"),
		BatchSize: viper.GetInt("PROCESSOR_BATCH_SIZE"),
	}

	// ── Routing provider (C1) ───────────────────────────
	cfg.Provider = ProviderConfig{
		GoogleMapsAPIKey: viper.GetString("GOOGLE_MAPS_API_KEY"),
	}

	cfg.DebugMode = viper.GetBool("DEBUG_MODE")

	return cfg, nil
}
