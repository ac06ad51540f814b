package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration loaded from config.yaml.
type Config struct {
	Database DatabaseConfig `yaml:"database" validate:"required"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq" validate:"required"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt" validate:"required"`
	Tracking TrackingConfig `yaml:"tracking"`
	Services ServicesConfig `yaml:"services"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,gt=0,lte=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Name     string `yaml:"database" validate:"required"`
}

// RabbitMQConfig holds AMQP connection parameters.
type RabbitMQConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,gt=0,lte=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
}

// RedisConfig holds the optional Redis address used for cross-instance
// fanout of live run updates. An empty address disables the fanout.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds token signing parameters.
type JWTConfig struct {
	SecretKey string `yaml:"secret_key" validate:"required,min=16"`
	TTLHours  int    `yaml:"ttl_hours"`
}

// TrackingConfig tunes the run-tracking engine.
type TrackingConfig struct {
	// AverageSpeedKmh is the traffic-agnostic speed assumption used for ETA
	// estimates. Fixed placeholder; there is no traffic model.
	AverageSpeedKmh float64 `yaml:"average_speed_kmh" validate:"gte=0"`
	// GeofenceTimeout bounds the geofence directory query per update.
	GeofenceTimeout time.Duration `yaml:"geofence_timeout"`
	// PublishTimeout bounds each event-bus publish.
	PublishTimeout time.Duration `yaml:"publish_timeout"`
	// NotifyBuffer is the per-subscriber outbound queue size.
	NotifyBuffer int `yaml:"notify_buffer" validate:"gte=0"`
}

// ServicesConfig holds service-level settings.
type ServicesConfig struct {
	TrackingServicePort int `yaml:"tracking_service_port" validate:"gt=0,lte=65535"`
}

// Defaults applied after unmarshal for fields left unset.
const (
	DefaultAverageSpeedKmh = 30.0
	DefaultGeofenceTimeout = 2 * time.Second
	DefaultPublishTimeout  = 5 * time.Second
	DefaultNotifyBuffer    = 64
	DefaultServicePort     = 3002
	DefaultJWTTTLHours     = 2
)

// LoadFromFile reads, parses, and validates the YAML configuration at path.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Tracking.AverageSpeedKmh == 0 {
		cfg.Tracking.AverageSpeedKmh = DefaultAverageSpeedKmh
	}
	if cfg.Tracking.GeofenceTimeout == 0 {
		cfg.Tracking.GeofenceTimeout = DefaultGeofenceTimeout
	}
	if cfg.Tracking.PublishTimeout == 0 {
		cfg.Tracking.PublishTimeout = DefaultPublishTimeout
	}
	if cfg.Tracking.NotifyBuffer == 0 {
		cfg.Tracking.NotifyBuffer = DefaultNotifyBuffer
	}
	if cfg.Services.TrackingServicePort == 0 {
		cfg.Services.TrackingServicePort = DefaultServicePort
	}
	if cfg.JWT.TTLHours == 0 {
		cfg.JWT.TTLHours = DefaultJWTTTLHours
	}
}
