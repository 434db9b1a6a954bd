package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Events    EventsConfig    `mapstructure:"events"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Chat      ChatConfig      `mapstructure:"chat"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// CatalogConfig points at the static products resource
type CatalogConfig struct {
	Source  string `mapstructure:"source"`  // File path or http(s) URL
	Timeout int    `mapstructure:"timeout"` // seconds, URL sources only
}

// StorageConfig selects where selections are persisted
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // redis or memory
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// EventsConfig controls the Redis Streams event feed
type EventsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	Workers       int    `mapstructure:"workers"`       // Consumers per stream, 0 disables consuming
	MinIdleTime   int    `mapstructure:"min_idle_time"` // seconds before a pending event is reclaimed
}

func (e EventsConfig) MinIdleDuration() time.Duration {
	return time.Duration(e.MinIdleTime) * time.Second
}

// DatabaseConfig holds the routine archive connection
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// AssistantConfig holds the remote completion endpoint settings
type AssistantConfig struct {
	URL                  string `mapstructure:"url"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
}

// ChatConfig holds chat session and presentation timing
type ChatConfig struct {
	SessionTTL int `mapstructure:"session_ttl"` // seconds
	CharDelay  int `mapstructure:"char_delay"`  // milliseconds per revealed character
	DotDelay   int `mapstructure:"dot_delay"`   // milliseconds per typing-dots step
	DotSteps   int `mapstructure:"dot_steps"`
}

func (c ChatConfig) SessionTTLDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}

func (c ChatConfig) CharDelayDuration() time.Duration {
	return time.Duration(c.CharDelay) * time.Millisecond
}

func (c ChatConfig) DotDelayDuration() time.Duration {
	return time.Duration(c.DotDelay) * time.Millisecond
}

// Load loads configuration from config.yaml in the working directory
// with .env and environment variable overrides
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	return load(v)
}

// LoadFile loads configuration from an explicit YAML file
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Warn("config.yaml not found, using defaults and environment")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("catalog.source", "products.json")
	v.SetDefault("catalog.timeout", 30)

	v.SetDefault("storage.driver", "redis")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.consumer_group", "routine_consumer")
	v.SetDefault("events.workers", 1)
	v.SetDefault("events.min_idle_time", 30)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "routine")
	v.SetDefault("database.user", "routine_user")
	v.SetDefault("database.password", "routine_pass")

	v.SetDefault("assistant.url", "https://aot-worker.elieboss192.workers.dev/")
	v.SetDefault("assistant.max_requests_per_second", 5)

	v.SetDefault("chat.session_ttl", 1800)
	v.SetDefault("chat.char_delay", 15)
	v.SetDefault("chat.dot_delay", 100)
	v.SetDefault("chat.dot_steps", 20)
}

// ConfigureLogging applies the log section to the global logrus logger
func ConfigureLogging(cfg LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unsupported log format %q", cfg.Format)
	}
	return nil
}
