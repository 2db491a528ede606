package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig `yaml:"server" toml:"server"`
	Zipkin  ZipkinConfig `yaml:"zipkin" toml:"zipkin"`
	Logging LogConfig    `yaml:"logging" toml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" yaml:"port" toml:"port"`
	Host string `envconfig:"HOST" yaml:"host" toml:"host"`
}

// ZipkinConfig holds span recording and delivery configuration.
type ZipkinConfig struct {
	ServiceName string `envconfig:"ZIPKIN_SERVICE_NAME" yaml:"service_name" toml:"service_name"`
	// LoggerName names the logger spans are written to when no collector
	// URL is configured.
	LoggerName       string   `envconfig:"ZIPKIN_LOGGER_NAME" yaml:"logger_name" toml:"logger_name"`
	CollectorURL     string   `envconfig:"ZIPKIN_COLLECTOR_URL" yaml:"collector_url" toml:"collector_url"`
	CollectorTimeout Duration `envconfig:"ZIPKIN_COLLECTOR_TIMEOUT" yaml:"collector_timeout" toml:"collector_timeout"`
	QueueSize        int      `envconfig:"ZIPKIN_QUEUE_SIZE" yaml:"queue_size" toml:"queue_size"`
	// SendRPS caps collector requests per second. Zero means unlimited.
	SendRPS float64 `envconfig:"ZIPKIN_SEND_RPS" yaml:"send_rps" toml:"send_rps"`
	Gzip    bool    `envconfig:"ZIPKIN_GZIP" yaml:"gzip" toml:"gzip"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// Duration is a time.Duration written as a string such as "5s" in
// files and environment variables.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load loads configuration from environment variables over the defaults.
func Load() (*Config, error) {
	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from a YAML (.yaml, .yml) or TOML (.toml)
// file, then applies environment variables on top.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overwrites only the fields whose variables are set; defaults
// live in Default so file values survive.
func applyEnv(cfg *Config) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Zipkin: ZipkinConfig{
			LoggerName:       "zipkin",
			CollectorTimeout: Duration(5 * time.Second),
			QueueSize:        1000,
			Gzip:             true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate reports configuration that cannot be served.
func (c *Config) Validate() error {
	if c.Zipkin.QueueSize <= 0 {
		return fmt.Errorf("zipkin queue size must be positive, got %d", c.Zipkin.QueueSize)
	}
	if c.Zipkin.SendRPS < 0 {
		return fmt.Errorf("zipkin send rate must not be negative, got %v", c.Zipkin.SendRPS)
	}
	if c.Zipkin.CollectorURL == "" && c.Zipkin.LoggerName == "" {
		return fmt.Errorf("either a collector URL or a logger name is required")
	}
	return nil
}
