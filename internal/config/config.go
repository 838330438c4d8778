// Package config loads the service configuration from an optional YAML
// file with environment variable overrides, via `env` struct tags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/classifier"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/events"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/ingest"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/scheduler"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/storage"
)

// Default configuration values.
const (
	defaultServiceName = "internship-ingest"
	defaultServicePort = 8085
	defaultMLTimeout   = 5 * time.Second
)

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name  string `yaml:"name"`
	Port  int    `env:"INGEST_PORT" yaml:"port"`
	Debug bool   `env:"APP_DEBUG"   yaml:"debug"`
}

// MLConfig holds the rich-model sidecar configuration. Disabled means the
// classifier runs its rule-based path from the start.
type MLConfig struct {
	Enabled bool          `env:"ML_ENABLED" yaml:"enabled"`
	BaseURL string        `env:"ML_URL"     yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config holds all configuration for the ingestion service.
type Config struct {
	Service       ServiceConfig      `yaml:"service"`
	Ingest        ingest.Config      `yaml:"ingest"`
	Scheduler     scheduler.Config   `yaml:"scheduler"`
	Elasticsearch storage.ESConfig   `yaml:"elasticsearch"`
	Redis         events.RedisConfig `yaml:"redis"`
	ML            MLConfig           `yaml:"ml"`
	Classifier    classifier.Weights `yaml:"classifier"`
	Logging       logger.Config      `yaml:"logging"`
}

// SetDefaults applies default values to every section.
func (c *Config) SetDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = defaultServiceName
	}
	if c.Service.Port == 0 {
		c.Service.Port = defaultServicePort
	}
	if c.ML.Timeout == 0 {
		c.ML.Timeout = defaultMLTimeout
	}
	c.Classifier.SetDefaults()
	c.Ingest.SetDefaults()
	c.Scheduler.SetDefaults()
	c.Elasticsearch.SetDefaults()
	c.Redis.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks cross-field invariants.
func (c *Config) Validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid service port %d", c.Service.Port)
	}
	if c.ML.Enabled && c.ML.BaseURL == "" {
		return errors.New("ml.base_url is required when ml.enabled is true")
	}
	if c.Scheduler.Interval < time.Minute {
		return fmt.Errorf("scheduler interval %s is below the 1m floor", c.Scheduler.Interval)
	}
	return nil
}
