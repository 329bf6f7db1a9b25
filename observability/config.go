package observability

import (
	"time"

	"github.com/kbukum/chunkscribe/validation"
)

// Config enables and points the OTLP exporters.
type Config struct {
	TracingEnabled bool `yaml:"tracing_enabled" mapstructure:"tracing_enabled"`
	MetricsEnabled bool `yaml:"metrics_enabled" mapstructure:"metrics_enabled"`
	// Endpoint is the OTLP HTTP collector host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the fraction of traces kept, 0 to 1.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// Interval is the metric export period.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ServiceInfo labels every exported span and metric.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval <= 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	v := validation.New().Range("sample_rate", c.SampleRate, 0, 1)
	if c.TracingEnabled || c.MetricsEnabled {
		v.Required("endpoint", c.Endpoint)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
