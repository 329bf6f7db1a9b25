package ffmpeg

import (
	"fmt"
	"time"
)

// DefaultPath is used when no explicit location is configured; it is
// resolved through PATH.
const DefaultPath = "ffmpeg"

// Config configures the ffmpeg tool.
type Config struct {
	// Path is the executable location, or a bare name resolved via PATH.
	Path string `yaml:"path" mapstructure:"path"`
	// Timeout bounds each invocation. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// GracePeriod is the delay between SIGTERM and SIGKILL on cancellation.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = 5 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("ffmpeg: timeout must not be negative")
	}
	if c.GracePeriod < 0 {
		return fmt.Errorf("ffmpeg: grace_period must not be negative")
	}
	return nil
}
