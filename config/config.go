package config

import (
	"fmt"

	"github.com/kbukum/chunkscribe/ffmpeg"
	"github.com/kbukum/chunkscribe/observability"
	"github.com/kbukum/chunkscribe/server"
	"github.com/kbukum/chunkscribe/transcription/openai"
	"github.com/kbukum/chunkscribe/util"
	"github.com/kbukum/chunkscribe/workspace"
)

// DefaultServiceName names the service when the config does not.
const DefaultServiceName = "chunkscribe"

// Config is the complete chunkscribe configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	FFmpeg        ffmpeg.Config        `yaml:"ffmpeg" mapstructure:"ffmpeg"`
	Transcription TranscriptionConfig  `yaml:"transcription" mapstructure:"transcription"`
	Workspace     workspace.Config     `yaml:"workspace" mapstructure:"workspace"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// TranscriptionConfig configures the remote endpoint. APIKey is the default
// credential; requests that carry their own key override it.
type TranscriptionConfig struct {
	openai.Config `yaml:",inline" mapstructure:",squash"`
	APIKey        string `yaml:"api_key" mapstructure:"api_key"`
}

// String masks the key.
func (c TranscriptionConfig) String() string {
	return fmt.Sprintf("base_url=%s model=%s timeout=%s api_key=%s",
		c.BaseURL, c.Model, c.Timeout, util.MaskSecret(c.APIKey, 3))
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.FFmpeg.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Workspace.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports the first failure with its
// section name.
func (c *Config) Validate() error {
	sections := []struct {
		name     string
		validate func() error
	}{
		{"service", c.ServiceConfig.Validate},
		{"ffmpeg", c.FFmpeg.Validate},
		{"transcription", c.Transcription.Validate},
		{"server", c.Server.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("config.%s: %w", s.name, err)
		}
	}
	return nil
}

// Load reads the configuration, applies defaults and validates it.
func Load(opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := LoadConfig(DefaultServiceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
