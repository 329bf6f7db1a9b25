package openai

import (
	"net/url"
	"time"

	"github.com/kbukum/chunkscribe/httpclient"
	"github.com/kbukum/chunkscribe/validation"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is sent when neither the config nor the request names one.
	DefaultModel = "whisper-1"

	defaultTimeout = 10 * time.Minute
)

// Config configures the transcription endpoint client.
type Config struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
	// Timeout bounds one upload including the server's processing time.
	Timeout time.Duration         `yaml:"timeout" mapstructure:"timeout"`
	TLS     *httpclient.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	v := validation.New().Required("base_url", c.BaseURL).Required("model", c.Model)
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		v.Custom(err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "",
			"base_url", "must be an absolute http(s) URL")
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return c.TLS.Validate()
}
