package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/apiclient/validation"
)

// DefaultTimeout applies to requests that do not set their own.
const DefaultTimeout = 10 * time.Second

// Config configures the transport.
type Config struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout is the default per-request timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// Headers are sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Debug dumps requests and responses at debug level, with credentials redacted.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	return c.TLS.Validate()
}
