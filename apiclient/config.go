package apiclient

import (
	"fmt"
	"time"

	"github.com/kbukum/apiclient/config"
	"github.com/kbukum/apiclient/credentials"
	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/observability"
	"github.com/kbukum/apiclient/refresh"
	"github.com/kbukum/apiclient/validation"
	"github.com/kbukum/apiclient/version"
)

// Config configures a Client.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP        httpclient.Config    `yaml:"http" mapstructure:"http"`
	Auth        AuthConfig           `yaml:"auth" mapstructure:"auth"`
	Credentials credentials.Config   `yaml:"credentials" mapstructure:"credentials"`
	Telemetry   observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// AuthConfig configures the refresh flow.
type AuthConfig struct {
	RefreshPath    string        `yaml:"refresh_path" mapstructure:"refresh_path" validate:"endpoint"`
	LoginPath      string        `yaml:"login_path" mapstructure:"login_path" validate:"startswith=/"`
	RefreshTimeout time.Duration `yaml:"refresh_timeout" mapstructure:"refresh_timeout" validate:"gt=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "apiclient"
	}
	if c.Version == "" {
		c.Version = version.Get().String()
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	c.Credentials.ApplyDefaults()

	if c.Auth.RefreshPath == "" {
		c.Auth.RefreshPath = refresh.DefaultPath
	}
	if c.Auth.LoginPath == "" {
		c.Auth.LoginPath = refresh.DefaultLoginPath
	}
	if c.Auth.RefreshTimeout <= 0 {
		c.Auth.RefreshTimeout = refresh.DefaultTimeout
	}

	c.Telemetry.ServiceName = c.Name
	c.Telemetry.ServiceVersion = c.Version
	c.Telemetry.Environment = c.Environment
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := validation.Struct(c.Auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Credentials.Validate(); err != nil {
		return err
	}
	if c.Telemetry.Enabled {
		return c.Telemetry.Validate()
	}
	return nil
}
