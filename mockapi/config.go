package mockapi

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds mock server configuration.
type Config struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Secret       string        `yaml:"secret" mapstructure:"secret"`
	AccessTTL    time.Duration `yaml:"access_ttl" mapstructure:"access_ttl"`
	Username     string        `yaml:"username" mapstructure:"username"`
	Password     string        `yaml:"password" mapstructure:"password"`
	BcryptCost   int           `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8089
	}
	if c.Secret == "" {
		c.Secret = "mockapi-dev-secret"
	}
	if c.AccessTTL == 0 {
		c.AccessTTL = 15 * time.Minute
	}
	if c.Username == "" {
		c.Username = "demo"
	}
	if c.Password == "" {
		c.Password = "demo-password"
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15 * time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("mockapi.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if len(c.Secret) < 8 {
		return fmt.Errorf("mockapi.secret must be at least 8 characters")
	}
	if c.AccessTTL < 0 {
		return fmt.Errorf("mockapi.access_ttl must be non-negative (got: %s)", c.AccessTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("mockapi.bcrypt_cost must be between %d and %d (got: %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if len(c.Password) > 72 {
		return fmt.Errorf("mockapi.password exceeds the bcrypt limit of 72 bytes")
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
