package credentials

import (
	"fmt"

	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/redis"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendDisk   = "disk"
	BackendRedis  = "redis"
)

// Config selects and configures a Store backend.
type Config struct {
	Backend string `yaml:"backend" mapstructure:"backend" validate:"oneof=memory disk redis"`
	// Dir is the DiskStore directory. Defaults to the user config dir.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// KeyPrefix namespaces RedisStore keys.
	KeyPrefix string       `yaml:"key_prefix" mapstructure:"key_prefix"`
	Redis     redis.Config `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "apiclient"
	}
	if c.Backend == BackendRedis {
		c.Redis.ApplyDefaults()
	}
}

// Validate checks backend specific settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendDisk:
		return nil
	case BackendRedis:
		return c.Redis.Validate()
	default:
		return fmt.Errorf("credentials.backend must be one of [memory, disk, redis] (got: %s)", c.Backend)
	}
}

// Open creates the configured Store. The returned close func releases
// backend resources and is never nil.
func Open(cfg Config, log *logger.Logger) (Store, func() error, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log = logger.OrDefault(log).WithComponent("credentials")
	noop := func() error { return nil }

	switch cfg.Backend {
	case BackendDisk:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultDir("apiclient"); err != nil {
				return nil, nil, err
			}
		}
		store, err := NewDiskStore(dir)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("using disk credential store", logger.Fields("dir", dir))
		return store, noop, nil

	case BackendRedis:
		client, err := redis.New(cfg.Redis, log)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("using redis credential store", logger.Fields("addr", cfg.Redis.Addr, "prefix", cfg.KeyPrefix))
		return NewRedisStore(client, cfg.KeyPrefix), client.Close, nil

	default:
		return NewMemoryStore(Tokens{}), noop, nil
	}
}
