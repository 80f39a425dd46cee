// Command mockapi serves the mock API until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/kbukum/apiclient/config"
	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/mockapi"
)

// Config is the mock server's configuration file layout.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server mockapi.Config `yaml:"server" mapstructure:"server"`
}

// CLI holds the command line flags. Flags override the configuration.
type CLI struct {
	Config    string        `help:"Path to a YAML configuration file" type:"existingfile" env:"MOCKAPI_CONFIG"`
	Host      string        `help:"Listen host"`
	Port      int           `help:"Listen port" short:"p"`
	AccessTTL time.Duration `help:"Access token lifetime" name:"access-ttl"`
	Debug     bool          `help:"Debug logging" short:"d"`
}

var cli CLI

func main() {
	ctx := kong.Parse(
		&cli,
		kong.UsageOnError(),
		kong.Name("mockapi"),
		kong.Description("Mock API with rotating refresh tokens"),
	)
	ctx.FatalIfErrorf(run(&cli))
}

func run(c *CLI) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	log := cfg.NewLogger()
	logger.SetDefault(log)

	srv, err := mockapi.New(cfg.Server, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return srv.Stop(context.Background())
}

func (c *CLI) load() (Config, error) {
	var cfg Config
	opts := []config.LoaderOption{config.WithEnvPrefix("MOCKAPI")}
	if c.Config != "" {
		opts = append(opts, config.WithConfigFile(c.Config))
	}
	if err := config.LoadConfig("mockapi", &cfg, opts...); err != nil {
		return cfg, err
	}
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.AccessTTL != 0 {
		cfg.Server.AccessTTL = c.AccessTTL
	}
	if c.Debug {
		cfg.Debug = true
	}
	if cfg.Name == "" {
		cfg.Name = "mockapi"
	}
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}
