package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/kbukum/apiclient/apiclient"
	"github.com/kbukum/apiclient/config"
	"github.com/kbukum/apiclient/endpoint"
	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/observability"
	"github.com/kbukum/apiclient/refresh"
	"github.com/kbukum/apiclient/version"
)

const envPrefix = "APICLIENT"

// Globals are flags shared by every command.
type Globals struct {
	// Config is a path to a config.yml file
	Config string `help:"Path to a YAML configuration file" type:"existingfile" env:"APICLIENT_CONFIG"`
	// EnvFile is a path to a .env file
	EnvFile string `help:"Path to a .env file" type:"existingfile" name:"env-file"`
	// BaseURL overrides http.base_url
	BaseURL string `help:"API base URL, overrides the configuration" name:"base-url"`
	// Debug enables debug logging and HTTP dumps
	Debug bool `help:"Debug logging and HTTP request dumps" short:"d"`

	out io.Writer `kong:"-"`
}

// CLI is the command tree.
type CLI struct {
	Globals

	// Login exchanges credentials for a token pair
	Login LoginCmd `cmd:"true" help:"Log in and store the session tokens"`
	// Logout forgets the stored tokens
	Logout LogoutCmd `cmd:"true" help:"Forget the stored session tokens"`
	// Call sends one named request
	Call CallCmd `cmd:"true" help:"Call a named endpoint"`
	// Endpoints lists the named requests
	Endpoints EndpointsCmd `cmd:"true" help:"List the endpoints known to call"`
	// Version prints build information
	Version VersionCmd `cmd:"true" help:"Print the client version"`
}

// LoginCmd is the login command.
type LoginCmd struct {
	Username string `help:"Account user name" required:"true" short:"u" env:"APICLIENT_USERNAME"`
	Password string `help:"Account password" required:"true" short:"p" env:"APICLIENT_PASSWORD"`
}

// LogoutCmd is the logout command.
type LogoutCmd struct{}

// CallCmd is the call command.
type CallCmd struct {
	Name  string   `arg:"true" help:"Endpoint name, see 'endpoints'"`
	Path  []string `help:"Path parameter as key=value" placeholder:"KEY=VALUE"`
	Query []string `help:"Query parameter as key=value" placeholder:"KEY=VALUE"`
	Data  string   `help:"JSON request body"`
	File  string   `help:"File to upload for multipart endpoints" type:"existingfile"`
}

// EndpointsCmd is the endpoints command.
type EndpointsCmd struct{}

// VersionCmd is the version command.
type VersionCmd struct{}

// Run logs in.
func (c *LoginCmd) Run(g *Globals) error {
	return g.withClient(func(ctx context.Context, client *apiclient.Client) error {
		err := client.Login(ctx, apiclient.LoginEndpoint, map[string]string{
			"username": c.Username,
			"password": c.Password,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(g.writer(), "logged in")
		return nil
	})
}

// Run logs out.
func (c *LogoutCmd) Run(g *Globals) error {
	return g.withClient(func(_ context.Context, client *apiclient.Client) error {
		if err := client.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(g.writer(), "logged out")
		return nil
	})
}

// Run sends the named request and prints the response body.
func (c *CallCmd) Run(g *Globals) error {
	d, ok := endpoints[c.Name]
	if !ok {
		return fmt.Errorf("unknown endpoint %q, see 'apiclient endpoints'", c.Name)
	}
	params, err := c.params(d)
	if err != nil {
		return err
	}

	return g.withClient(func(ctx context.Context, client *apiclient.Client) error {
		resp, err := client.Do(ctx, d, params)
		if err != nil {
			return err
		}
		return printBody(g.writer(), resp.Body)
	})
}

func (c *CallCmd) params(d endpoint.Descriptor) (endpoint.Params, error) {
	var p endpoint.Params
	var err error
	if p.Path, err = parsePairs(c.Path); err != nil {
		return p, fmt.Errorf("--path: %w", err)
	}
	if p.Query, err = parsePairs(c.Query); err != nil {
		return p, fmt.Errorf("--query: %w", err)
	}

	switch {
	case c.File != "":
		data, err := os.ReadFile(c.File)
		if err != nil {
			return p, err
		}
		body := &httpclient.MultipartBody{
			Files: []httpclient.FileField{{FieldName: "file", FileName: filepath.Base(c.File), Data: data}},
		}
		if c.Data != "" {
			if err := json.Unmarshal([]byte(c.Data), &body.Fields); err != nil {
				return p, fmt.Errorf("--data must be a JSON object of strings for uploads: %w", err)
			}
		}
		p.Body = body
	case c.Data != "":
		if !json.Valid([]byte(c.Data)) {
			return p, fmt.Errorf("--data is not valid JSON")
		}
		p.Body = json.RawMessage(c.Data)
	case multipartEndpoints[c.Name]:
		return p, fmt.Errorf("%s needs --file", d.Label())
	}
	return p, nil
}

// Run prints the endpoint table.
func (c *EndpointsCmd) Run(g *Globals) error {
	names := make([]string, 0, len(endpoints))
	for name := range endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d := endpoints[name]
		auth := ""
		if d.RequiresAuth {
			auth = " (auth)"
		}
		fmt.Fprintf(g.writer(), "%-14s %-6s %s%s\n", name, d.Method, d.Endpoint, auth)
	}
	return nil
}

// Run prints the build version.
func (c *VersionCmd) Run(g *Globals) error {
	info := version.Get()
	fmt.Fprintf(g.writer(), "apiclient %s (%s)\n", info, info.GoVersion)
	return nil
}

func (g *Globals) writer() io.Writer {
	if g.out != nil {
		return g.out
	}
	return os.Stdout
}

// loadConfig reads config.yml, .env and APICLIENT_* variables, then applies flags.
func (g *Globals) loadConfig() (apiclient.Config, error) {
	var cfg apiclient.Config
	opts := []config.LoaderOption{config.WithEnvPrefix(envPrefix)}
	if g.Config != "" {
		opts = append(opts, config.WithConfigFile(g.Config))
	}
	if g.EnvFile != "" {
		opts = append(opts, config.WithEnvFile(g.EnvFile))
	}
	if err := config.LoadConfig("apiclient", &cfg, opts...); err != nil {
		return cfg, err
	}
	if g.BaseURL != "" {
		cfg.HTTP.BaseURL = g.BaseURL
	}
	if g.Debug {
		cfg.Debug = true
		cfg.HTTP.Debug = true
	}
	if cfg.Credentials.Backend == "" {
		cfg.Credentials.Backend = "disk"
	}
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}

// withClient builds a Client for one command and tears it down afterwards.
func (g *Globals) withClient(fn func(context.Context, *apiclient.Client) error) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	log := cfg.NewLogger()
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.Init(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	nav := refresh.NewMemoryNavigator("/")
	nav.OnNavigate = func(path string) {
		if path == cfg.Auth.LoginPath {
			fmt.Fprintln(os.Stderr, "session expired, run 'apiclient login' again")
		}
	}

	client, err := apiclient.New(cfg, apiclient.WithLogger(log), apiclient.WithNavigator(nav))
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(ctx, client)
}

func printBody(w io.Writer, body []byte) error {
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		_, err = w.Write(append(body, '\n'))
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parsePairs turns ["id=42", "tag=a", "tag=b"] into a map. Repeated keys
// become a slice.
func parsePairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		switch prev := out[k].(type) {
		case nil:
			out[k] = v
		case string:
			out[k] = []string{prev, v}
		case []string:
			out[k] = append(prev, v)
		}
	}
	return out, nil
}
