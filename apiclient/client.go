package apiclient

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apiclient/credentials"
	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/observability"
	"github.com/kbukum/apiclient/refresh"
)

// Option customises a Client.
type Option func(*options)

type options struct {
	store     credentials.Store
	nav       refresh.Navigator
	refresher refresh.Refresher
	log       *logger.Logger
	metrics   *observability.Metrics
	transport http.RoundTripper
}

// WithStore uses store instead of opening Config.Credentials.
func WithStore(store credentials.Store) Option {
	return func(o *options) { o.store = store }
}

// WithNavigator sets where the user is sent after a failed refresh.
func WithNavigator(nav refresh.Navigator) Option {
	return func(o *options) { o.nav = nav }
}

// WithRefresher replaces the HTTP refresher.
func WithRefresher(r refresh.Refresher) Option {
	return func(o *options) { o.refresher = r }
}

// WithLogger sets the logger. The default is built from Config.Logging.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTransport replaces the HTTP round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// Client sends descriptor-based calls with bearer auth and refresh.
type Client struct {
	cfg        Config
	adapter    *httpclient.Adapter
	store      credentials.Store
	closeStore func() error
	coord      *refresh.Coordinator
	log        *logger.Logger
	metrics    *observability.Metrics
	tracer     trace.Tracer

	// defaultToken mirrors the last token set by login or refresh.
	defaultToken atomic.Pointer[string]
}

// New builds a Client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = cfg.NewLogger()
	}
	log := o.log.WithComponent("apiclient")

	adapterOpts := []httpclient.Option{httpclient.WithLogger(o.log)}
	if o.transport != nil {
		adapterOpts = append(adapterOpts, httpclient.WithTransport(o.transport))
	}
	adapter, err := httpclient.New(cfg.HTTP, adapterOpts...)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:        cfg,
		adapter:    adapter,
		store:      o.store,
		closeStore: func() error { return nil },
		log:        log,
		metrics:    o.metrics,
		tracer:     observability.Tracer(),
	}

	if c.store == nil {
		store, closeFn, err := credentials.Open(cfg.Credentials, o.log)
		if err != nil {
			return nil, err
		}
		c.store, c.closeStore = store, closeFn
	}
	if c.metrics == nil {
		if c.metrics, err = observability.NewMetrics(nil); err != nil {
			return nil, err
		}
	}

	refresher := o.refresher
	if refresher == nil {
		refresher = refresh.NewHTTPRefresher(adapter, cfg.Auth.RefreshPath)
	}
	c.coord = refresh.New(c.store, refresher, o.nav, refresh.Options{
		LoginPath: cfg.Auth.LoginPath,
		Timeout:   cfg.Auth.RefreshTimeout,
		OnTokens:  c.setDefaultToken,
		Logger:    o.log,
		Metrics:   c.metrics,
	})

	adapter.Use(c.injectBearer)
	adapter.Use(injectTraceContext)
	return c, nil
}

// Close releases the transport and credential store.
func (c *Client) Close() error {
	return stderrors.Join(c.adapter.Close(), c.closeStore())
}

// Store returns the credential store.
func (c *Client) Store() credentials.Store {
	return c.store
}

// Coordinator returns the refresh coordinator.
func (c *Client) Coordinator() *refresh.Coordinator {
	return c.coord
}

func (c *Client) setDefaultToken(access string) {
	c.defaultToken.Store(&access)
}

// currentToken prefers the in-memory default and falls back to the store.
func (c *Client) currentToken() (string, error) {
	if p := c.defaultToken.Load(); p != nil && *p != "" {
		return *p, nil
	}
	return c.store.Access()
}

type tokenOverrideKey struct{}

// withToken pins the bearer token used for a retried request.
func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenOverrideKey{}, token)
}

// injectBearer sets Authorization on requests that require auth. Other
// requests are left as they are.
func (c *Client) injectBearer(r *http.Request, meta *httpclient.Request) error {
	if !meta.RequiresAuth {
		return nil
	}
	token, pinned := r.Context().Value(tokenOverrideKey{}).(string)
	if !pinned {
		var err error
		if token, err = c.currentToken(); err != nil {
			return err
		}
	}
	if token == "" {
		r.Header.Del("Authorization")
		return nil
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func injectTraceContext(r *http.Request, _ *httpclient.Request) error {
	observability.InjectHeaders(r.Context(), propagation.HeaderCarrier(r.Header))
	return nil
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return token
}
