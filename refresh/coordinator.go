package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/apiclient/credentials"
	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/observability"
)

// Defaults for Options.
const (
	DefaultLoginPath = "/login"
	DefaultTimeout   = 10 * time.Second
)

// Options configures a Coordinator.
type Options struct {
	// LoginPath is where the navigator is sent after a failed refresh.
	LoginPath string
	// Timeout bounds one refresh call.
	Timeout time.Duration
	// OnTokens is called with the access token to use from now on: the
	// refreshed one, a newer stored one, or "" after a failed refresh. After
	// a refresh it runs before any waiter is released.
	OnTokens func(access string)
	Logger   *logger.Logger
	Metrics  *observability.Metrics
}

type result struct {
	token string
	err   error
}

// Coordinator runs at most one refresh at a time and fans its outcome out
// to every caller that asked for one while it was running.
type Coordinator struct {
	store     credentials.Store
	refresher Refresher
	nav       Navigator
	opts      Options
	log       *logger.Logger

	mu         sync.Mutex
	refreshing bool
	queue      []chan result
	// epoch advances on Reset; a refresh started in an older epoch does not
	// touch the store when it settles.
	epoch uint64
}

// New returns an idle Coordinator. nav may be nil.
func New(store credentials.Store, refresher Refresher, nav Navigator, opts Options) *Coordinator {
	if opts.LoginPath == "" {
		opts.LoginPath = DefaultLoginPath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Coordinator{
		store:     store,
		refresher: refresher,
		nav:       nav,
		opts:      opts,
		log:       logger.OrDefault(opts.Logger).WithComponent("refresh"),
	}
}

// Recover is called after a 401. stale is the access token the rejected
// request carried ("" if none). It returns the token to retry with.
//
// led reports whether this caller started the refresh. A leader that gets
// an error should surface its original failure; queued callers surface err.
// If ctx ends while waiting, Recover returns an Aborted error and the
// refresh carries on for everyone else.
func (c *Coordinator) Recover(ctx context.Context, stale string) (token string, led bool, err error) {
	ch := make(chan result, 1)

	c.mu.Lock()
	if c.refreshing {
		c.queue = append(c.queue, ch)
		depth := len(c.queue)
		c.mu.Unlock()

		c.opts.Metrics.RecordQueued(ctx)
		c.log.WithContext(ctx).Debug("waiting for in-flight refresh", logger.Fields(logger.FieldWaiters, depth))
		return c.wait(ctx, ch, false)
	}

	// A newer token than the one that failed means an earlier episode
	// already finished; retry with it.
	current, serr := c.store.Access()
	if serr == nil && current != "" && current != stale {
		c.mu.Unlock()
		if c.opts.OnTokens != nil {
			c.opts.OnTokens(current)
		}
		c.opts.Metrics.RecordRefresh(ctx, observability.OutcomeReused, 0)
		return current, false, nil
	}

	c.refreshing = true
	epoch := c.epoch
	c.mu.Unlock()

	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.Timeout)
	go func() {
		defer cancel()
		c.run(refreshCtx, epoch, ch)
	}()
	return c.wait(ctx, ch, true)
}

func (c *Coordinator) wait(ctx context.Context, ch <-chan result, led bool) (string, bool, error) {
	select {
	case r := <-ch:
		return r.token, led, r.err
	case <-ctx.Done():
		return "", led, errors.Aborted(context.Cause(ctx))
	}
}

// run performs the refresh and releases the queue, then the leader.
func (c *Coordinator) run(ctx context.Context, epoch uint64, leader chan<- result) {
	start := time.Now()
	token, err := c.refresh(ctx, epoch)

	c.mu.Lock()
	waiters := c.queue
	c.queue = nil
	c.refreshing = false
	c.mu.Unlock()

	outcome := observability.OutcomeSuccess
	log := c.log.WithContext(ctx)
	if err != nil {
		outcome = observability.OutcomeFailure
		log.Warn("token refresh failed", logger.Fields(
			logger.FieldError, err.Error(),
			logger.FieldWaiters, len(waiters),
		))
	} else {
		log.Info("token refreshed", logger.Fields(
			logger.FieldWaiters, len(waiters),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
	}
	c.opts.Metrics.RecordRefresh(ctx, outcome, len(waiters))

	for _, w := range waiters {
		w <- result{token: token, err: err}
	}
	leader <- result{token: token, err: err}
}

func (c *Coordinator) refresh(ctx context.Context, epoch uint64) (string, error) {
	rt, err := c.store.Refresh()
	if err != nil {
		err = errors.Setup("read refresh token").WithCause(err)
		c.fail(ctx, epoch)
		return "", err
	}
	if rt == "" {
		c.fail(ctx, epoch)
		return "", errors.NoRefreshToken()
	}

	tokens, err := c.refresher.Refresh(ctx, rt)
	if err == nil && tokens.Access == "" {
		err = errors.Setup("refresh returned no access token")
	}
	if err != nil {
		c.fail(ctx, epoch)
		return "", errors.From(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.log.WithContext(ctx).Info("discarding refreshed tokens after session reset")
		return "", errors.NoRefreshToken()
	}
	if serr := c.store.SetTokens(tokens.Access, tokens.Refresh); serr != nil {
		// The new token still serves this episode; it is only lost on restart.
		c.log.WithContext(ctx).Warn("failed to persist refreshed tokens", logger.Fields(logger.FieldError, serr.Error()))
	}
	if c.opts.OnTokens != nil {
		c.opts.OnTokens(tokens.Access)
	}
	return tokens.Access, nil
}

// fail clears credentials and sends the navigator to the login path once.
// It does nothing when the session was reset since the refresh started.
func (c *Coordinator) fail(ctx context.Context, epoch uint64) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	if err := c.store.Clear(); err != nil {
		c.log.WithContext(ctx).Warn("failed to clear credentials", logger.Fields(logger.FieldError, err.Error()))
	}
	if c.opts.OnTokens != nil {
		c.opts.OnTokens("")
	}
	c.mu.Unlock()

	if c.nav != nil && c.nav.Location() != c.opts.LoginPath {
		c.nav.Navigate(c.opts.LoginPath)
	}
}

// Reset starts a new session epoch. A refresh in flight still settles its
// callers but no longer writes to the store. Call it before replacing or
// clearing the stored tokens.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.epoch++
	c.mu.Unlock()
}

// Refreshing reports whether a refresh is in flight.
func (c *Coordinator) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

// Pending returns the number of queued callers, excluding the leader.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}
