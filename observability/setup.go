package observability

import (
	"context"
	"errors"

	"github.com/kbukum/apiclient/logger"
)

// Init installs meter and tracer providers when cfg.Enabled is set. The
// returned shutdown flushes both and is never nil.
func Init(ctx context.Context, cfg Config, log *logger.Logger) (shutdown func(context.Context) error, err error) {
	shutdown = func(context.Context) error { return nil }
	if !cfg.Enabled {
		return shutdown, nil
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return shutdown, err
	}

	mp, err := InitMeter(ctx, cfg)
	if err != nil {
		return shutdown, err
	}
	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		_ = mp.Shutdown(ctx)
		return shutdown, err
	}

	logger.OrDefault(log).Info("telemetry initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
		"sample_rate", cfg.SampleRate,
	))
	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
