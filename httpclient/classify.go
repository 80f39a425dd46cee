package httpclient

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/kbukum/apiclient/errors"
)

// BuildError reports a request that could not be constructed.
type BuildError struct {
	Op  string
	Err error
}

func (e *BuildError) Error() string { return "httpclient: " + e.Op + ": " + e.Err.Error() }

func (e *BuildError) Unwrap() error { return e.Err }

// Classify maps the outcome of a send to a ClientError, or nil for a 2xx
// response. The first matching rule wins: cancellation, received response,
// request setup failure, then network failure.
func Classify(ctx context.Context, resp *Response, err error) *errors.ClientError {
	if err == nil && resp != nil && resp.IsSuccess() {
		return nil
	}
	if ce, ok := errors.As(err); ok {
		return ce
	}

	if cause := cancellation(ctx, err); cause != nil {
		return errors.Aborted(cause)
	}

	if resp != nil {
		var body errors.Body
		_ = json.Unmarshal(resp.Body, &body)
		return errors.Server(resp.StatusCode, errors.ErrorCode(body.Code), body.Message, resp.Body)
	}

	var be *BuildError
	if stderrors.As(err, &be) {
		return errors.Setup(be.Error()).WithCause(be.Err)
	}
	return errors.Network(err)
}

func cancellation(ctx context.Context, err error) error {
	if ctx != nil && ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
