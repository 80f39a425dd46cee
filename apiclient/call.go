package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apiclient/endpoint"
	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/logger"
)

// RequestIDHeader carries the per-call request id.
const RequestIDHeader = "X-Request-ID"

// CallOption customises a single call.
type CallOption func(*callOptions)

type callOptions struct {
	handle *CancelHandle
}

// WithCancelHandle attaches h to the call. Cancelling h aborts the call.
func WithCancelHandle(h *CancelHandle) CallOption {
	return func(o *callOptions) { o.handle = h }
}

// Call sends d with p and decodes a 2xx JSON body into T. An empty body
// yields the zero T. A body that does not decode is a Setup error.
func Call[T any](ctx context.Context, c *Client, d endpoint.Descriptor, p endpoint.Params, opts ...CallOption) (T, error) {
	var out T
	resp, err := c.Do(ctx, d, p, opts...)
	if err != nil {
		return out, err
	}
	if len(resp.Body) == 0 || resp.StatusCode == http.StatusNoContent {
		return out, nil
	}
	if raw, ok := any(&out).(*[]byte); ok {
		*raw = resp.Body
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, errors.Setupf("decode %s response", d.Label()).WithCause(err)
	}
	return out, nil
}

// Do sends d with p and returns the raw response. On failure the error is
// a *errors.ClientError and the response, if one was received, is returned too.
func (c *Client) Do(ctx context.Context, d endpoint.Descriptor, p endpoint.Params, opts ...CallOption) (*httpclient.Response, error) {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}

	ctx, release := callContext(ctx, co.handle)
	defer release()

	requestID := uuid.NewString()
	ctx = logger.ContextWithRequestID(ctx, requestID)
	ctx, span := c.tracer.Start(ctx, "apiclient "+d.Label(), trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", d.Method),
			attribute.String("apiclient.endpoint", d.Endpoint),
			attribute.Bool("apiclient.requires_auth", d.RequiresAuth),
		))
	defer span.End()

	start := time.Now()
	resp, err := c.send(ctx, d, p, requestID)
	elapsed := time.Since(start)

	log := c.log.WithContext(ctx)
	outcome := "ok"
	if err != nil {
		ce := errors.From(err)
		err = ce
		outcome = ce.Kind.String()
		span.SetStatus(codes.Error, ce.Message)
		span.RecordError(ce)
		log.Debug("call failed", logger.Fields(
			logger.FieldEndpoint, d.Label(),
			logger.FieldKind, outcome,
			logger.FieldStatus, ce.HTTPStatus,
			logger.FieldCode, string(ce.Code),
			logger.FieldDuration, elapsed.Milliseconds(),
		))
	} else {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		log.Debug("call completed", logger.Fields(
			logger.FieldEndpoint, d.Label(),
			logger.FieldStatus, resp.StatusCode,
			logger.FieldDuration, elapsed.Milliseconds(),
		))
	}
	c.metrics.RecordCall(ctx, d.Label(), d.Method, outcome, elapsed)
	return resp, err
}

// send builds the request, sends it and recovers once from a 401.
func (c *Client) send(ctx context.Context, d endpoint.Descriptor, p endpoint.Params, requestID string) (*httpclient.Response, error) {
	req, err := endpoint.Build(d, p)
	if err != nil {
		return nil, err
	}
	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers[RequestIDHeader] = requestID
	req.Headers = headers
	if req.RequiresAuth {
		// A 401 reissues the request, so streamed bodies must survive the first send.
		if req, err = req.Buffered(); err != nil {
			return nil, errors.Setupf("buffer %s body", d.Label()).WithCause(err)
		}
	}

	resp, err := c.adapter.Do(ctx, req)
	if err == nil || !req.RequiresAuth || errors.StatusOf(err) != http.StatusUnauthorized {
		return resp, err
	}

	token, led, rerr := c.coord.Recover(ctx, bearerToken(resp.SentAuthorization()))
	if ctx.Err() != nil {
		return nil, errors.Aborted(context.Cause(ctx))
	}
	if rerr != nil {
		if led {
			ce, _ := errors.As(err)
			return resp, ce.WithCause(rerr)
		}
		return nil, rerr
	}

	// The retry is final: a second 401 is returned as is.
	return c.adapter.Do(withToken(ctx, token), req)
}
