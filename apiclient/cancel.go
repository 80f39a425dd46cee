package apiclient

import (
	"context"
	stderrors "errors"
)

// ErrCancelled is the cancellation cause recorded by CancelHandle.Cancel.
var ErrCancelled = stderrors.New("apiclient: call cancelled")

// CancelHandle cancels the calls it is attached to.
type CancelHandle struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewCancelHandle returns a handle that is also cancelled when parent is done.
// A nil parent means context.Background.
func NewCancelHandle(parent context.Context) *CancelHandle {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	return &CancelHandle{ctx: ctx, cancel: cancel}
}

// Cancel aborts every unsettled call using the handle. It is idempotent.
func (h *CancelHandle) Cancel() {
	h.cancel(ErrCancelled)
}

// Done is closed once the handle is cancelled.
func (h *CancelHandle) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Context returns the handle's context.
func (h *CancelHandle) Context() context.Context {
	return h.ctx
}

// callContext derives the context for one call. release must be called when
// the call settles; it cancels the derived context.
func callContext(ctx context.Context, h *CancelHandle) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	if h == nil {
		return ctx, func() { cancel(nil) }
	}
	if h.ctx.Err() != nil {
		cancel(context.Cause(h.ctx))
	}
	stop := context.AfterFunc(h.ctx, func() { cancel(context.Cause(h.ctx)) })
	return ctx, func() {
		stop()
		cancel(nil)
	}
}
