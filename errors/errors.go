package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// ClientError is the terminal error value returned by the client.
type ClientError struct {
	Kind Kind `json:"kind"`
	// Code is the server-supplied code for Server errors, otherwise one of the ErrCode constants.
	Code    ErrorCode `json:"code,omitempty"`
	Message string    `json:"message"`
	// HTTPStatus is zero when no response was received.
	HTTPStatus int `json:"status,omitempty"`
	// Payload is the raw response body, nil when no response was received.
	Payload []byte `json:"-"`
	Cause   error  `json:"-"`
}

// Error returns the string representation of the error.
func (e *ClientError) Error() string {
	msg := e.Kind.String() + " error"
	if e.HTTPStatus != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.HTTPStatus)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *ClientError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *ClientError) WithCause(cause error) *ClientError {
	e.Cause = cause
	return e
}

// HasStatus reports whether a response status is attached.
func (e *ClientError) HasStatus() bool { return e.HTTPStatus != 0 }

// Body is the error document servers are expected to return.
// Both fields are optional.
type Body struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// --- constructors ---

// Aborted creates an error for a cancelled or timed-out call.
func Aborted(cause error) *ClientError {
	return &ClientError{
		Kind: KindAborted, Code: ErrCodeAborted,
		Message: "request was aborted", Cause: cause,
	}
}

// Network creates an error for a call that got no response.
func Network(cause error) *ClientError {
	msg := "no response received"
	if cause != nil {
		msg = cause.Error()
	}
	return &ClientError{Kind: KindNetwork, Code: ErrCodeNetwork, Message: msg, Cause: cause}
}

// Setup creates an error for a call that failed before it could be sent or decoded.
func Setup(message string) *ClientError {
	return &ClientError{Kind: KindSetup, Code: ErrCodeSetup, Message: message}
}

// Setupf creates a Setup error with a formatted message.
func Setupf(format string, args ...any) *ClientError {
	return Setup(fmt.Sprintf(format, args...))
}

// Server creates an error for a non-2xx response. code may be empty.
func Server(status int, code ErrorCode, message string, payload []byte) *ClientError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &ClientError{
		Kind: KindServer, Code: code, Message: message,
		HTTPStatus: status, Payload: payload,
	}
}

// NoRefreshToken creates the error returned when a refresh is needed but no refresh token is stored.
func NoRefreshToken() *ClientError {
	return &ClientError{
		Kind: KindSetup, Code: ErrCodeNoRefreshToken,
		Message: "no refresh token available",
	}
}

// --- inspection ---

// As returns the *ClientError in err's chain, if any.
func As(err error) (*ClientError, bool) {
	var ce *ClientError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsAborted reports whether err is an Aborted ClientError.
func IsAborted(err error) bool { return isKind(err, KindAborted) }

// IsServer reports whether err is a Server ClientError.
func IsServer(err error) bool { return isKind(err, KindServer) }

// IsNetwork reports whether err is a Network ClientError.
func IsNetwork(err error) bool { return isKind(err, KindNetwork) }

// IsSetup reports whether err is a Setup ClientError.
func IsSetup(err error) bool { return isKind(err, KindSetup) }

// IsNoRefreshToken reports whether err carries the NO_REFRESH_TOKEN code.
func IsNoRefreshToken(err error) bool {
	ce, ok := As(err)
	return ok && ce.Code == ErrCodeNoRefreshToken
}

// StatusOf returns the HTTP status attached to err, or zero.
func StatusOf(err error) int {
	if ce, ok := As(err); ok {
		return ce.HTTPStatus
	}
	return 0
}

// From normalises err into a ClientError. Existing ClientErrors are returned
// as is, context errors become Aborted and anything else becomes Setup.
func From(err error) *ClientError {
	if err == nil {
		return nil
	}
	if ce, ok := As(err); ok {
		return ce
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return Aborted(err)
	}
	return Setup(err.Error()).WithCause(err)
}

func isKind(err error, k Kind) bool {
	ce, ok := As(err)
	return ok && ce.Kind == k
}
