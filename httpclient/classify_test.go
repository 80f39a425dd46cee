package httpclient

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/kbukum/apiclient/errors"
)

func TestClassify(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	live := context.Background()

	ok := &Response{StatusCode: http.StatusOK}
	unauthorized := &Response{StatusCode: http.StatusUnauthorized, Body: []byte(`{"message":"token expired"}`)}
	plainBody := &Response{StatusCode: http.StatusInternalServerError, Body: []byte("boom")}

	tests := []struct {
		name    string
		ctx     context.Context
		resp    *Response
		err     error
		want    errors.Kind
		message string
	}{
		{"cancelled wins over response", cancelled, unauthorized, nil, errors.KindAborted, "request was aborted"},
		{"deadline error", live, nil, context.DeadlineExceeded, errors.KindAborted, "request was aborted"},
		{"response with message", live, unauthorized, nil, errors.KindServer, "token expired"},
		{"response without json", live, plainBody, nil, errors.KindServer, "request failed with status 500"},
		{"build failure", live, nil, &BuildError{Op: "encode body", Err: stderrors.New("bad")}, errors.KindSetup, "httpclient: encode body: bad"},
		{"transport failure", live, nil, stderrors.New("dial tcp: refused"), errors.KindNetwork, "dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.ctx, tt.resp, tt.err)
			if got == nil {
				t.Fatal("expected a ClientError")
			}
			if got.Kind != tt.want {
				t.Errorf("kind = %s, want %s", got.Kind, tt.want)
			}
			if got.Message != tt.message {
				t.Errorf("message = %q, want %q", got.Message, tt.message)
			}
		})
	}

	if Classify(live, ok, nil) != nil {
		t.Error("2xx without error should classify to nil")
	}
}

func TestClassify_AbortedHasNoStatus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := Classify(ctx, &Response{StatusCode: 503}, nil)
	if got.HasStatus() || got.Payload != nil {
		t.Errorf("aborted error must not carry status or payload: %+v", got)
	}
	if got.Code != errors.ErrCodeAborted {
		t.Errorf("code = %s, want ABORTED", got.Code)
	}
}

func TestClassify_PassesThroughClientError(t *testing.T) {
	orig := errors.NoRefreshToken()
	if got := Classify(context.Background(), nil, orig); got != orig {
		t.Errorf("existing ClientError should pass through, got %v", got)
	}
}
