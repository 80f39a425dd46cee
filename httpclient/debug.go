package httpclient

import (
	"net/http"
	"net/http/httputil"

	"github.com/kbukum/apiclient/logger"
)

const redacted = "[REDACTED]"

// debugTransport dumps requests and responses to the logger.
type debugTransport struct {
	next http.RoundTripper
	log  *logger.Logger
}

func (t *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	dumpReq := req.Clone(req.Context())
	if dumpReq.Header.Get("Authorization") != "" {
		dumpReq.Header.Set("Authorization", redacted)
	}
	// Bodies may carry credentials on login and refresh.
	if out, err := httputil.DumpRequestOut(dumpReq, false); err == nil {
		t.log.Debug("http request", logger.Fields("dump", string(out)))
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.log.Debug("http request failed", logger.Fields(logger.FieldError, err.Error()))
		return nil, err
	}

	if out, err := httputil.DumpResponse(resp, false); err == nil {
		t.log.Debug("http response", logger.Fields("dump", string(out)))
	}
	return resp, nil
}
