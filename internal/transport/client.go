// Package transport builds the HTTP client the auth flows talk to the
// backend with.
package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// HeaderRequestID carries the per-request correlation ID.
const HeaderRequestID = "X-Request-ID"

// Options is the set of options for a new client.
type Options struct {
	// Timeout bounds a whole exchange. Zero means no timeout.
	Timeout time.Duration
	// IncludeCredentials keeps cookies set by the backend and sends them on
	// later requests.
	IncludeCredentials bool
	// Jar holds the cookies when credentials are included. An in-memory jar
	// is created if nil.
	Jar http.CookieJar
	// Transport is the underlying round tripper, http.DefaultTransport if nil.
	Transport http.RoundTripper
}

// NewClient creates an *http.Client configured by o.
func NewClient(o Options) (*http.Client, error) {
	base := o.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	client := &http.Client{
		Timeout:   o.Timeout,
		Transport: &loggingTransport{next: base},
	}

	if o.IncludeCredentials {
		jar := o.Jar
		if jar == nil {
			var err error
			if jar, err = NewJar(); err != nil {
				return nil, err
			}
		}
		client.Jar = jar
	}
	return client, nil
}

// NewJar creates an in-memory cookie jar that scopes cookies by public
// suffix the way a browser does.
func NewJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return jar, nil
}

// loggingTransport stamps every request with a request ID and logs the
// exchange at debug level.
type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqID := req.Header.Get(HeaderRequestID)
	if reqID == "" {
		reqID = uuid.NewString()
		// RoundTrippers must not modify the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set(HeaderRequestID, reqID)
	}

	logger := slog.Default().With("request_id", reqID)
	start := time.Now()

	// Failures are left to the caller, which logs them once.
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	logger.Debug("HTTP request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start))
	return resp, nil
}
