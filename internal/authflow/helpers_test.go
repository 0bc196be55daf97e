package authflow

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/messages"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/message"
)

type notification struct {
	Message  string
	Severity domain.Severity
}

// recorder implements Notifier, Navigator and TokenStore and remembers
// every call.
type recorder struct {
	mu            sync.Mutex
	notifications []notification
	navigations   []string
	stored        map[string]string
	saveErr       error
}

func newRecorder() *recorder {
	return &recorder{stored: map[string]string{}}
}

func (r *recorder) Notify(message string, severity domain.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, notification{message, severity})
}

func (r *recorder) NavigateTo(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigations = append(r.navigations, path)
}

func (r *recorder) Save(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.stored[key] = value
	return nil
}

// logCapture is a slog.Handler that keeps records in memory.
type logCapture struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *logCapture) Enabled(context.Context, slog.Level) bool { return true }

func (h *logCapture) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *logCapture) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *logCapture) WithGroup(string) slog.Handler       { return h }

func (h *logCapture) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

type doerFunc func(*http.Request) (*http.Response, error)

func (fn doerFunc) Do(req *http.Request) (*http.Response, error) { return fn(req) }

// offline simulates a request that never completes.
var offline = doerFunc(func(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connect: network is unreachable")
})

// received is one request seen by the fake backend.
type received struct {
	Path        string
	ContentType string
	Credentials domain.Credentials
}

// backend imitates the auth API: validation errors come back as a list
// under "detail", business errors as a string.
type backend struct {
	mu       sync.Mutex
	requests []received
	URL      *url.URL
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}

	e := echo.New()
	e.HideBanner = true
	e.POST(domain.RegisterPath, b.handle(func(c echo.Context, creds domain.Credentials) error {
		switch creds.Email {
		case "":
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"detail": []map[string]any{
					{"loc": []string{"body", "email"}, "msg": "email required", "type": "value_error"},
					{"loc": []string{"body", "password"}, "msg": "password too short", "type": "value_error"},
				},
			})
		case "taken@example.com":
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": "User with this email already exists"})
		case "crash@example.com":
			return c.String(http.StatusInternalServerError, "Internal Server Error")
		}
		return c.JSON(http.StatusOK, map[string]any{"id": 1, "email": creds.Email})
	}))
	e.POST(domain.TokenPath, b.handle(func(c echo.Context, creds domain.Credentials) error {
		switch {
		case creds.Email == "":
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"detail": []map[string]string{{"msg": "email required"}},
			})
		case creds.Email == "notoken@example.com":
			return c.JSON(http.StatusOK, map[string]string{"token_type": "bearer"})
		case creds.Email == "garbage@example.com":
			return c.String(http.StatusOK, "<html>ok</html>")
		case creds.Password != "Secret#123":
			c.Response().Header().Set("WWW-Authenticate", "Bearer")
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
		}
		return c.JSON(http.StatusOK, map[string]string{"access_token": "abc123", "token_type": "bearer"})
	}))

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	b.URL = u
	return b
}

func (b *backend) handle(fn func(echo.Context, domain.Credentials) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		var creds domain.Credentials
		if err := c.Bind(&creds); err != nil {
			return err
		}
		b.mu.Lock()
		b.requests = append(b.requests, received{
			Path:        c.Request().URL.Path,
			ContentType: c.Request().Header.Get(echo.HeaderContentType),
			Credentials: creds,
		})
		b.mu.Unlock()
		return fn(c, creds)
	}
}

func (b *backend) seen() []received {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]received(nil), b.requests...)
}

// testDeps wires a flow against the fake backend with recording capabilities.
func testDeps(b *backend, rec *recorder, logs *logCapture) Dependencies {
	return Dependencies{
		BaseURL:    b.URL,
		Client:     http.DefaultClient,
		Notifier:   rec,
		Navigator:  rec,
		TokenStore: rec,
		Logger:     slog.New(logs),
	}
}

func ukrainian() *message.Printer {
	return messages.NewPrinter("uk")
}
