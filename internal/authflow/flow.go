// Package authflow implements the registration and login form flows: a
// submitted form becomes a JSON POST to the backend, and the response ends
// in a notification, a navigation, a stored token, or a logged diagnostic.
package authflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/messages"
	"golang.org/x/text/message"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// State is the lifecycle position of one submission.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome describes how one submission ended.
type Outcome struct {
	State State
	// Message is the notification shown to the user, if any.
	Message string
	// Err is set when the submission ended in the generic failure branch.
	Err error
}

// DetailMode selects how a rejected login is presented.
type DetailMode string

const (
	// DetailExtract runs the payload through ExtractErrorMessage.
	DetailExtract DetailMode = "extract"
	// DetailRaw shows the "detail" field as-is.
	DetailRaw DetailMode = "raw"
)

// Dependencies holds everything a flow needs. Nothing is looked up globally.
type Dependencies struct {
	BaseURL    *url.URL
	Client     Doer
	Notifier   Notifier
	Navigator  Navigator
	TokenStore TokenStore
	Logger     *slog.Logger
	Messages   *message.Printer

	// LoginFailureDetail applies to the login flow only.
	LoginFailureDetail DetailMode
}

var errMissingDependency = errors.New("missing flow dependency")

func (d *Dependencies) complete() error {
	switch {
	case d.BaseURL == nil:
		return fmt.Errorf("%w: base URL", errMissingDependency)
	case d.Notifier == nil:
		return fmt.Errorf("%w: notifier", errMissingDependency)
	case d.Navigator == nil:
		return fmt.Errorf("%w: navigator", errMissingDependency)
	}
	if d.Client == nil {
		d.Client = http.DefaultClient
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Messages == nil {
		d.Messages = messages.NewPrinter("")
	}
	if d.LoginFailureDetail == "" {
		d.LoginFailureDetail = DetailExtract
	}
	return nil
}

// credentialsFrom copies the email and password fields verbatim.
func credentialsFrom(f *form.Form) domain.Credentials {
	if f == nil {
		return domain.Credentials{}
	}
	return domain.Credentials{
		Email:    f.Get("email"),
		Password: f.Get("password"),
	}
}

// post sends creds as JSON to path on the backend origin and returns the
// status code and body. A non-nil error means no usable response arrived.
func (d *Dependencies) post(ctx context.Context, path string, creds domain.Credentials) (int, []byte, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	endpoint := d.BaseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	return resp.StatusCode, respBody, nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}

// decodePayload checks that a response body is JSON.
func decodePayload(body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %q", domain.ErrMalformedResponse, truncate(body, 64))
	}
	return json.RawMessage(body), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// fail ends a submission in the generic branch: one diagnostic log entry
// and one generic alert.
func (d *Dependencies) fail(flow string, err error, msg string) Outcome {
	d.Logger.Error("Unexpected error during "+flow, "error", err)
	d.Notifier.Notify(msg, domain.SeverityError)
	return Outcome{State: StateFailed, Message: msg, Err: err}
}

// reject ends a submission the backend refused.
func (d *Dependencies) reject(format, detail string) Outcome {
	msg := d.Messages.Sprintf(format, detail)
	d.Notifier.Notify(msg, domain.SeverityError)
	return Outcome{State: StateFailed, Message: msg}
}
