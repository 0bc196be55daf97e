package authflow

import (
	"context"

	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/messages"
)

// RegistrationFlow handles submissions of the registration form.
type RegistrationFlow struct {
	deps Dependencies
}

// NewRegistrationFlow creates a RegistrationFlow. The base URL, notifier and
// navigator are required; the rest have defaults.
func NewRegistrationFlow(deps Dependencies) (*RegistrationFlow, error) {
	if err := deps.complete(); err != nil {
		return nil, err
	}
	return &RegistrationFlow{deps: deps}, nil
}

// HandleSubmit implements form.Handler.
func (f *RegistrationFlow) HandleSubmit(ctx context.Context, e *form.SubmitEvent) {
	f.Submit(ctx, e)
}

// Submit runs one registration attempt for the submitted form. Every
// failure is handled here and reported through the outcome.
func (f *RegistrationFlow) Submit(ctx context.Context, e *form.SubmitEvent) Outcome {
	e.PreventDefault()
	d := &f.deps

	status, body, err := d.post(ctx, domain.RegisterPath, credentialsFrom(e.Form()))
	if err != nil {
		return d.fail("registration", err, d.Messages.Sprintf(messages.RegisterUnexpected))
	}

	if isOK(status) {
		msg := d.Messages.Sprintf(messages.RegisterSucceeded)
		d.Notifier.Notify(msg, domain.SeveritySuccess)
		d.Navigator.NavigateTo(domain.LoginViewPath)
		return Outcome{State: StateSucceeded, Message: msg}
	}

	payload, err := decodePayload(body)
	if err != nil {
		return d.fail("registration", err, d.Messages.Sprintf(messages.RegisterUnexpected))
	}
	d.Logger.Debug("Registration rejected", "status", status)
	return d.reject(messages.RegisterFailed, ExtractErrorMessage(payload))
}
