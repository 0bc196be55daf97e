package authflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/messages"
)

// LoginFlow handles submissions of the login form.
type LoginFlow struct {
	deps Dependencies
}

// NewLoginFlow creates a LoginFlow. In addition to what registration needs,
// it requires a TokenStore.
func NewLoginFlow(deps Dependencies) (*LoginFlow, error) {
	if deps.TokenStore == nil {
		return nil, fmt.Errorf("%w: token store", errMissingDependency)
	}
	if err := deps.complete(); err != nil {
		return nil, err
	}
	switch deps.LoginFailureDetail {
	case DetailExtract, DetailRaw:
	default:
		return nil, fmt.Errorf("unknown login failure detail mode %q", deps.LoginFailureDetail)
	}
	return &LoginFlow{deps: deps}, nil
}

// HandleSubmit implements form.Handler.
func (f *LoginFlow) HandleSubmit(ctx context.Context, e *form.SubmitEvent) {
	f.Submit(ctx, e)
}

// Submit runs one login attempt for the submitted form. On success the
// access token is stored before navigating to the profile view.
func (f *LoginFlow) Submit(ctx context.Context, e *form.SubmitEvent) Outcome {
	e.PreventDefault()
	d := &f.deps

	status, body, err := d.post(ctx, domain.TokenPath, credentialsFrom(e.Form()))
	if err != nil {
		return f.unexpected(err)
	}

	if isOK(status) {
		token, err := decodeToken(body)
		if err != nil {
			return f.unexpected(err)
		}
		if err := d.TokenStore.Save(domain.AccessTokenKey, token.AccessToken); err != nil {
			return f.unexpected(fmt.Errorf("failed to save access token: %w", err))
		}
		d.Logger.Debug("Access token stored", "token_type", token.TokenType)
		d.Navigator.NavigateTo(domain.ProfileViewPath)
		return Outcome{State: StateSucceeded}
	}

	payload, err := decodePayload(body)
	if err != nil {
		return f.unexpected(err)
	}
	d.Logger.Debug("Login rejected", "status", status)

	detail := ExtractErrorMessage(payload)
	if d.LoginFailureDetail == DetailRaw {
		detail = RawDetail(payload)
	}
	return d.reject(messages.LoginFailed, detail)
}

func (f *LoginFlow) unexpected(err error) Outcome {
	return f.deps.fail("login", err, f.deps.Messages.Sprintf(messages.LoginUnexpected))
}

func decodeToken(body []byte) (domain.TokenResponse, error) {
	var token domain.TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return token, errors.Join(domain.ErrMalformedResponse, err)
	}
	if token.AccessToken == "" {
		return token, domain.ErrMissingAccessToken
	}
	return token, nil
}
