package app

import (
	"github.com/nfrund/authform/internal/authflow"
)

// Flows groups the form flows of the application.
type Flows struct {
	Register *authflow.RegistrationFlow
	Login    *authflow.LoginFlow
}

// flowDeps creates the dependency struct shared by both flows.
func (d *Dependencies) flowDeps() authflow.Dependencies {
	return authflow.Dependencies{
		BaseURL:            d.BaseURL,
		Client:             d.Client,
		Notifier:           d.Alerter,
		Navigator:          d.Location,
		TokenStore:         d.Storage,
		Logger:             d.Logger,
		Messages:           d.Messages,
		LoginFailureDetail: authflow.DetailMode(d.Config.GetLoginFailureDetail()),
	}
}

// NewFlows creates every flow from deps.
func NewFlows(deps *Dependencies) (*Flows, error) {
	register, err := authflow.NewRegistrationFlow(deps.flowDeps())
	if err != nil {
		return nil, err
	}
	login, err := authflow.NewLoginFlow(deps.flowDeps())
	if err != nil {
		return nil, err
	}
	return &Flows{Register: register, Login: login}, nil
}
