package cmd

import (
	"context"

	"github.com/nfrund/authform/internal/app"
	"github.com/nfrund/authform/internal/authflow"
	"github.com/nfrund/authform/internal/form"
	"github.com/spf13/cobra"
)

// addCredentialFlags registers the two form fields on cmd. Values are sent
// exactly as given, empty ones included.
func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "value of the email field")
	cmd.Flags().String("password", "", "value of the password field")
}

func formFromFlags(cmd *cobra.Command) *form.Form {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	return form.FromFields(map[string]string{"email": email, "password": password})
}

// submitter is implemented by both flows.
type submitter interface {
	Submit(ctx context.Context, e *form.SubmitEvent) authflow.Outcome
}

// runFlow submits the form built from cmd's flags to the flow pick selects.
func runFlow(cmd *cobra.Command, pick func(*app.Flows) submitter) error {
	deps, err := newDependencies(cmd)
	if err != nil {
		return err
	}
	flows, err := app.NewFlows(deps)
	if err != nil {
		return err
	}

	outcome := pick(flows).Submit(cmd.Context(), form.NewSubmitEvent(formFromFlags(cmd)))
	if outcome.State != authflow.StateSucceeded {
		return errFailed
	}
	return nil
}
