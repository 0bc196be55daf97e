package cmd

import (
	"github.com/nfrund/authform/internal/app"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Submit the registration form to the backend's /register endpoint.

On success a confirmation is shown and the location moves to /login.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(cmd, func(f *app.Flows) submitter { return f.Register })
	},
}

func init() {
	addCredentialFlags(registerCmd)
	rootCmd.AddCommand(registerCmd)
}
