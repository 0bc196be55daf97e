package cmd

import (
	"github.com/nfrund/authform/internal/app"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain an access token and store it",
	Long: `Submit the login form to the backend's /token endpoint.

On success the access token is stored under "access_token" in the storage of
the backend's origin and the location moves to /profile.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(cmd, func(f *app.Flows) submitter { return f.Login })
	},
}

func init() {
	addCredentialFlags(loginCmd)
	rootCmd.AddCommand(loginCmd)
}
