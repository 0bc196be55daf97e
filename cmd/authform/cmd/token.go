package cmd

import (
	"fmt"

	"github.com/nfrund/authform/internal/browser"
	"github.com/nfrund/authform/internal/domain"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect, clear or watch the stored access token",
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := newDependencies(cmd)
		if err != nil {
			return err
		}
		token, ok, err := deps.Storage.Get(domain.AccessTokenKey)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no access token stored for %s", deps.BaseURL)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := newDependencies(cmd)
		if err != nil {
			return err
		}
		return deps.Storage.Remove(domain.AccessTokenKey)
	},
}

var tokenWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the access token whenever another process changes it",
	Long: `Watch the storage of the backend's origin and print the access token each
time it changes, e.g. after a login in another terminal. Stops on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := newDependencies(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		last, _, err := deps.Storage.Get(domain.AccessTokenKey)
		if err != nil {
			return err
		}
		return browser.Watch(cmd.Context(), deps.Storage, func(items map[string]string) {
			token, ok := items[domain.AccessTokenKey]
			if token == last {
				return
			}
			last = token
			if !ok {
				fmt.Fprintln(out, "(cleared)")
				return
			}
			fmt.Fprintln(out, token)
		})
	},
}

func init() {
	tokenCmd.AddCommand(tokenShowCmd, tokenClearCmd, tokenWatchCmd)
	rootCmd.AddCommand(tokenCmd)
}
