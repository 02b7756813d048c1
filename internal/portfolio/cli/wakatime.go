package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWakaTimeCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wakatime",
		Short: "Manage the WakaTime OAuth token",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "authorize-url",
			Short: "Print a consent URL to open in a browser",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				resp, err := opts.client().WakaTimeAuthorizeURL(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show token and backoff state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				status, err := opts.client().WakaTimeStatus(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), status)
			},
		},
		&cobra.Command{
			Use:   "refresh",
			Short: "Force a token refresh",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				status, err := opts.client().WakaTimeRefresh(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), status)
			},
		},
		&cobra.Command{
			Use:   "revoke",
			Short: "Revoke the token upstream and forget it",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := opts.client().WakaTimeRevoke(cmd.Context()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "revoked")
				return err
			},
		},
	)

	return cmd
}
