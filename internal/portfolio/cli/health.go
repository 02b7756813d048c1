package cli

import (
	"github.com/spf13/cobra"

	"github.com/subham12r/portfolio/pkg/portfoliosdk"
)

type healthReport struct {
	Liveness  *portfoliosdk.HealthResponse `json:"liveness"`
	Readiness *portfoliosdk.HealthResponse `json:"readiness,omitempty"`
	Error     string                       `json:"error,omitempty"`
}

func newHealthCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check liveness and readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := opts.client()

			live, err := client.GetLiveness(cmd.Context())
			if err != nil {
				return err
			}

			report := healthReport{Liveness: live}
			ready, readyErr := client.GetReadiness(cmd.Context())
			if readyErr != nil {
				report.Error = readyErr.Error()
			} else {
				report.Readiness = ready
			}

			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			return readyErr
		},
	}
}
