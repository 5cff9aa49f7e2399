package cli

import (
	"context"

	"github.com/davarch/hudson-remote/internal/application"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:               "enable <job>",
	Short:             "Enable a job on the server",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJob(cmd, args[0], func(ctx context.Context, e *env, j *application.Job) error {
			ok, err := j.Enable(ctx)
			if err != nil {
				return err
			}
			return report(ok, "enabled", j.Name())
		})
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
}
