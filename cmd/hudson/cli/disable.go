package cli

import (
	"context"

	"github.com/davarch/hudson-remote/internal/application"
	"github.com/spf13/cobra"
)

var disableCmd = &cobra.Command{
	Use:   "disable <job>",
	Short: "Disable a job on the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJob(cmd, args[0], func(ctx context.Context, e *env, j *application.Job) error {
			ok, err := j.Disable(ctx)
			if err != nil {
				return err
			}
			return report(ok, "disabled", j.Name())
		})
	},
}

func init() {
	disableCmd.ValidArgsFunction = enableCmd.ValidArgsFunction

	rootCmd.AddCommand(disableCmd)
}
