package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/davarch/hudson-remote/internal/application"
	"github.com/spf13/cobra"
)

var (
	createFile string
	buildWait  bool
	wipeEvery  time.Duration
)

var createCmd = &cobra.Command{
	Use:   "create <job>",
	Short: "Create a free-style job, from --file or the built-in template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var config []byte
		if createFile != "" {
			b, err := os.ReadFile(createFile)
			if err != nil {
				return err
			}
			config = b
		}

		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()

		j, err := e.server.OpenJob(cmd.Context(), args[0], config)
		if err != nil {
			return err
		}
		fmt.Printf("job: %s (%s)\n", j.Name(), j.URL())
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:               "copy <job> [new-name]",
	Short:             "Copy a job; the copy defaults to copy_of_<job>",
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		newName := ""
		if len(args) == 2 {
			newName = args[1]
		}
		return withJob(cmd, args[0], func(ctx context.Context, e *env, j *application.Job) error {
			c, err := j.Copy(ctx, newName)
			if err != nil {
				return err
			}
			fmt.Printf("copied: %s -> %s\n", j.Name(), c.Name())
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:               "delete <job>",
	Short:             "Delete a job from the server",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJob(cmd, args[0], func(ctx context.Context, e *env, j *application.Job) error {
			ok, err := j.Delete(ctx)
			if err != nil {
				return err
			}
			return report(ok, "deleted", j.Name())
		})
	},
}

var buildCmd = &cobra.Command{
	Use:               "build <job>",
	Short:             "Start a build",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJob(cmd, args[0], func(ctx context.Context, e *env, j *application.Job) error {
			ok, err := j.Build(ctx)
			if err != nil {
				return err
			}
			if err := report(ok, "triggered", j.Name()); err != nil || !buildWait {
				return err
			}
			return waitAndReport(ctx, e, j)
		})
	},
}

var wipeCmd = &cobra.Command{
	Use:               "wipe <job>",
	Short:             "Wait for running builds, then wipe the job's workspace",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJob(cmd, args[0], func(ctx context.Context, e *env, j *application.Job) error {
			every := wipeEvery
			if every <= 0 {
				every = e.cfg.Poll.Interval
			}
			ok, err := j.WipeOutWorkspace(ctx, every)
			if err != nil {
				return err
			}
			return report(ok, "wiped", j.Name())
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&createFile, "file", "", "config.xml to create the job from")
	buildCmd.Flags().BoolVar(&buildWait, "wait", false, "wait for the build to finish")
	addWaitFlags(buildCmd)
	wipeCmd.Flags().DurationVar(&wipeEvery, "every", 0, "poll interval (default: poll.interval)")

	rootCmd.AddCommand(createCmd, copyCmd, deleteCmd, buildCmd, wipeCmd)
}
