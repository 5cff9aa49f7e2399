package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/davarch/hudson-remote/internal/application"
	"github.com/davarch/hudson-remote/internal/infrastructure/watch_fs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pushFile  string
	pushWatch bool
)

var pushCmd = &cobra.Command{
	Use:               "push-config <job> --file config.xml",
	Short:             "Replace a job's config.xml, optionally again on every change to the file",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pushFile == "" {
			return errors.New("--file is required")
		}
		return withJob(cmd, args[0], func(ctx context.Context, e *env, j *application.Job) error {
			if err := pushOnce(ctx, j); err != nil {
				return err
			}
			if !pushWatch {
				return nil
			}

			err := watch_fs.Watch(ctx, pushFile, watch_fs.DefaultDelay, e.log, func() {
				if err := pushOnce(ctx, j); err != nil {
					e.log.Warn("push failed", zap.String("job", j.Name()), zap.Error(err))
				}
			})
			if err != nil {
				return err
			}
			e.log.Info("watching", zap.String("file", pushFile), zap.String("job", j.Name()))
			<-ctx.Done()
			return nil
		})
	},
}

func pushOnce(ctx context.Context, j *application.Job) error {
	raw, err := os.ReadFile(pushFile)
	if err != nil {
		return err
	}
	ok, err := j.UpdateConfig(ctx, raw)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("push %s: rejected by server", j.Name())
	}
	fmt.Printf("pushed: %s\n", j.Name())
	return nil
}

func init() {
	pushCmd.Flags().StringVarP(&pushFile, "file", "f", "", "config.xml to upload")
	pushCmd.Flags().BoolVarP(&pushWatch, "watch", "w", false, "keep running and push on every change")

	rootCmd.AddCommand(pushCmd)
}
