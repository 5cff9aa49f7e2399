package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davarch/hudson-remote/internal/application"
	"github.com/davarch/hudson-remote/internal/domain"
	"github.com/davarch/hudson-remote/internal/infrastructure/cache_fs"
	"github.com/davarch/hudson-remote/internal/infrastructure/notify_libnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	waitEvery   time.Duration
	waitTimeout time.Duration
	waitNotify  bool
)

var waitCmd = &cobra.Command{
	Use:               "wait <job>",
	Short:             "Block until the job is neither building nor queued",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJob(cmd, args[0], waitAndReport)
	},
}

func addWaitFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&waitEvery, "every", 0, "poll interval (default: poll.interval)")
	cmd.Flags().DurationVar(&waitTimeout, "timeout", 0, "give up after this long (default: poll.timeout, 0 waits forever)")
	cmd.Flags().BoolVar(&waitNotify, "notify", false, "send a desktop notification and update the status cache when done")
}

func waitAndReport(ctx context.Context, e *env, j *application.Job) error {
	every := waitEvery
	if every <= 0 {
		every = e.cfg.Poll.Interval
	}
	timeout := waitTimeout
	if timeout <= 0 {
		timeout = e.cfg.Poll.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	e.log.Info("waiting", zap.String("job", j.Name()), zap.Duration("every", every), zap.Duration("timeout", timeout))
	if err := j.WaitForBuildToFinish(ctx, every); err != nil {
		return err
	}

	if err := j.LoadStatus(ctx); err != nil {
		return err
	}
	b, err := e.server.LoadBuild(ctx, j, domain.None[int]())
	if errors.Is(err, domain.ErrNoBuilds) {
		fmt.Printf("%s: idle, no builds yet\n", j.Name())
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s #%d: %s\n", j.Name(), b.Number(), b.Result().OrElse("unknown"))

	if !waitNotify {
		return nil
	}
	uc := application.NewPollUseCase(e.server, notify_libnotify.NewSoft(), cache_fs.New(e.cfg.Cache.Path))
	return uc.Report(ctx, j, domain.Some(b.Number()))
}

func init() {
	addWaitFlags(waitCmd)
	rootCmd.AddCommand(waitCmd)
}
