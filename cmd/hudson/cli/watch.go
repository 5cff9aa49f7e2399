package cli

import (
	"errors"

	"github.com/davarch/hudson-remote/internal/application"
	"github.com/davarch/hudson-remote/internal/infrastructure/cache_fs"
	"github.com/davarch/hudson-remote/internal/infrastructure/config"
	"github.com/davarch/hudson-remote/internal/infrastructure/notify_libnotify"
	"github.com/davarch/hudson-remote/internal/infrastructure/watch_fs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll tracked jobs and notify when a build completes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()

		jobs := e.cfg.EnabledJobs()
		if len(jobs) == 0 {
			return errors.New("no tracked jobs; see `hudson track`")
		}

		uc := application.NewPollUseCase(e.server, notify_libnotify.NewSoft(), cache_fs.New(e.cfg.Cache.Path))
		sched := application.NewScheduler(e.log, uc, jobs, e.cfg.Poll.Interval, e.cfg.Poll.PauseFile)

		ctx := cmd.Context()
		if cfgPath != "" {
			err := watch_fs.Watch(ctx, cfgPath, watch_fs.DefaultDelay, e.log, func() {
				cfg, err := config.Load(cfgPath)
				if err != nil {
					e.log.Warn("config reload failed", zap.Error(err))
					return
				}
				jobs := cfg.EnabledJobs()
				if len(jobs) == 0 {
					e.log.Warn("config reload: no tracked jobs")
				}
				sched.UpdateJobs(jobs)
			})
			if err != nil {
				e.log.Warn("config watch disabled", zap.Error(err))
			}
		}

		e.log.Info("start",
			zap.String("version", version),
			zap.Int("jobs", len(jobs)),
			zap.Duration("every", e.cfg.Poll.Interval),
			zap.String("cache", e.cfg.Cache.Path),
			zap.String("hudson", e.server.BaseURL()),
			zap.String("pause_file", e.cfg.Poll.PauseFile),
		)
		sched.Run(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
