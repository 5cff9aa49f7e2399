package application

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	log       *zap.Logger
	use       *PollUseCase
	every     time.Duration
	pauseFile string

	mu   sync.RWMutex
	jobs []string
}

func NewScheduler(l *zap.Logger, u *PollUseCase, jobs []string, every time.Duration, pauseFile string) *Scheduler {
	return &Scheduler{
		log: l, use: u, jobs: jobs, every: every, pauseFile: pauseFile,
	}
}

func (s *Scheduler) UpdateJobs(jobs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = jobs
	s.log.Info("config reloaded", zap.Int("jobs", len(jobs)))
}

func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.jobs))
	copy(out, s.jobs)
	return out
}

func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.every)
	defer t.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.isPaused() {
		s.log.Debug("paused: skipping poll")
		return
	}
	s.runAll(ctx)
}

func (s *Scheduler) isPaused() bool {
	if s.pauseFile == "" {
		return false
	}
	_, err := os.Stat(s.pauseFile)
	return err == nil
}

func (s *Scheduler) runAll(ctx context.Context) {
	for _, name := range s.Jobs() {
		if err := s.use.PollOnce(ctx, name); err != nil {
			s.log.Warn("poll failed",
				zap.String("job", name),
				zap.Error(err),
			)
		}
	}
}
