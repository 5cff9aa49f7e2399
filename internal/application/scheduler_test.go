package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davarch/hudson-remote/internal/domain"
	"go.uber.org/zap"
)

func TestScheduler_PauseFileSkipsPoll(t *testing.T) {
	s, f := newTestServer(t)
	pause := filepath.Join(t.TempDir(), "paused")
	if err := os.WriteFile(pause, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	uc := NewPollUseCase(s, &domain.MockNotifier{}, &domain.MockCache{})
	sched := NewScheduler(zap.NewNop(), uc, []string{"foo"}, time.Hour, pause)
	sched.tick(context.Background())

	if len(f.Gets) != 0 {
		t.Errorf("expected no requests while paused, got %v", f.Gets)
	}
}

func TestScheduler_RunPollsEveryJob(t *testing.T) {
	s, f := newTestServer(t)
	f.Serve(JobEndpoints(testBase, "a").Status, `{}`)
	f.Serve(JobEndpoints(testBase, "b").Status, `{}`)

	uc := NewPollUseCase(s, &domain.MockNotifier{}, &domain.MockCache{})
	sched := NewScheduler(zap.NewNop(), uc, []string{"a"}, time.Hour, "")
	sched.UpdateJobs([]string{"a", "b"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sched.Run(ctx)

	if len(f.Gets) != 2 {
		t.Errorf("expected one status fetch per job, got %v", f.Gets)
	}
}
