package application

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/davarch/hudson-remote/internal/domain"
	"go.uber.org/zap"
)

const DefaultPollInterval = 10 * time.Second

type stillBusyError struct {
	state domain.JobState
}

func (e *stillBusyError) Error() string { return "job is " + e.state.String() }

// WaitForBuildToFinish blocks until the job is neither building nor queued.
// Every check is preceded by a sleep of every, so a build queued right before
// the call is not missed. Cancelling ctx or passing its deadline yields a
// *domain.TimeoutError; failing to read server state ends the wait at once.
func (j *Job) WaitForBuildToFinish(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = DefaultPollInterval
	}

	state := domain.StateActive
	op := func() error {
		st, err := j.State(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			return backoff.Permanent(err)
		}
		state = st
		if st != domain.StateIdle {
			return &stillBusyError{state: st}
		}
		return nil
	}
	notify := func(err error, next time.Duration) {
		j.log.Info("waiting for builds to finish",
			zap.Stringer("state", state),
			zap.Duration("next", next),
		)
	}

	timer := time.NewTimer(every)
	select {
	case <-ctx.Done():
		timer.Stop()
		return &domain.TimeoutError{Job: j.name, State: state, Err: ctx.Err()}
	case <-timer.C:
	}

	bo := backoff.WithContext(backoff.NewConstantBackOff(every), ctx)
	err := backoff.RetryNotify(op, bo, notify)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return &domain.TimeoutError{Job: j.name, State: state, Err: ctx.Err()}
	}
	return err
}

// WipeOutWorkspace waits for running and queued builds, then wipes the
// workspace. It reports false without wiping when a build started again in
// between.
func (j *Job) WipeOutWorkspace(ctx context.Context, every time.Duration) (bool, error) {
	if err := j.WaitForBuildToFinish(ctx, every); err != nil {
		return false, err
	}
	active, err := j.Active(ctx)
	if err != nil {
		return false, err
	}
	if active {
		j.log.Warn("build restarted, workspace not wiped")
		return false, nil
	}
	return j.server.post(ctx, j.endpoints.WipeWorkspace, nil)
}
