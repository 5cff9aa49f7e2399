package application

import (
	"context"
	"strconv"
	"time"

	"github.com/davarch/hudson-remote/internal/domain"
	"go.uber.org/zap"
)

// PollUseCase reports each newly completed build of the jobs it is asked
// about, through the status cache and the notifier.
type PollUseCase struct {
	server *Server
	note   domain.Notifier
	cache  domain.StatusCache

	last map[string]int
}

func NewPollUseCase(s *Server, note domain.Notifier, cache domain.StatusCache) *PollUseCase {
	return &PollUseCase{
		server: s, note: note, cache: cache,
		last: make(map[string]int),
	}
}

func (uc *PollUseCase) PollOnce(ctx context.Context, name string) error {
	job := newJob(uc.server, name)
	if err := job.LoadStatus(ctx); err != nil {
		return err
	}

	n, ok := job.Status().LastCompletedBuild.Get()
	if !ok {
		return nil
	}

	prev, seen := uc.last[job.Name()]
	if seen && prev == n {
		return nil
	}

	if err := uc.Report(ctx, job, domain.Some(n)); err != nil {
		return err
	}
	uc.last[job.Name()] = n
	return nil
}

// Report loads the given build (the last one when unset) and publishes it.
func (uc *PollUseCase) Report(ctx context.Context, job *Job, number domain.Optional[int]) error {
	b, err := uc.server.LoadBuild(ctx, job, number)
	if err != nil {
		return err
	}

	log := uc.server.log.With(zap.String("job", job.Name()), zap.Int("build", b.Number()))

	result := b.Result().OrElse("")
	err = uc.cache.Write(ctx, domain.Snapshot{
		Job:       job.Name(),
		Build:     b.Number(),
		Result:    result,
		Color:     job.Status().Color.OrElse(""),
		URL:       b.URL(),
		Retrieved: time.Now().Unix(),
	})
	if err != nil {
		log.Warn("status cache write failed", zap.Error(err))
	}

	body := job.Name() + " #" + strconv.Itoa(b.Number())
	if err := uc.note.Notify(ctx, titleFor(result), body, b.URL()); err != nil {
		log.Warn("notify failed", zap.Error(err))
	}
	return nil
}

func titleFor(r domain.BuildResult) string {
	switch r {
	case domain.ResultSuccess:
		return "✅ CI: success"
	case domain.ResultFailure:
		return "❌ CI: failed"
	case domain.ResultUnstable:
		return "⚠️ CI: unstable"
	case domain.ResultAborted:
		return "⛔ CI: aborted"
	case "":
		return "▶️ CI: running"
	default:
		return "ℹ️ CI: " + string(r)
	}
}
