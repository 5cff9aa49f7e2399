package application

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/davarch/hudson-remote/internal/domain"
)

// Build is a snapshot of one build of one job. It never refreshes; load a
// new Build to observe later state.
type Build struct {
	jobName   string
	number    int
	url       string
	result    domain.Optional[domain.BuildResult]
	revisions map[string]string
}

type buildDTO struct {
	Result    *string `json:"result"`
	ChangeSet *struct {
		Items []changeSetItemDTO `json:"items"`
	} `json:"changeSet"`
}

type changeSetItemDTO struct {
	Module   string          `json:"module"`
	Revision json.RawMessage `json:"revision"`
}

// LoadBuild fetches build number of job. Without a number it uses the job's
// last build as of its most recent LoadStatus.
func (s *Server) LoadBuild(ctx context.Context, job *Job, number domain.Optional[int]) (*Build, error) {
	n, ok := number.Get()
	if !ok {
		n, ok = job.Status().LastBuild.Get()
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoBuilds, job.Name())
		}
	}

	u := BuildStatusURL(s.baseURL, job.Name(), n)
	var doc buildDTO
	if err := s.getJSON(ctx, u, &doc); err != nil {
		return nil, err
	}

	b := &Build{
		jobName:   job.Name(),
		number:    n,
		url:       strings.TrimSuffix(u, "api/json"),
		revisions: map[string]string{},
	}
	if doc.Result != nil {
		b.result = domain.Some(domain.BuildResult(*doc.Result))
	}
	if doc.ChangeSet != nil {
		for _, item := range doc.ChangeSet.Items {
			rev, err := item.revision()
			if err != nil {
				return nil, &domain.TransportError{Op: "parse", URL: u, Err: err}
			}
			b.revisions[item.Module] = rev
		}
	}
	return b, nil
}

// revision accepts string and numeric revisions and rejects items that carry
// none.
func (i changeSetItemDTO) revision() (string, error) {
	raw := strings.TrimSpace(string(i.Revision))
	if raw == "" || raw == "null" {
		return "", fmt.Errorf("%w: module %q", domain.ErrChangeSetRevision, i.Module)
	}
	var s string
	if err := json.Unmarshal(i.Revision, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(i.Revision, &n); err != nil {
		return "", fmt.Errorf("%w: module %q: %v", domain.ErrChangeSetRevision, i.Module, err)
	}
	return n.String(), nil
}

func (b *Build) JobName() string { return b.jobName }

func (b *Build) Number() int { return b.number }

func (b *Build) URL() string { return b.url }

// Result is unset while the build is still running.
func (b *Build) Result() domain.Optional[domain.BuildResult] { return b.result }

func (b *Build) Revisions() map[string]string { return maps.Clone(b.revisions) }
