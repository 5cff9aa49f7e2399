package application

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/davarch/hudson-remote/internal/domain"
	"go.uber.org/zap"
)

// JobStatus holds the read-only attributes of a job's status document.
// Fields the server omitted stay unset.
type JobStatus struct {
	Color                 domain.Optional[domain.Color]
	LastBuild             domain.Optional[int]
	LastCompletedBuild    domain.Optional[int]
	LastFailedBuild       domain.Optional[int]
	LastStableBuild       domain.Optional[int]
	LastSuccessfulBuild   domain.Optional[int]
	LastUnsuccessfulBuild domain.Optional[int]
	NextBuildNumber       domain.Optional[int]
}

type buildRefDTO struct {
	Number int `json:"number"`
}

type jobStatusDTO struct {
	Color                 *string      `json:"color"`
	LastBuild             *buildRefDTO `json:"lastBuild"`
	LastCompletedBuild    *buildRefDTO `json:"lastCompletedBuild"`
	LastFailedBuild       *buildRefDTO `json:"lastFailedBuild"`
	LastStableBuild       *buildRefDTO `json:"lastStableBuild"`
	LastSuccessfulBuild   *buildRefDTO `json:"lastSuccessfulBuild"`
	LastUnsuccessfulBuild *buildRefDTO `json:"lastUnsuccessfulBuild"`
	NextBuildNumber       *int         `json:"nextBuildNumber"`
}

func (d jobStatusDTO) status() JobStatus {
	st := JobStatus{
		LastBuild:             buildNumber(d.LastBuild),
		LastCompletedBuild:    buildNumber(d.LastCompletedBuild),
		LastFailedBuild:       buildNumber(d.LastFailedBuild),
		LastStableBuild:       buildNumber(d.LastStableBuild),
		LastSuccessfulBuild:   buildNumber(d.LastSuccessfulBuild),
		LastUnsuccessfulBuild: buildNumber(d.LastUnsuccessfulBuild),
	}
	if d.Color != nil {
		st.Color = domain.Some(domain.Color(*d.Color))
	}
	if d.NextBuildNumber != nil {
		st.NextBuildNumber = domain.Some(*d.NextBuildNumber)
	}
	return st
}

func buildNumber(ref *buildRefDTO) domain.Optional[int] {
	if ref == nil {
		return domain.None[int]()
	}
	return domain.Some(ref.Number)
}

// Job is one named job on a server. It is not safe for concurrent use.
type Job struct {
	server    *Server
	name      string
	endpoints Endpoints
	log       *zap.Logger

	status JobStatus
	config *jobConfig

	repositoryURL             domain.Optional[string]
	repositoryURLs            []string
	repositoryBrowserLocation domain.Optional[string]
	description               domain.Optional[string]
}

func newJob(s *Server, name string) *Job {
	name = strings.TrimSpace(name)
	return &Job{
		server:    s,
		name:      name,
		endpoints: JobEndpoints(s.baseURL, name),
		log:       s.log.With(zap.String("job", name)),
	}
}

func (j *Job) Name() string             { return j.name }
func (j *Job) Endpoints() Endpoints     { return j.endpoints }
func (j *Job) Status() JobStatus        { return j.status }
func (j *Job) ConfigLoaded() bool       { return j.config != nil }
func (j *Job) URL() string              { return strings.TrimSuffix(j.endpoints.Status, "/api/json") }
func (j *Job) Server() *Server          { return j.server }
func (j *Job) RepositoryURLs() []string { return slices.Clone(j.repositoryURLs) }

func (j *Job) RepositoryURL() domain.Optional[string] { return j.repositoryURL }

func (j *Job) RepositoryBrowserLocation() domain.Optional[string] {
	return j.repositoryBrowserLocation
}

func (j *Job) Description() domain.Optional[string] { return j.description }

// Config returns the textual config document, empty before LoadConfig.
func (j *Job) Config() string {
	if j.config == nil {
		return ""
	}
	return j.config.text
}

func (j *Job) LoadStatus(ctx context.Context) error {
	var doc jobStatusDTO
	if err := j.server.getJSON(ctx, j.endpoints.Status, &doc); err != nil {
		return err
	}
	j.status = doc.status()
	return nil
}

func (j *Job) LoadConfig(ctx context.Context) error {
	raw, err := j.server.get(ctx, j.endpoints.Config)
	if err != nil {
		return err
	}
	cfg, err := parseJobConfig(raw)
	if err != nil {
		return &domain.TransportError{Op: "parse", URL: j.endpoints.Config, Err: err}
	}
	j.adoptConfig(cfg)
	return nil
}

func (j *Job) adoptConfig(cfg *jobConfig) {
	j.config = cfg
	j.repositoryURL = cfg.repositoryURL()
	j.repositoryURLs = cfg.repositoryURLs()
	j.repositoryBrowserLocation = cfg.textAt(browserLocationPath)
	j.description = cfg.textAt(descriptionPath)
}

func (j *Job) Active(ctx context.Context) (bool, error) {
	active, err := j.server.ListActiveJobs(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(active, j.name), nil
}

// State reports whether the job is building, waiting in the queue, or idle.
func (j *Job) State(ctx context.Context) (domain.JobState, error) {
	active, err := j.Active(ctx)
	if err != nil {
		return domain.StateIdle, err
	}
	if active {
		return domain.StateActive, nil
	}
	queued, err := j.server.Queue().Contains(ctx, j.name)
	if err != nil {
		return domain.StateIdle, err
	}
	if queued {
		return domain.StateQueued, nil
	}
	return domain.StateIdle, nil
}

func (j *Job) SetRepositoryURL(ctx context.Context, v string) (bool, error) {
	if !j.edit("repository_url", func(c *jobConfig) bool { return c.setText(remotePath, v) }) {
		return false, nil
	}
	j.repositoryURL = j.config.repositoryURL()
	j.repositoryURLs = j.config.repositoryURLs()
	return j.Update(ctx)
}

func (j *Job) SetRepositoryURLs(ctx context.Context, urls []string) (bool, error) {
	if !j.edit("repository_urls", func(c *jobConfig) bool { return c.setRepositoryURLs(urls) }) {
		return false, nil
	}
	j.repositoryURL = j.config.repositoryURL()
	j.repositoryURLs = j.config.repositoryURLs()
	return j.Update(ctx)
}

func (j *Job) SetRepositoryBrowserLocation(ctx context.Context, v string) (bool, error) {
	if !j.edit("repository_browser_location", func(c *jobConfig) bool { return c.setText(browserLocationPath, v) }) {
		return false, nil
	}
	j.repositoryBrowserLocation = domain.Some(v)
	return j.Update(ctx)
}

func (j *Job) SetDescription(ctx context.Context, v string) (bool, error) {
	if !j.edit("description", func(c *jobConfig) bool { return c.setText(descriptionPath, v) }) {
		return false, nil
	}
	j.description = domain.Some(v)
	return j.Update(ctx)
}

// edit applies fn to the loaded document and re-serializes it. It refuses
// when no config is loaded or fn finds nothing to change.
func (j *Job) edit(field string, fn func(c *jobConfig) bool) bool {
	if j.config == nil {
		j.log.Warn("config not loaded, refusing write", zap.String("field", field))
		return false
	}
	if !fn(j.config) {
		j.log.Warn("field not present in config, refusing write", zap.String("field", field))
		return false
	}
	if err := j.config.serialize(); err != nil {
		j.log.Error("serialize config", zap.String("field", field), zap.Error(err))
		return false
	}
	return true
}

// Update posts the whole current config document back to the server.
func (j *Job) Update(ctx context.Context) (bool, error) {
	if j.config == nil {
		return false, nil
	}
	u := j.endpoints.Config
	resp, err := j.server.fetch.PostXML(ctx, u, []byte(j.config.text))
	if err != nil {
		return false, &domain.TransportError{Op: "post", URL: u, Err: err}
	}
	if !resp.OK() {
		j.log.Warn("config update rejected", zap.Int("status", resp.StatusCode))
	}
	return resp.OK(), nil
}

// UpdateConfig replaces the owned document with raw and posts it.
func (j *Job) UpdateConfig(ctx context.Context, raw []byte) (bool, error) {
	cfg, err := parseJobConfig(raw)
	if err != nil {
		return false, fmt.Errorf("invalid config for %s: %w", j.name, err)
	}
	j.adoptConfig(cfg)
	return j.Update(ctx)
}

// Build queues a build; parameterized jobs are not supported.
func (j *Job) Build(ctx context.Context) (bool, error) {
	return j.server.post(ctx, j.endpoints.Build, url.Values{"delay": {"0sec"}})
}

func (j *Job) Enable(ctx context.Context) (bool, error) {
	return j.server.post(ctx, j.endpoints.Enable, nil)
}

func (j *Job) Disable(ctx context.Context) (bool, error) {
	return j.server.post(ctx, j.endpoints.Disable, nil)
}

// Delete removes the job upstream. j must not be used afterwards.
func (j *Job) Delete(ctx context.Context) (bool, error) {
	return j.server.post(ctx, j.endpoints.Delete, nil)
}

// Copy creates newName from this job and returns it loaded. An empty newName
// becomes copy_of_<name>.
func (j *Job) Copy(ctx context.Context, newName string) (*Job, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		newName = "copy_of_" + j.name
	}

	form := url.Values{}
	form.Set("name", newName)
	form.Set("mode", "copy")
	form.Set("from", j.name)

	if err := j.server.createItem(ctx, newName, form); err != nil {
		return nil, err
	}
	return j.server.loadJob(ctx, newName)
}
