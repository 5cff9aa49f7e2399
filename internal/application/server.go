package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/davarch/hudson-remote/internal/domain"
	"go.uber.org/zap"
)

// Server is a handle on one CI server. Its base URL never changes, so every
// entity created through it keeps resolving the same addresses.
type Server struct {
	baseURL string
	fetch   domain.Fetcher
	log     *zap.Logger
}

func NewServer(baseURL string, f domain.Fetcher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{baseURL: trimSlash(baseURL), fetch: f, log: log}
}

func (s *Server) BaseURL() string { return s.baseURL }

func (s *Server) Queue() *BuildQueue { return &BuildQueue{server: s} }

type jobListDTO struct {
	Jobs []struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	} `json:"jobs"`
}

func (s *Server) ListJobs(ctx context.Context) ([]string, error) {
	var doc jobListDTO
	if err := s.getJSON(ctx, JobListURL(s.baseURL), &doc); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Jobs))
	for _, j := range doc.Jobs {
		names = append(names, j.Name)
	}
	return names, nil
}

// ListActiveJobs returns the jobs whose health indicator shows a running build.
func (s *Server) ListActiveJobs(ctx context.Context) ([]string, error) {
	var doc jobListDTO
	if err := s.getJSON(ctx, JobListURL(s.baseURL), &doc); err != nil {
		return nil, err
	}
	names := []string{}
	for _, j := range doc.Jobs {
		if domain.Color(j.Color).Building() {
			names = append(names, j.Name)
		}
	}
	return names, nil
}

// GetJob loads the named job, or returns nil without error when the server
// does not know it.
func (s *Server) GetJob(ctx context.Context, name string) (*Job, error) {
	name = strings.TrimSpace(name)
	names, err := s.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(names, name) {
		return nil, nil
	}
	return s.loadJob(ctx, name)
}

// OpenJob loads the named job, creating it from config first when it does not
// exist yet.
func (s *Server) OpenJob(ctx context.Context, name string, config []byte) (*Job, error) {
	name = strings.TrimSpace(name)
	names, err := s.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	if slices.Contains(names, name) {
		return s.loadJob(ctx, name)
	}
	return s.CreateJob(ctx, name, config)
}

// CreateJob submits a free-style project named name. A nil config uses the
// built-in template.
func (s *Server) CreateJob(ctx context.Context, name string, config []byte) (*Job, error) {
	name = strings.TrimSpace(name)
	if config == nil {
		config = []byte(defaultJobConfig)
	}

	form := url.Values{}
	form.Set("name", name)
	form.Set("mode", "hudson.model.FreeStyleProject")
	form.Set("config", string(config))

	if err := s.createItem(ctx, name, form); err != nil {
		return nil, err
	}

	j, err := s.GetJob(ctx, name)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, name)
	}
	return j, nil
}

func (s *Server) createItem(ctx context.Context, name string, form url.Values) error {
	u := CreateItemURL(s.baseURL)
	resp, err := s.fetch.PostForm(ctx, u, form)
	if err != nil {
		return &domain.TransportError{Op: "post", URL: u, Err: err}
	}
	if !resp.OK() {
		return &domain.CreationError{Name: name, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	s.log.Info("job created", zap.String("job", name), zap.String("mode", form.Get("mode")))
	return nil
}

func (s *Server) loadJob(ctx context.Context, name string) (*Job, error) {
	j := newJob(s, name)
	if err := j.LoadStatus(ctx); err != nil {
		return nil, err
	}
	if err := j.LoadConfig(ctx); err != nil {
		return j, err
	}
	return j, nil
}

func (s *Server) get(ctx context.Context, u string) ([]byte, error) {
	s.log.Debug("fetch", zap.String("url", u))
	b, err := s.fetch.Get(ctx, u)
	if err != nil {
		return nil, &domain.TransportError{Op: "fetch", URL: u, Err: err}
	}
	return b, nil
}

func (s *Server) getJSON(ctx context.Context, u string, v any) error {
	b, err := s.get(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return &domain.TransportError{Op: "parse", URL: u, Err: err}
	}
	return nil
}

// post issues a bodiless form POST and reports the status class.
func (s *Server) post(ctx context.Context, u string, form url.Values) (bool, error) {
	s.log.Debug("post", zap.String("url", u))
	resp, err := s.fetch.PostForm(ctx, u, form)
	if err != nil {
		return false, &domain.TransportError{Op: "post", URL: u, Err: err}
	}
	if !resp.OK() {
		s.log.Warn("post rejected", zap.String("url", u), zap.Int("status", resp.StatusCode))
	}
	return resp.OK(), nil
}
