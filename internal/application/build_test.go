package application

import (
	"context"
	"errors"
	"testing"

	"github.com/davarch/hudson-remote/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedJob(t *testing.T, s *Server, f *domain.MockFetcher, status string) *Job {
	t.Helper()
	f.Serve(JobEndpoints(testBase, "foo").Status, status)
	j := newJob(s, "foo")
	require.NoError(t, j.LoadStatus(context.Background()))
	return j
}

func TestLoadBuild_ExplicitNumber(t *testing.T) {
	s, f := newTestServer(t)
	j := loadedJob(t, s, f, `{"lastBuild":{"number":9}}`)
	f.Serve(BuildStatusURL(testBase, "foo", 7), `{"result":"FAILURE","changeSet":{"items":[
		{"module":"trunk/app","revision":1234},
		{"module":"trunk/lib","revision":"abc123"}
	]}}`)
	f.Serve(BuildStatusURL(testBase, "foo", 9), `{"result":"SUCCESS"}`)

	b, err := s.LoadBuild(context.Background(), j, domain.Some(7))
	require.NoError(t, err)

	assert.Equal(t, "foo", b.JobName())
	assert.Equal(t, 7, b.Number())
	assert.Equal(t, domain.Some(domain.ResultFailure), b.Result())
	assert.Equal(t, map[string]string{"trunk/app": "1234", "trunk/lib": "abc123"}, b.Revisions())
	assert.Equal(t, "http://ci/job/foo/7/", b.URL())
}

func TestLoadBuild_DefaultsToLastBuild(t *testing.T) {
	s, f := newTestServer(t)
	j := loadedJob(t, s, f, `{"lastBuild":{"number":9}}`)
	f.Serve(BuildStatusURL(testBase, "foo", 9), `{"result":null}`)

	b, err := s.LoadBuild(context.Background(), j, domain.None[int]())
	require.NoError(t, err)
	assert.Equal(t, 9, b.Number())
	assert.False(t, b.Result().IsSet(), "running builds have no result")
	assert.Empty(t, b.Revisions())
}

func TestLoadBuild_NoBuilds(t *testing.T) {
	s, f := newTestServer(t)
	j := loadedJob(t, s, f, `{"nextBuildNumber":1}`)

	_, err := s.LoadBuild(context.Background(), j, domain.None[int]())
	assert.ErrorIs(t, err, domain.ErrNoBuilds)
}

func TestLoadBuild_ItemWithoutRevisionFails(t *testing.T) {
	s, f := newTestServer(t)
	j := loadedJob(t, s, f, `{}`)
	f.Serve(BuildStatusURL(testBase, "foo", 3), `{"result":"SUCCESS","changeSet":{"items":[{"module":"trunk"}]}}`)

	_, err := s.LoadBuild(context.Background(), j, domain.Some(3))
	assert.ErrorIs(t, err, domain.ErrChangeSetRevision)
	var te *domain.TransportError
	assert.True(t, errors.As(err, &te))
}

func TestLoadBuild_Snapshot(t *testing.T) {
	s, f := newTestServer(t)
	j := loadedJob(t, s, f, `{}`)
	u := BuildStatusURL(testBase, "foo", 3)
	f.Serve(u, `{"result":null}`, `{"result":"SUCCESS"}`)

	b, err := s.LoadBuild(context.Background(), j, domain.Some(3))
	require.NoError(t, err)
	assert.False(t, b.Result().IsSet())

	later, err := s.LoadBuild(context.Background(), j, domain.Some(3))
	require.NoError(t, err)
	assert.Equal(t, domain.Some(domain.ResultSuccess), later.Result())
	assert.False(t, b.Result().IsSet())
}
