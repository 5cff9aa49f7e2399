package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueue_Empty(t *testing.T) {
	s, f := newTestServer(t)
	f.Serve(QueueURL(testBase), `{"items":[]}`)

	names, err := s.Queue().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestBuildQueue_PreservesOrder(t *testing.T) {
	s, f := newTestServer(t)
	f.Serve(QueueURL(testBase), `{"items":[{"task":{"name":"b"}},{"task":{"name":"a"}},{"task":{"name":"c"}}]}`)

	names, err := s.Queue().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, names)
}

func TestBuildQueue_NotCached(t *testing.T) {
	s, f := newTestServer(t)
	f.Serve(QueueURL(testBase), `{"items":[{"task":{"name":"a"}}]}`, `{"items":[]}`)
	q := s.Queue()

	in, err := q.Contains(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, in)

	in, err = q.Contains(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, in)
}

func TestBuildQueue_FetchError(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := s.Queue().List(context.Background())
	assert.Error(t, err)
}
