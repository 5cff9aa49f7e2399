package watch_fs

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatch_FiresOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.xml")
	require.NoError(t, os.WriteFile(path, []byte("<project/>"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 8)
	require.NoError(t, Watch(ctx, path, 20*time.Millisecond, zap.NewNop(), func() { fired <- struct{}{} }))

	require.NoError(t, os.WriteFile(path, []byte("<project><description/></project>"), 0o644))

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire")
	}
}

func TestWatch_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.xml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 8)
	require.NoError(t, Watch(ctx, path, 10*time.Millisecond, zap.NewNop(), func() { fired <- struct{}{} }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.xml"), []byte("x"), 0o644))

	select {
	case <-fired:
		t.Fatal("watcher fired for another file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_MissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "config.xml"), time.Millisecond, zap.NewNop(), func() {})
	require.Error(t, err)
}

func TestWatch_FireNeverOverlaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.xml")
	require.NoError(t, os.WriteFile(path, []byte("<project/>"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var running, overlaps, calls atomic.Int32
	fired := make(chan struct{}, 16)
	require.NoError(t, Watch(ctx, path, 5*time.Millisecond, zap.NewNop(), func() {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		calls.Add(1)
		time.Sleep(100 * time.Millisecond)
		running.Add(-1)
		fired <- struct{}{}
	}))

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("<project/>"), 0o644))
		time.Sleep(30 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire")
	}
	time.Sleep(300 * time.Millisecond)

	require.GreaterOrEqual(t, calls.Load(), int32(1))
	require.Zero(t, overlaps.Load())
}
