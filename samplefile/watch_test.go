package samplefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func nextUpdate(t *testing.T, w *Watcher) Update {
	t.Helper()
	select {
	case u, ok := <-w.Updates():
		require.True(t, ok, "updates closed early")
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func TestWatcherReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeFile(t, t.TempDir(), "samples.json", []byte(`[{"value": 10}]`))
	w, err := NewWatcher(path, Options{}, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	u := nextUpdate(t, w)
	require.NoError(t, u.Err)
	assert.Len(t, u.Samples, 1)

	require.NoError(t, os.WriteFile(path, []byte(`[{"value": 10}, {"value": 90}]`), 0o644))
	for {
		u = nextUpdate(t, w)
		// A write may land in two events; wait for the complete file.
		if u.Err == nil && len(u.Samples) == 2 {
			break
		}
	}

	require.NoError(t, w.Close())
	for range w.Updates() {
	}
}

func TestWatcherReportsParseErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeFile(t, t.TempDir(), "samples.csv", []byte("value\n500\n"))
	w, err := NewWatcher(path, Options{}, 0)
	require.NoError(t, err)
	defer w.Close()

	w.Start(context.Background())
	u := nextUpdate(t, w)
	assert.Error(t, u.Err)
	assert.Empty(t, u.Samples)
}

func TestWatcherStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeFile(t, t.TempDir(), "samples.json", []byte(`[]`))
	w, err := NewWatcher(path, Options{}, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	nextUpdate(t, w)
	cancel()

	for range w.Updates() {
	}
	require.NoError(t, w.Close())
}

func TestWatcherCloseWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeFile(t, t.TempDir(), "samples.json", []byte(`[]`))
	w, err := NewWatcher(path, Options{}, 0)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "samples.json"), Options{}, 0)
	assert.Error(t, err)
}
