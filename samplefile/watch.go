package samplefile

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/axiomhq/constellation"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DefaultDebounce coalesces bursts of writes from editors and rsync.
const DefaultDebounce = 250 * time.Millisecond

// Update is the result of one reload.
type Update struct {
	Samples []constellation.Sample
	Err     error
}

// Watcher reloads a sample file whenever it changes.
type Watcher struct {
	path     string
	opts     Options
	debounce time.Duration
	watcher  *fsnotify.Watcher
	updates  chan Update

	startOnce sync.Once
	closeOnce sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewWatcher watches path. The parent directory is watched so that files
// replaced by rename are picked up. A debounce of zero uses DefaultDebounce.
func NewWatcher(path string, opts Options, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     abs,
		opts:     opts,
		debounce: debounce,
		watcher:  fw,
		updates:  make(chan Update, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Updates delivers one Update per debounced change, starting with the
// initial load. The channel is closed when the watcher stops.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Start loads the file once and then reloads on change until ctx is
// cancelled or Close is called. It does not block.
func (w *Watcher) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		go w.run(ctx)
	})
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
		// Never started: nothing will close these.
		w.startOnce.Do(func() {
			close(w.updates)
			close(w.doneCh)
		})
	})
	<-w.doneCh
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.updates)

	if !w.reload(ctx) {
		return
	}

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if !w.send(ctx, Update{Err: errors.Wrap(err, "watch error")}) {
				return
			}
		case <-timerCh:
			timerCh = nil
			if !w.reload(ctx) {
				return
			}
		}
	}
}

// reload reports false when the watcher is shutting down.
func (w *Watcher) reload(ctx context.Context) bool {
	samples, err := Load(ctx, w.path, w.opts)
	return w.send(ctx, Update{Samples: samples, Err: err})
}

func (w *Watcher) send(ctx context.Context, u Update) bool {
	select {
	case w.updates <- u:
		return true
	case <-ctx.Done():
		return false
	case <-w.stopCh:
		return false
	}
}
