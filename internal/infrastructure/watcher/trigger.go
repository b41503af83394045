package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"AlignmentScorer/internal/ports"
)

const defaultDebounce = 500 * time.Millisecond

// FileTrigger runs a job once on start and again whenever one of the
// watched files changes. Bursts of events within the debounce window
// collapse into one run.
type FileTrigger struct {
	paths    []string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	stop    chan struct{}
	done    chan struct{}
}

var _ ports.Trigger = (*FileTrigger)(nil)

// NewFileTrigger watches paths. Their parent directories are watched so
// editors that replace files by rename are still seen.
func NewFileTrigger(paths []string, debounce time.Duration, log *slog.Logger) *FileTrigger {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}
	return &FileTrigger{paths: paths, debounce: debounce, logger: log}
}

// Start begins watching; job runs on the trigger goroutine, never
// concurrently with itself.
func (f *FileTrigger) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stop != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	watched := make(map[string]struct{}, len(f.paths))
	dirs := map[string]struct{}{}
	for _, p := range f.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		f.logger.Debug("watching directory", "path", dir)
	}

	f.watcher = fsw
	f.stop = make(chan struct{})
	f.done = make(chan struct{})
	go f.loop(ctx, fsw, watched, job, f.stop, f.done)

	f.logger.Info("file trigger started", "files", len(watched), "debounce", f.debounce)
	return nil
}

func (f *FileTrigger) loop(ctx context.Context, fsw *fsnotify.Watcher, watched map[string]struct{}, job func(time.Time), stop, done chan struct{}) {
	defer close(done)

	job(time.Now())

	timer := time.NewTimer(f.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevant(event, watched) {
				continue
			}
			f.logger.Debug("input changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(f.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			f.logger.Error("watcher error", "error", err)

		case t := <-timer.C:
			job(t)
		}
	}
}

func relevant(event fsnotify.Event, watched map[string]struct{}) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := watched[abs]
	return ok
}

// Stop halts the watch goroutine and waits for a running job to finish.
func (f *FileTrigger) Stop(ctx context.Context) error {
	f.mu.Lock()
	if f.stop == nil {
		f.mu.Unlock()
		return nil
	}
	close(f.stop)
	done, fsw := f.done, f.watcher
	f.stop, f.done, f.watcher = nil, nil, nil
	f.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return fsw.Close()
}
