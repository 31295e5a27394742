// Package watch turns filesystem notifications for recipe files into
// debounced change and removal callbacks.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-cooklang/internal/logging"
	"github.com/goliatone/go-cooklang/pkg/interfaces"
)

const maxTick = 100 * time.Millisecond

var (
	ErrRootRequired    = errors.New("watch: root directory is required")
	ErrHandlerRequired = errors.New("watch: change handler is required")
	ErrAlreadyRunning  = errors.New("watch: watcher already running")
)

// Handler receives the absolute path of a changed or removed file.
type Handler func(ctx context.Context, path string)

// Config configures a Watcher.
type Config struct {
	Root      string
	Recursive bool
	// Debounce is how long a path must stay quiet before its handler runs.
	Debounce time.Duration
	// Match filters file paths; nil accepts every file.
	Match    func(path string) bool
	OnChange Handler
	// OnRemove is optional.
	OnRemove Handler
	Logger   interfaces.Logger
}

type changeKind uint8

const (
	changeWritten changeKind = iota + 1
	changeRemoved
)

type pendingChange struct {
	kind changeKind
	at   time.Time
}

// Watcher dispatches debounced callbacks for files under a root directory.
// Handlers run one at a time on the goroutine that called Run.
type Watcher struct {
	cfg    Config
	logger interfaces.Logger

	mu      sync.Mutex
	running bool
	pending map[string]pendingChange
}

// New validates cfg and returns a Watcher.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, ErrRootRequired
	}
	if cfg.OnChange == nil {
		return nil, ErrHandlerRequired
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	cfg.Root = root

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Watcher{
		cfg:     cfg,
		logger:  logger,
		pending: map[string]pendingChange{},
	}, nil
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer notifier.Close()

	if err := w.addTree(notifier, w.cfg.Root); err != nil {
		return err
	}
	w.logger.Info("watch.started", "root", w.cfg.Root, "recursive", w.cfg.Recursive)

	ticker := time.NewTicker(tickInterval(w.cfg.Debounce))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch.stopped", "root", w.cfg.Root)
			return nil
		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			w.handleEvent(notifier, event)
		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch.error", "error", err)
		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(notifier *fsnotify.Watcher, event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) && w.cfg.Recursive {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(notifier, path); err != nil {
				w.logger.Warn("watch.add.failed", "path", path, "error", err)
			}
			return
		}
	}

	if !w.matches(path) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.mark(path, changeRemoved)
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.mark(path, changeWritten)
	}
}

func (w *Watcher) mark(path string, kind changeKind) {
	w.mu.Lock()
	w.pending[path] = pendingChange{kind: kind, at: time.Now()}
	w.mu.Unlock()
}

// flush dispatches every pending change quiet for at least the debounce
// interval. The latest event for a path wins.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	w.mu.Lock()
	ready := make(map[string]changeKind)
	for path, change := range w.pending {
		if now.Sub(change.at) >= w.cfg.Debounce {
			ready[path] = change.kind
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for path, kind := range ready {
		if ctx.Err() != nil {
			return
		}
		switch kind {
		case changeWritten:
			w.logger.Debug("watch.changed", "path", path)
			w.cfg.OnChange(ctx, path)
		case changeRemoved:
			w.logger.Debug("watch.removed", "path", path)
			if w.cfg.OnRemove != nil {
				w.cfg.OnRemove(ctx, path)
			}
		}
	}
}

func (w *Watcher) addTree(notifier *fsnotify.Watcher, dir string) error {
	if !w.cfg.Recursive {
		return notifier.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return notifier.Add(path)
	})
}

func (w *Watcher) matches(path string) bool {
	if w.cfg.Match == nil {
		return true
	}
	return w.cfg.Match(path)
}

func tickInterval(debounce time.Duration) time.Duration {
	tick := debounce / 2
	if tick <= 0 {
		return 10 * time.Millisecond
	}
	return min(tick, maxTick)
}
