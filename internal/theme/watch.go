package theme

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 150 * time.Millisecond

// Watcher monitors terminal config directories and calls onChange after
// a burst of writes settles. onChange runs on a timer goroutine, so it
// must only hand the event over (e.g. program.Send), not touch UI state.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce *time.Timer
	mu       sync.Mutex
	onChange func()
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once
}

// NewWatcher watches dirs, or TerminalConfigDirs when none are given.
// Missing directories are skipped.
func NewWatcher(onChange func(), dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		onChange: onChange,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	if len(dirs) == 0 {
		dirs = TerminalConfigDirs()
	}
	for _, p := range dirs {
		if _, err := os.Stat(p); err == nil {
			_ = fsw.Add(p)
		}
	}

	go w.run()

	return w, nil
}

func (w *Watcher) run() {
	defer close(w.stopped)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.scheduleChange()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, func() {
		if w.onChange != nil {
			w.onChange()
		}
	})
}

// Stop closes the watcher and waits for its goroutine. Safe to call twice.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
		w.watcher.Close()
		<-w.stopped

		w.mu.Lock()
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.mu.Unlock()
	})
}
