package candidates

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of events editors and planners produce
// for a single save.
const debounceDelay = 50 * time.Millisecond

// Watcher re-reads a candidate file whenever it is written or replaced.
//
// The callback runs on the watcher's goroutine. It receives the freshly
// parsed file or the read error; it must hand the result to the owner of the
// registry rather than mutating the registry itself.
type Watcher struct {
	reader   *Reader
	watcher  *fsnotify.Watcher
	onChange func(*File, error)

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewWatcher creates a watcher for the reader's file. The parent directory is
// watched so that atomic rename-over writes are seen.
func NewWatcher(reader *Reader, onChange func(*File, error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(reader.Path())); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{
		reader:   reader,
		watcher:  fw,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops watching and waits for the loop to exit. Safe to call twice.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
	})
	<-w.done
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	debounce := time.NewTimer(0)
	<-debounce.C
	target := filepath.Clean(w.reader.Path())

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce.Reset(debounceDelay)

		case <-debounce.C:
			f, err := w.reader.Read()
			w.onChange(f, err)

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
