package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when NewWatcher is given a zero debounce
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors the base directory for changes to the source icon
type Watcher struct {
	dir        string
	sourceName string
	debounce   time.Duration
	watcher    *fsnotify.Watcher
	events     chan Event

	mu      sync.Mutex
	pending *time.Timer
	lastOp  fsnotify.Op
	started bool
	closed  bool
	done    chan struct{}
}

// Event represents a file system event
type Event struct {
	Type     EventType
	FilePath string
}

// EventType represents the type of file event
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// NewWatcher creates a new file watcher for dir/sourceName
func NewWatcher(dir, sourceName string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		dir:        dir,
		sourceName: sourceName,
		debounce:   debounce,
		watcher:    fsWatcher,
		events:     make(chan Event, 100),
		done:       make(chan struct{}),
	}, nil
}

// Start begins monitoring the directory. The directory itself is watched
// rather than the file so editors that save via rename are still seen.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", w.dir, err)
	}
	log.Printf("Watching %s for changes", filepath.Join(w.dir, w.sourceName))

	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go w.processEvents()

	return nil
}

// processEvents filters fsnotify events down to the source file
func (w *Watcher) processEvents() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != w.sourceName {
				continue
			}

			// Debounce: editors write a file in several steps
			w.mu.Lock()
			w.lastOp |= event.Op
			if w.pending != nil {
				w.pending.Stop()
			}
			name := event.Name
			w.pending = time.AfterFunc(w.debounce, func() {
				w.flush(name)
			})
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// flush emits one event for a burst of operations on the source file
func (w *Watcher) flush(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	op := w.lastOp
	w.lastOp = 0
	w.pending = nil
	if w.closed {
		return
	}

	var eventType EventType
	switch {
	case op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename):
		// A rename-over save ends with the file present again
		if op.Has(fsnotify.Create) {
			eventType = EventCreated
		} else {
			eventType = EventDeleted
		}
	case op.Has(fsnotify.Create):
		eventType = EventCreated
	case op.Has(fsnotify.Write):
		eventType = EventModified
	default:
		return // chmod only
	}

	log.Printf("Source %s: %s", eventType, name)

	select {
	case w.events <- Event{Type: eventType, FilePath: name}:
	default:
		log.Printf("Dropping %s event for %s: consumer is behind", eventType, name)
	}
}

// Events returns the event channel
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop stops the watcher and closes the event channel
func (w *Watcher) Stop() error {
	err := w.watcher.Close()

	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return err
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	close(w.events)
	return err
}
