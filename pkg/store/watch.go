package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventDataChanged indicates another process rewrote the data file.
	EventDataChanged EventType = iota

	// EventDataRemoved indicates the data file disappeared.
	EventDataRemoved

	// EventWatchError signals the watcher hit an error and callers should
	// reload to be safe.
	EventWatchError
)

// Event is emitted by Gateway.Watch when the data file changes on disk.
type Event struct {
	Type EventType
	Path string
}

// Watch streams change events for the data file until ctx is cancelled.
// Writes made through this gateway are recognised by content and skipped.
// Callers should drain the returned channel; it is closed once ctx is done or
// the watcher fails.
func (g *Gateway) Watch(ctx context.Context) (<-chan Event, error) {
	if g.dir == "" {
		return nil, errors.New("store: gateway directory unknown")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
			}
		})
	}

	// Watch the directory, not the file: atomic saves replace the inode.
	if err := watcher.Add(g.dir); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", g.dir, err)
	}

	events := make(chan Event, 16)
	target := g.Path()

	var (
		sendMu sync.Mutex
		done   bool
	)
	send := func(ev Event) {
		sendMu.Lock()
		defer sendMu.Unlock()
		if done {
			return
		}
		select {
		case events <- ev:
		default:
			// Drop when the consumer is behind; the next event triggers
			// the same reload.
		}
	}

	go func() {
		defer func() {
			sendMu.Lock()
			done = true
			close(events)
			sendMu.Unlock()
		}()
		defer closeWatcher()

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(Event{Type: EventWatchError, Path: target}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
						throttle.Enqueue(Event{Type: EventDataRemoved, Path: target}, send)
					}
					continue
				}
				throttle.Enqueue(Event{Type: EventDataChanged, Path: target}, g.filterOwn(send))
			}
		}
	}()

	return events, nil
}

// filterOwn drops change events whose file content matches what this gateway
// last saved or loaded.
func (g *Gateway) filterOwn(send func(Event)) func(Event) {
	return func(ev Event) {
		if ev.Type == EventDataChanged {
			data, err := os.ReadFile(ev.Path)
			if err == nil && g.isKnown(data) {
				return
			}
		}
		send(ev)
	}
}

// eventThrottle coalesces rapid change notifications so a burst of writes
// produces one reload.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]Event
	sends   map[EventType]func(Event)
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]Event),
		sends:   make(map[EventType]func(Event)),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Type] = ev
	t.sends[ev.Type] = send

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush() {
	t.mu.Lock()
	pending := t.pending
	sends := t.sends
	t.pending = make(map[EventType]Event)
	t.sends = make(map[EventType]func(Event))
	t.timer = nil
	t.mu.Unlock()

	for typ, ev := range pending {
		sends[typ](ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
