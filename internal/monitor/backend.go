package monitor

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// BackendKind identifies the change-detection mechanism driving the monitor.
type BackendKind int

const (
	BackendNone BackendKind = iota
	BackendPush             // fsnotify watch on the log's directory
	BackendPoll             // fixed-interval polling
)

func (k BackendKind) String() string {
	switch k {
	case BackendPush:
		return "push"
	case BackendPoll:
		return "poll"
	default:
		return "none"
	}
}

// backend is the capability both mechanisms implement: drive ticks until
// stopCh closes. The choice is made once per Start and fixed for the run.
type backend interface {
	run(m *Monitor, stopCh <-chan struct{})
}

// chooseBackend attaches an fsnotify watch when possible and falls back to
// polling. A failed fsnotify attachment is recorded and never retried for
// the remainder of the process: on some filesystems (network shares, Wine
// prefixes) inotify reports nothing useful, and flapping between backends
// helps nobody.
func (m *Monitor) chooseBackend(path string) (backend, BackendKind) {
	if m.forcePoll || m.pushBroken {
		return &pollBackend{interval: m.interval}, BackendPoll
	}

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		err = watcher.Add(filepath.Dir(path))
		if err != nil {
			watcher.Close()
		}
	}
	if err != nil {
		m.pushBroken = true
		log.Printf("monitor: file watch unavailable (%v), using %v polling", err, m.interval)
		return &pollBackend{interval: m.interval}, BackendPoll
	}

	return &pushBackend{watcher: watcher, path: path}, BackendPush
}

// pollBackend ticks on a timer. Consecutive poll failures stretch the delay
// with capped exponential backoff so a persistent I/O problem does not spin
// the loop; one success snaps the delay back to the configured interval.
type pollBackend struct {
	interval time.Duration
}

const maxBackoff = 30 * time.Second

func (b *pollBackend) run(m *Monitor, stopCh <-chan struct{}) {
	delay := b.interval

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-timer.C:
			if err := m.tick(); err != nil {
				delay *= 2
				if delay > maxBackoff {
					delay = maxBackoff
				}
			} else {
				delay = b.interval
			}
			timer.Reset(delay)
		}
	}
}

// pushBackend blocks on fsnotify events for the watched directory and ticks
// whenever the log file itself is written, created, or replaced. Closing the
// watcher unblocks the wait, which is how Stop cancels it.
type pushBackend struct {
	watcher *fsnotify.Watcher
	path    string
}

func (b *pushBackend) run(m *Monitor, stopCh <-chan struct{}) {
	defer b.watcher.Close()

	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if !b.matches(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				// Tick errors are logged inside tick; the watch stays up.
				m.tick() //nolint:errcheck
			}

		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("monitor: watch error: %v", err)
		}
	}
}

// matches reports whether an event path refers to the watched log file. The
// directory watch also reports sibling files, which are ignored.
func (b *pushBackend) matches(name string) bool {
	return filepath.Clean(name) == filepath.Clean(b.path)
}
