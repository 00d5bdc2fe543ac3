// Package monitor orchestrates live tailing of a Game.log file.
//
// A Monitor owns the tail cursor and the parse pipeline. Start performs one
// synchronous full parse of the file's current content, then hands the file
// to a backend: an fsnotify watch on the containing directory when one can be
// established, otherwise a fixed-interval poll loop. All line processing runs
// on the single backend goroutine, so the cursor and every aggregate mutation
// for a file are serialized. Consumers read snapshots from the stats store
// and learn about changes through a registered callback.
package monitor

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/verselog/verselog/internal/gamelog"
	"github.com/verselog/verselog/internal/stats"
	"github.com/verselog/verselog/internal/tail"
)

// DefaultPollInterval is the tick interval of the poll backend.
const DefaultPollInterval = time.Second

// Monitor supervises tailing and parsing of one log file. Create one with
// New, configure it, then call Start. A stopped Monitor can be started again.
type Monitor struct {
	store  *stats.Store
	parser *gamelog.Parser

	// interval is the poll backend's tick interval.
	interval time.Duration

	// forcePoll skips the fsnotify attempt entirely.
	forcePoll bool

	// onUpdate is invoked from the dispatcher goroutine after each tick that
	// delivered lines. It must not mutate the stats store.
	onUpdate func()

	mu      sync.Mutex
	running bool
	kind    BackendKind

	// pushBroken latches a failed fsnotify attachment. Deliberately scoped
	// to the Monitor, not the process: the CLI creates exactly one Monitor,
	// so the two are the same lifetime, and an independent Monitor on a
	// different filesystem still gets its own push attempt. Never cleared,
	// so later Starts on this Monitor go straight to polling.
	pushBroken bool

	tailer   *tail.Tailer
	stopCh   chan struct{}
	notifyCh chan struct{}
	wg       sync.WaitGroup
}

// New creates a Monitor feeding parsed events into store.
func New(store *stats.Store) *Monitor {
	return &Monitor{
		store:    store,
		parser:   gamelog.New(store),
		interval: DefaultPollInterval,
	}
}

// SetPollInterval overrides the poll backend interval. Must be called before
// Start.
func (m *Monitor) SetPollInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// ForcePoll disables the fsnotify backend so the poll loop is always used.
// Must be called before Start.
func (m *Monitor) ForcePoll() {
	m.forcePoll = true
}

// OnUpdate registers the change-notification callback. Must be called before
// Start. The callback runs on a dispatcher goroutine, at most once per tick
// that delivered lines; redundant notifications are coalesced rather than
// queued, so a slow consumer never stalls tailing.
func (m *Monitor) OnUpdate(fn func()) {
	m.onUpdate = fn
}

// Start begins monitoring path. The file must exist; a missing file is the
// one fatal startup error. The aggregate is reset and the entire current
// file content is parsed synchronously before Start returns, leaving the
// cursor at end of file.
func (m *Monitor) Start(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("monitor: already running")
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("monitor: log file not found: %s: %w", path, err)
	}

	m.store.Reset()
	m.tailer = tail.New(path)

	// Initial full parse, oldest to newest, before any backend is attached.
	lines, err := m.tailer.Poll()
	if err != nil {
		return fmt.Errorf("monitor: initial parse: %w", err)
	}
	m.parser.ParseBatch(lines)

	m.stopCh = make(chan struct{})
	m.notifyCh = make(chan struct{}, 1)

	m.wg.Add(1)
	go m.dispatch(m.stopCh, m.notifyCh)

	backend, kind := m.chooseBackend(path)
	m.kind = kind

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		backend.run(m, m.stopCh)
	}()

	m.running = true

	// The initial parse counts as a change if it consumed anything.
	if len(lines) > 0 {
		m.notify()
	}
	return nil
}

// Stop tears down the active backend and waits for the tick loop and the
// dispatcher to exit, so no aggregate mutation happens after Stop returns.
// Stop is safe to call from multiple goroutines; whichever caller wins the
// race shuts the backend down and the rest are no-ops.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	// Flip running before unlocking so a concurrent Stop takes the no-op
	// path instead of closing stopCh a second time.
	m.running = false
	m.kind = BackendNone
	close(m.stopCh)
	m.mu.Unlock()

	m.wg.Wait()
}

// IsRunning reports whether a backend is currently attached.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Backend reports which backend kind is active, or BackendNone when stopped.
func (m *Monitor) Backend() BackendKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return BackendNone
	}
	return m.kind
}

// Snapshot returns a copy of the current aggregate state.
func (m *Monitor) Snapshot() stats.Snapshot {
	return m.store.Snapshot()
}

// Reset clears the aggregate without touching the tail cursor.
func (m *Monitor) Reset() {
	m.store.Reset()
}

// tick polls for new lines and routes them through the parse pipeline.
// Transient poll failures are logged and absorbed: the loop keeps ticking.
// Called only from the backend goroutine.
func (m *Monitor) tick() error {
	lines, err := m.tailer.Poll()
	if err != nil {
		log.Printf("monitor: poll error (will retry): %v", err)
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	m.parser.ParseBatch(lines)
	m.notify()
	return nil
}

// notify signals the dispatcher that state changed. The send is non-blocking:
// if a notification is already pending the new one coalesces into it.
func (m *Monitor) notify() {
	select {
	case m.notifyCh <- struct{}{}:
	default:
	}
}

// dispatch delivers coalesced change notifications to the subscriber
// callback, keeping slow consumers off the backend goroutine.
func (m *Monitor) dispatch(stopCh <-chan struct{}, notifyCh <-chan struct{}) {
	defer m.wg.Done()

	for {
		select {
		case <-stopCh:
			return
		case <-notifyCh:
			if m.onUpdate != nil {
				m.onUpdate()
			}
		}
	}
}
