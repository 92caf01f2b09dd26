package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/ski-resort/internal/world"
)

// DefaultFrameInterval is roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Refresher rebuilds derived state from the changes of one frame. It runs on
// the loop goroutine after every intent of the frame has been applied and
// before the next frame mutates anything.
type Refresher interface {
	Refresh(s *Session, changes []world.Change)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(s *Session, changes []world.Change)

func (f RefresherFunc) Refresh(s *Session, changes []world.Change) { f(s, changes) }

// Loop drives a session one frame at a time. Any goroutine may Submit intents
// or View the session; only the loop applies intents.
type Loop struct {
	Session  *Session
	Interval time.Duration

	// OnFrame runs after a frame that produced changes, outside the session
	// lock. Used to journal edits.
	OnFrame func(frame uint64, changes []world.Change)

	mu         sync.Mutex // guards Session and frame
	frame      uint64
	refreshers []Refresher

	qmu   sync.Mutex
	queue []Intent
}

// NewLoop creates a loop with the default frame interval.
func NewLoop(s *Session) *Loop {
	return &Loop{Session: s, Interval: DefaultFrameInterval}
}

// AddRefresher registers r. Refreshers run in registration order.
func (l *Loop) AddRefresher(r Refresher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshers = append(l.refreshers, r)
}

// Submit queues an intent for the next frame.
func (l *Loop) Submit(in Intent) {
	l.qmu.Lock()
	l.queue = append(l.queue, in)
	l.qmu.Unlock()
}

// Pending returns the number of queued intents.
func (l *Loop) Pending() int {
	l.qmu.Lock()
	defer l.qmu.Unlock()
	return len(l.queue)
}

// View runs fn with exclusive access to the session. fn must not keep
// references to session state after it returns.
func (l *Loop) View(fn func(s *Session)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.Session)
}

// Frame returns the number of completed frames.
func (l *Loop) Frame() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

// Step applies every queued intent in submission order, then refreshes.
func (l *Loop) Step() []world.Change {
	l.qmu.Lock()
	batch := l.queue
	l.queue = nil
	l.qmu.Unlock()

	l.mu.Lock()
	var changes []world.Change
	for _, in := range batch {
		changes = append(changes, l.Session.Handle(in)...)
	}
	if ch, ok := l.Session.DropStaleSelection(); ok {
		changes = append(changes, ch)
	}
	if len(changes) > 0 {
		for _, r := range l.refreshers {
			r.Refresh(l.Session, changes)
		}
	}
	l.frame++
	frame := l.frame
	l.mu.Unlock()

	if len(changes) > 0 && l.OnFrame != nil {
		l.OnFrame(frame, changes)
	}
	return changes
}

// Run steps the loop every Interval until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("frame loop started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("frame loop stopped", "frame", l.Frame())
			return
		case <-ticker.C:
			l.Step()
		}
	}
}
