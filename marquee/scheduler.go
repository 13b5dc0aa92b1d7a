package marquee

import (
	"sort"
	"sync"
	"time"
)

// Deferred work of a widget: the animation start and the post-layout clamp.
const (
	StartDelay   = 100 * time.Millisecond
	MeasureDelay time.Duration = 0
)

// Timer is a pending single-shot callback.
type Timer interface {
	// Stop cancels the callback and reports whether it was still pending.
	Stop() bool
}

// Scheduler runs single-shot callbacks after a delay.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) After(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemScheduler schedules on the runtime timer heap.
func SystemScheduler() Scheduler { return clockScheduler{} }

// ManualScheduler runs callbacks only when Advance moves its clock. It makes
// deferred behaviour deterministic in tests and in static exports.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	s   *ManualScheduler
	at  time.Duration
	seq int
	fn  func()
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (m *ManualScheduler) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{s: m, at: m.now + d, seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	m := t.s
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock by d and runs every callback that became due, in
// due-time then scheduling order. Callbacks run without the scheduler lock
// and may schedule more work; work due within the window also runs. It
// returns the number of callbacks run.
func (m *ManualScheduler) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	ran := 0
	for {
		m.mu.Lock()
		sort.SliceStable(m.pending, func(i, j int) bool {
			if m.pending[i].at != m.pending[j].at {
				return m.pending[i].at < m.pending[j].at
			}
			return m.pending[i].seq < m.pending[j].seq
		})
		if len(m.pending) == 0 || m.pending[0].at > target {
			m.now = target
			m.mu.Unlock()
			return ran
		}
		next := m.pending[0]
		m.pending = m.pending[1:]
		if next.at > m.now {
			m.now = next.at
		}
		m.mu.Unlock()

		next.fn()
		ran++
	}
}

// Pending reports how many callbacks are waiting.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
