package timer

import (
	"sync"
	"time"
)

// DefaultTickInterval is the callback period for a running countdown. The
// interval affects display responsiveness only, never correctness: each
// tick recomputes remaining time from wall-clock anchors.
const DefaultTickInterval = 500 * time.Millisecond

// Scheduler is a wall-clock-anchored countdown. Instead of decrementing a
// counter per tick (which accumulates scheduling jitter over a 25+ minute
// run), it records an anchor timestamp at Start and derives the remaining
// time from elapsed wall time on every tick. For any run it emits at most
// one completion event, then cancels itself.
type Scheduler struct {
	mu sync.Mutex

	interval time.Duration
	now      func() time.Time

	onTick     func(remaining int)
	onComplete func()

	anchorTime      time.Time
	anchorRemaining int
	remaining       int
	running         bool

	// gen invalidates callbacks from cancelled runs. A callback that
	// fires after Pause/Stop/Start finds a stale generation and drops
	// itself instead of ticking a run it no longer belongs to.
	gen     uint64
	pending *time.Timer
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTickInterval overrides the tick period. A zero or negative interval
// disables self-arming; ticks are then driven manually (tests).
func WithTickInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.interval = d }
}

// WithClock overrides the wall-clock source.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a stopped scheduler. onTick receives the remaining
// seconds after each anchored recomputation; onComplete fires exactly
// once per run when the countdown reaches zero. Either callback may be
// nil.
func NewScheduler(onTick func(remaining int), onComplete func(), opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		interval:   DefaultTickInterval,
		now:        time.Now,
		onTick:     onTick,
		onComplete: onComplete,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins (or re-anchors) a countdown from remainingSeconds. Any
// prior pending callback is cancelled first so two runs can never tick
// concurrently.
func (s *Scheduler) Start(remainingSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.anchorTime = s.now()
	s.anchorRemaining = remainingSeconds
	s.remaining = remainingSeconds
	s.running = true
	s.armLocked()
}

// Pause cancels ticking without emitting completion and returns the
// frozen remaining value, recomputed from the anchor at the moment of
// cancellation so time between ticks is never dropped. A subsequent
// Start re-anchors from it.
func (s *Scheduler) Pause() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.remaining = s.anchoredRemainingLocked()
	}
	s.cancelLocked()
	s.running = false
	return s.remaining
}

// Stop cancels all pending ticks unconditionally. Idempotent. Like
// Pause, it settles remaining from the anchor before freezing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.remaining = s.anchoredRemainingLocked()
	}
	s.cancelLocked()
	s.running = false
}

// Remaining returns the most recently computed remaining seconds.
func (s *Scheduler) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Running reports whether a countdown is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// cancelLocked invalidates any in-flight callback and stops the pending
// timer. Callers hold s.mu.
func (s *Scheduler) cancelLocked() {
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// anchoredRemainingLocked derives remaining seconds from elapsed wall
// time, clamped at zero. Callers hold s.mu on a running countdown.
func (s *Scheduler) anchoredRemainingLocked() int {
	elapsed := int(s.now().Sub(s.anchorTime) / time.Second)
	next := s.anchorRemaining - elapsed
	if next < 0 {
		return 0
	}
	return next
}

// armLocked schedules the next tick for the current generation. Callers
// hold s.mu.
func (s *Scheduler) armLocked() {
	if s.interval <= 0 {
		return
	}
	gen := s.gen
	s.pending = time.AfterFunc(s.interval, func() { s.step(gen) })
}

// step performs one anchored tick. It recomputes remaining time from the
// wall clock, emits the tick or the single completion event, and re-arms
// itself while the countdown is still positive.
func (s *Scheduler) step(gen uint64) {
	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		return
	}

	next := s.anchoredRemainingLocked()

	if next > 0 {
		s.remaining = next
		s.armLocked()
		onTick := s.onTick
		s.mu.Unlock()
		if onTick != nil {
			onTick(next)
		}
		return
	}

	s.remaining = 0
	s.running = false
	s.pending = nil
	onTick, onComplete := s.onTick, s.onComplete
	s.mu.Unlock()

	if onTick != nil {
		onTick(0)
	}
	if onComplete != nil {
		onComplete()
	}
}
