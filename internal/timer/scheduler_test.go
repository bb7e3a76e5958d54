package timer

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced wall clock.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// manualScheduler builds a scheduler with self-arming disabled so tests
// deliver ticks by hand.
func manualScheduler(clock *fakeClock, onTick func(int), onComplete func()) *Scheduler {
	return NewScheduler(onTick, onComplete,
		WithClock(clock.Now),
		WithTickInterval(0),
	)
}

func deliverTick(s *Scheduler) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	s.step(gen)
}

func TestSchedulerAnchoredTicks(t *testing.T) {
	clock := newFakeClock()
	var ticks []int
	s := manualScheduler(clock, func(r int) { ticks = append(ticks, r) }, nil)

	s.Start(60)
	clock.Advance(10 * time.Second)
	deliverTick(s)
	clock.Advance(5 * time.Second)
	deliverTick(s)

	want := []int{50, 45}
	if len(ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("tick %d = %d, want %d", i, ticks[i], want[i])
		}
	}
}

func TestSchedulerDriftCorrection(t *testing.T) {
	// Delayed tick delivery must not slow the countdown: remaining is
	// derived from wall time, not from how many ticks arrived.
	clock := newFakeClock()
	var last int
	s := manualScheduler(clock, func(r int) { last = r }, nil)

	s.Start(120)
	// One tick arrives very late.
	clock.Advance(47 * time.Second)
	deliverTick(s)

	if last != 73 {
		t.Errorf("remaining after 47s with one tick = %d, want 73", last)
	}
}

func TestSchedulerSingleCompletion(t *testing.T) {
	clock := newFakeClock()
	completions := 0
	s := manualScheduler(clock, nil, func() { completions++ })

	s.Start(5)
	clock.Advance(7 * time.Second)
	deliverTick(s)
	deliverTick(s)
	deliverTick(s)

	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
	if s.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0 after completion", s.Remaining())
	}
	if s.Running() {
		t.Error("scheduler still running after completion")
	}
}

func TestSchedulerCompletionClampsToZero(t *testing.T) {
	clock := newFakeClock()
	var last int
	s := manualScheduler(clock, func(r int) { last = r }, nil)

	s.Start(10)
	clock.Advance(25 * time.Second) // well past zero
	deliverTick(s)

	if last != 0 {
		t.Errorf("final tick = %d, want clamped 0", last)
	}
}

func TestSchedulerPauseFreezesAndReanchors(t *testing.T) {
	clock := newFakeClock()
	var last int
	s := manualScheduler(clock, func(r int) { last = r }, nil)

	s.Start(60)
	clock.Advance(10 * time.Second)
	deliverTick(s)

	frozen := s.Pause()
	if frozen != 50 {
		t.Fatalf("Pause() = %d, want 50", frozen)
	}

	// Time passing while paused must not drain the countdown.
	clock.Advance(10 * time.Minute)
	s.Start(frozen)
	clock.Advance(5 * time.Second)
	deliverTick(s)

	if last != 45 {
		t.Errorf("remaining after resume = %d, want 45", last)
	}
}

func TestSchedulerPauseSettlesWithoutTick(t *testing.T) {
	// Cancellation between ticks must not freeze a stale value: the
	// wall clock, not tick delivery, decides how much time passed.
	clock := newFakeClock()
	s := manualScheduler(clock, nil, nil)

	s.Start(60)
	clock.Advance(10 * time.Second)

	if got := s.Pause(); got != 50 {
		t.Errorf("Pause() with no tick delivered = %d, want 50", got)
	}
}

func TestSchedulerStopSettlesWithoutTick(t *testing.T) {
	clock := newFakeClock()
	s := manualScheduler(clock, nil, nil)

	s.Start(60)
	clock.Advance(25 * time.Second)
	s.Stop()

	if got := s.Remaining(); got != 35 {
		t.Errorf("Remaining() after Stop with no tick = %d, want 35", got)
	}
}

func TestSchedulerPauseClampsPastZero(t *testing.T) {
	clock := newFakeClock()
	s := manualScheduler(clock, nil, nil)

	s.Start(10)
	clock.Advance(30 * time.Second)

	if got := s.Pause(); got != 0 {
		t.Errorf("Pause() past the deadline = %d, want clamped 0", got)
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	completions := 0
	s := manualScheduler(clock, nil, func() { completions++ })

	s.Start(60)
	s.Stop()
	s.Stop()

	if s.Running() {
		t.Error("running after Stop")
	}
	if completions != 0 {
		t.Errorf("completions = %d, want 0", completions)
	}
}

func TestSchedulerStaleCallbackDropped(t *testing.T) {
	// A callback armed before cancellation must not tick the run that
	// replaced it.
	clock := newFakeClock()
	var ticks []int
	s := manualScheduler(clock, func(r int) { ticks = append(ticks, r) }, nil)

	s.Start(60)
	s.mu.Lock()
	stale := s.gen
	s.mu.Unlock()

	s.Stop()
	s.Start(30)

	s.step(stale) // leaked callback from the first run
	if len(ticks) != 0 {
		t.Errorf("stale callback emitted ticks %v", ticks)
	}

	clock.Advance(time.Second)
	deliverTick(s)
	if len(ticks) != 1 || ticks[0] != 29 {
		t.Errorf("ticks = %v, want [29]", ticks)
	}
}

func TestSchedulerRestartCancelsPriorRun(t *testing.T) {
	clock := newFakeClock()
	completions := 0
	s := manualScheduler(clock, nil, func() { completions++ })

	s.Start(2)
	s.mu.Lock()
	stale := s.gen
	s.mu.Unlock()

	s.Start(600)
	clock.Advance(5 * time.Second)
	s.step(stale)

	if completions != 0 {
		t.Errorf("stale run completed: completions = %d, want 0", completions)
	}
	if s.Remaining() != 600 {
		t.Errorf("remaining = %d, want untouched 600", s.Remaining())
	}
}

func TestSchedulerRealTicksCompleteOnce(t *testing.T) {
	// End-to-end with real AfterFunc arming: a 1-second run at a 50ms
	// interval completes exactly once, within a tick of the deadline.
	done := make(chan time.Time, 4)
	s := NewScheduler(nil, func() { done <- time.Now() }, WithTickInterval(50*time.Millisecond))

	start := time.Now()
	s.Start(1)

	var completed time.Time
	select {
	case completed = <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("completion never fired")
	}

	elapsed := completed.Sub(start)
	if elapsed < time.Second-50*time.Millisecond || elapsed > time.Second+250*time.Millisecond {
		t.Errorf("completed after %v, want ~1s", elapsed)
	}

	select {
	case <-done:
		t.Error("completion fired twice")
	case <-time.After(200 * time.Millisecond):
	}
}
