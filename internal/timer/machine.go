package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akshat/stint/internal/notify"
	"github.com/akshat/stint/internal/session"
	"github.com/akshat/stint/internal/sound"
)

// Phase is what the countdown currently measures.
type Phase int

const (
	PhaseFocus Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	if p == PhaseBreak {
		return "break"
	}
	return "focus"
}

// RunState is the machine's run state, independent of phase.
type RunState int

const (
	RunIdle RunState = iota
	RunRunning
	RunPaused
)

func (r RunState) String() string {
	switch r {
	case RunRunning:
		return "running"
	case RunPaused:
		return "paused"
	default:
		return "idle"
	}
}

// ErrNoPending is returned when Submit or Skip is called with no
// finalization awaiting resolution.
var ErrNoPending = errors.New("no session awaiting finalization")

// Snapshot is a point-in-time view of the machine for rendering. It is
// transient process state, recreated from Config on load.
type Snapshot struct {
	Phase            Phase
	Run              RunState
	RemainingSeconds int
	Subject          string

	// AwaitingEntry is true while a finished focus run waits on the
	// question-entry prompt.
	AwaitingEntry bool

	// Fresh is true until the first focus run starts; the UI gates a
	// fresh start behind subject selection when subjects exist.
	Fresh bool
}

// Hooks are the best-effort collaborators voiced on lifecycle edges.
// Failure of either is swallowed by the wrappers and never reaches the
// machine.
type Hooks struct {
	Sound  sound.Safe
	Notify notify.Safe
}

// Machine is the focus/break timer state machine. It owns the configured
// durations and the remaining time, drives the countdown scheduler, and
// routes finished focus runs through the finalizer. All remaining-time
// movement goes through the scheduler's anchored computation; nothing
// decrements the counter directly.
type Machine struct {
	mu sync.Mutex

	cfg       Config
	phase     Phase
	run       RunState
	remaining int
	fresh     bool
	subject   string

	pending   *Pending
	resolving bool

	sched        *Scheduler
	fin          *Finalizer
	hooks        Hooks
	now          func() time.Time
	tickInterval time.Duration
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithMachineClock overrides the wall-clock source for the machine and
// its scheduler.
func WithMachineClock(now func() time.Time) MachineOption {
	return func(m *Machine) { m.now = now }
}

// WithMachineTickInterval overrides the scheduler tick period. Zero or
// negative disables self-arming (manual ticks, tests).
func WithMachineTickInterval(d time.Duration) MachineOption {
	return func(m *Machine) { m.tickInterval = d }
}

// NewMachine creates an Idle(Focus) machine with the full study interval
// on the clock. cfg must already be validated.
func NewMachine(cfg Config, fin *Finalizer, hooks Hooks, opts ...MachineOption) *Machine {
	m := &Machine{
		cfg:          cfg,
		phase:        PhaseFocus,
		run:          RunIdle,
		remaining:    cfg.StudySeconds(),
		fresh:        true,
		fin:          fin,
		hooks:        hooks,
		now:          time.Now,
		tickInterval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sched = NewScheduler(m.handleTick, m.handleComplete,
		WithClock(m.now),
		WithTickInterval(m.tickInterval),
	)
	return m
}

// Config returns the configured durations.
func (m *Machine) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// SetConfig replaces the configured durations. Allowed only while Idle
// with no pending finalization; the remaining time is reset to the new
// full interval of the current phase.
func (m *Machine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.run != RunIdle || m.pending != nil {
		return fmt.Errorf("timer is %s: config is only editable while idle", m.run)
	}
	m.cfg = cfg
	if m.phase == PhaseBreak {
		m.remaining = cfg.BreakSeconds()
	} else {
		m.remaining = cfg.StudySeconds()
	}
	return nil
}

// SelectSubject sets the subject credited to the next finalized session.
// An empty name falls back to the free-study sentinel at finalization.
func (m *Machine) SelectSubject(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subject = name
}

// Snapshot returns the current machine state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Phase:            m.phase,
		Run:              m.run,
		RemainingSeconds: m.remaining,
		Subject:          m.subject,
		AwaitingEntry:    m.pending != nil,
		Fresh:            m.fresh,
	}
}

// Pending returns the finalization awaiting resolution, or nil.
func (m *Machine) Pending() *Pending {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return nil
	}
	p := *m.pending
	return &p
}

// Start begins or resumes the countdown.
//
// From Idle the start is guarded: the remaining time must equal the full
// configured interval for the current phase (a drifted idle clock means
// state was corrupted elsewhere, and starting would credit wrong
// durations). From Paused it re-anchors the scheduler at the frozen
// remaining value. While a finalization is pending, Start is a no-op.
func (m *Machine) Start() {
	m.mu.Lock()

	if m.pending != nil || m.run == RunRunning {
		m.mu.Unlock()
		return
	}

	if m.run == RunIdle {
		full := m.cfg.StudySeconds()
		if m.phase == PhaseBreak {
			full = m.cfg.BreakSeconds()
		}
		if m.remaining != full {
			m.mu.Unlock()
			return
		}
		m.fresh = false
	}

	m.run = RunRunning
	remaining := m.remaining
	m.sched.Start(remaining)
	hooks := m.hooks
	m.mu.Unlock()

	hooks.Sound.Play(sound.CueStart)
}

// Pause freezes a running countdown.
func (m *Machine) Pause() {
	m.mu.Lock()

	if m.run != RunRunning {
		m.mu.Unlock()
		return
	}
	m.remaining = m.sched.Pause()
	m.run = RunPaused
	hooks := m.hooks
	m.mu.Unlock()

	hooks.Sound.Play(sound.CuePause)
}

// Stop ends the current run early.
//
// A focus run with elapsed time routes through the question-entry prompt
// (a Pending is surfaced, nothing is recorded yet); with zero elapsed it
// resets immediately and records nothing. A break run always resets
// straight back to Idle(Focus). Stop on an idle machine is a no-op, so
// repeated stops can never fabricate a session.
func (m *Machine) Stop() {
	m.mu.Lock()

	if m.pending != nil || m.run == RunIdle {
		m.mu.Unlock()
		return
	}

	// Settle remaining from the wall clock before reading elapsed;
	// m.remaining alone only moves when a tick is delivered.
	m.remaining = m.sched.Pause()

	if m.phase == PhaseBreak {
		m.resetToFocusLocked()
		hooks := m.hooks
		m.mu.Unlock()
		hooks.Sound.Play(sound.CueStop)
		return
	}

	elapsed := m.cfg.StudySeconds() - m.remaining
	if elapsed <= 0 {
		m.resetToFocusLocked()
		m.mu.Unlock()
		return
	}

	m.run = RunIdle
	m.pending = &Pending{
		Trigger:        TriggerStopped,
		ElapsedSeconds: elapsed,
		Subject:        m.subject,
		At:             m.now(),
	}
	hooks := m.hooks
	m.mu.Unlock()

	hooks.Sound.Play(sound.CueStop)
}

// Submit resolves the pending finalization with question counts and
// records the session. From a natural completion the machine then rolls
// straight into the break countdown; from a manual stop it resets to
// Idle(Focus).
func (m *Machine) Submit(ctx context.Context, total, correct int, typ session.Type) (session.Session, error) {
	return m.resolve(ctx, Resolution{
		Submitted:        true,
		QuestionsTotal:   total,
		QuestionsCorrect: correct,
		Type:             typ,
	})
}

// Skip resolves the pending finalization without question counts. The
// session is still recorded; only the counts are zero.
func (m *Machine) Skip(ctx context.Context) (session.Session, error) {
	return m.resolve(ctx, Resolution{})
}

func (m *Machine) resolve(ctx context.Context, res Resolution) (session.Session, error) {
	m.mu.Lock()
	if m.pending == nil || m.resolving {
		m.mu.Unlock()
		return session.Session{}, ErrNoPending
	}
	// Snapshot the pending run and finalize outside the lock; the append
	// hits the store and must not block concurrent Snapshot readers. The
	// resolving flag keeps a second caller from finalizing the same run.
	m.resolving = true
	p := *m.pending
	cfg := m.cfg
	m.mu.Unlock()

	rec, err := m.fin.Finalize(ctx, cfg, p, res)

	m.mu.Lock()
	m.resolving = false
	if err != nil {
		// The prompt stays unresolved; the caller may retry.
		m.mu.Unlock()
		return session.Session{}, err
	}
	m.pending = nil

	if p.Trigger == TriggerCompleted {
		m.phase = PhaseBreak
		m.run = RunRunning
		m.remaining = m.cfg.BreakSeconds()
		m.sched.Start(m.remaining)
	} else {
		m.resetToFocusLocked()
	}
	m.mu.Unlock()

	return rec, nil
}

// Teardown cancels any pending scheduler callback. Required on shutdown;
// a leaked callback firing after teardown could ghost-finalize a run.
func (m *Machine) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sched.Stop()
}

// resetToFocusLocked returns the machine to Idle(Focus) with the full
// study interval. Callers hold m.mu.
func (m *Machine) resetToFocusLocked() {
	m.phase = PhaseFocus
	m.run = RunIdle
	m.remaining = m.cfg.StudySeconds()
}

// handleTick is the scheduler's tick callback. Ticks landing after the
// run logically ended are dropped.
func (m *Machine) handleTick(remaining int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.run != RunRunning {
		return
	}
	m.remaining = remaining
}

// handleComplete is the scheduler's single completion callback. A focus
// completion surfaces the question-entry prompt; a break completion
// resets to Idle(Focus) with no session recorded.
func (m *Machine) handleComplete() {
	m.mu.Lock()

	if m.run != RunRunning {
		m.mu.Unlock()
		return
	}

	hooks := m.hooks
	if m.phase == PhaseBreak {
		m.resetToFocusLocked()
		m.mu.Unlock()
		hooks.Sound.Play(sound.CueComplete)
		hooks.Notify.Notify("Break over", "Back to it — the next focus block is ready.")
		return
	}

	m.run = RunIdle
	m.remaining = 0
	m.pending = &Pending{
		Trigger:        TriggerCompleted,
		ElapsedSeconds: m.cfg.StudySeconds(),
		Subject:        m.subject,
		At:             m.now(),
	}
	m.mu.Unlock()

	hooks.Sound.Play(sound.CueComplete)
	hooks.Notify.Notify("Focus complete", "Log your questions to start the break.")
}
