package timer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/akshat/stint/internal/session"
	tmr "github.com/akshat/stint/internal/timer"
)

// mockStore implements tmr.SessionStore for testing.
type mockStore struct {
	mu   sync.Mutex
	recs []session.Session
}

func (m *mockStore) Append(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Sequence = int64(len(m.recs) + 1)
	m.recs = append(m.recs, *s)
	return nil
}

// mockSubjectRepo implements store.SubjectRepo for testing.
type mockSubjectRepo struct {
	subjects []session.Subject
}

func (m *mockSubjectRepo) List(_ context.Context) ([]session.Subject, error) {
	return m.subjects, nil
}
func (m *mockSubjectRepo) Add(_ context.Context, name, color string) (session.Subject, error) {
	s := session.Subject{ID: name, Name: name, Color: color}
	m.subjects = append(m.subjects, s)
	return s, nil
}
func (m *mockSubjectRepo) Remove(_ context.Context, _ string) error { return nil }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testTimerScreen(subjects []session.Subject) (*TimerScreen, *mockStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)}
	store := &mockStore{}

	fin := tmr.NewFinalizer(store, tmr.WithFinalizerClock(clock.Now))
	machine := tmr.NewMachine(tmr.Config{StudyMinutes: 25, BreakMinutes: 5}, fin, tmr.Hooks{},
		tmr.WithMachineClock(clock.Now),
		tmr.WithMachineTickInterval(0),
	)

	s := New(machine, &mockSubjectRepo{subjects: subjects})
	return s, store, clock
}

// deliver runs a returned command and feeds the message back in,
// mirroring what the Bubble Tea runtime does.
func deliver(t *testing.T, s *TimerScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		s.Update(msg)
	}
}

// press sends a key and delivers any resulting command.
func press(t *testing.T, s *TimerScreen, msg tea.KeyPressMsg) {
	t.Helper()
	_, cmd := s.Update(msg)
	deliver(t, s, cmd)
}

func TestFreshStartGoesThroughSubjectPicker(t *testing.T) {
	s, _, _ := testTimerScreen([]session.Subject{{Name: "Algebra"}})

	_, cmd := s.Update(keyPress(' '))
	deliver(t, s, cmd)

	view := s.View(100, 30)
	if !strings.Contains(view, "Algebra") {
		t.Fatalf("expected subject picker with Algebra, got:\n%s", view)
	}
	if s.machine.Snapshot().Run != tmr.RunIdle {
		t.Error("machine should not start before a subject is chosen")
	}

	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})

	snap := s.machine.Snapshot()
	if snap.Run != tmr.RunRunning {
		t.Errorf("expected running after selection, got %v", snap.Run)
	}
	if snap.Subject != "Algebra" {
		t.Errorf("expected subject Algebra, got %q", snap.Subject)
	}
}

func TestFreshStartWithoutSubjectsStartsImmediately(t *testing.T) {
	s, _, _ := testTimerScreen(nil)

	_, cmd := s.Update(keyPress(' '))
	deliver(t, s, cmd)

	snap := s.machine.Snapshot()
	if snap.Run != tmr.RunRunning {
		t.Errorf("expected running, got %v", snap.Run)
	}
	if snap.Subject != "" && snap.Subject != session.FreeStudySubject {
		t.Errorf("unexpected subject %q", snap.Subject)
	}
}

func TestStopOpensEntryPrompt(t *testing.T) {
	s, _, clock := testTimerScreen(nil)

	press(t, s, keyPress(' '))
	clock.Advance(5 * time.Minute)

	press(t, s, keyPress('x'))

	view := s.View(100, 30)
	if !strings.Contains(view, "questions") {
		t.Fatalf("expected question entry prompt, got:\n%s", view)
	}
	if !strings.Contains(view, "Stopped after 5m") {
		t.Errorf("expected stop summary in prompt, got:\n%s", view)
	}
}

func TestSkipLogsTheorySession(t *testing.T) {
	s, store, clock := testTimerScreen(nil)

	press(t, s, keyPress(' '))
	clock.Advance(10 * time.Minute)
	press(t, s, keyPress('x'))

	press(t, s, keyPress('s'))

	if len(store.recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(store.recs))
	}
	rec := store.recs[0]
	if rec.Type != session.TypeTheory {
		t.Errorf("expected theory session, got %v", rec.Type)
	}
	if rec.DurationMinutes != 10 {
		t.Errorf("expected 10 minutes, got %d", rec.DurationMinutes)
	}
	if rec.QuestionsTotal != 0 || rec.QuestionsCorrect != 0 {
		t.Errorf("expected zero counts, got %d/%d", rec.QuestionsCorrect, rec.QuestionsTotal)
	}
}

func TestSubmitRecordsQuestionCounts(t *testing.T) {
	s, store, clock := testTimerScreen(nil)

	press(t, s, keyPress(' '))
	clock.Advance(12 * time.Minute)
	press(t, s, keyPress('x'))

	// Attempted: 8, correct: 6.
	press(t, s, keyPress('8'))
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	press(t, s, keyPress('6'))
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})

	if len(store.recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(store.recs))
	}
	rec := store.recs[0]
	if rec.Type != session.TypeQuestion {
		t.Errorf("expected question session, got %v", rec.Type)
	}
	if rec.QuestionsTotal != 8 || rec.QuestionsCorrect != 6 {
		t.Errorf("expected 6/8, got %d/%d", rec.QuestionsCorrect, rec.QuestionsTotal)
	}

	// Prompt resolved; back on the clock.
	snap := s.machine.Snapshot()
	if snap.AwaitingEntry {
		t.Error("expected entry resolved")
	}
}

func TestZeroElapsedStopStaysOnClock(t *testing.T) {
	s, store, _ := testTimerScreen(nil)

	press(t, s, keyPress(' '))
	press(t, s, keyPress('x'))

	if len(store.recs) != 0 {
		t.Fatalf("expected no records, got %d", len(store.recs))
	}
	snap := s.machine.Snapshot()
	if snap.Run != tmr.RunIdle || snap.AwaitingEntry {
		t.Errorf("expected idle clock, got run=%v awaiting=%v", snap.Run, snap.AwaitingEntry)
	}
}
