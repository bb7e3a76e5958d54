package timer

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/akshat/stint/internal/router"
	"github.com/akshat/stint/internal/screen"
	"github.com/akshat/stint/internal/session"
	"github.com/akshat/stint/internal/store"
	tmr "github.com/akshat/stint/internal/timer"
	"github.com/akshat/stint/internal/ui/components"
	"github.com/akshat/stint/internal/ui/layout"
)

// mode is the screen's interaction mode. The clock is always the base
// view; subject selection and question entry overlay it.
type mode int

const (
	modeClock mode = iota
	modeSubject
	modeEntry
)

type tickMsg time.Time

type subjectsLoadedMsg struct {
	Subjects []session.Subject
	Err      error
}

// TimerScreen renders the countdown and drives the machine through
// start, pause, stop, and finalization entry.
type TimerScreen struct {
	machine  *tmr.Machine
	subjects store.SubjectRepo

	mode mode
	snap tmr.Snapshot

	// subject picker
	subjectList     []session.Subject
	subjectSelected int
	startAfterPick  bool

	// question entry
	totalInput   components.TextInput
	correctInput components.TextInput
	entryFocus   int // 0 = total, 1 = correct
	entryErr     string
}

var _ screen.Screen = (*TimerScreen)(nil)
var _ screen.KeyHintProvider = (*TimerScreen)(nil)

// New creates a new TimerScreen over the shared machine.
func New(machine *tmr.Machine, subjects store.SubjectRepo) *TimerScreen {
	return &TimerScreen{
		machine:  machine,
		subjects: subjects,
		snap:     machine.Snapshot(),
	}
}

func (s *TimerScreen) Init() tea.Cmd {
	return tickCmd()
}

func (s *TimerScreen) Title() string {
	switch s.snap.Phase {
	case tmr.PhaseBreak:
		return "Break"
	default:
		return "Focus"
	}
}

func (s *TimerScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeSubject:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeEntry:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Save"},
			{Key: "S", Description: "Skip"},
		}
	}

	hints := []layout.KeyHint{}
	if s.snap.Run == tmr.RunRunning {
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Pause"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Start"})
	}
	hints = append(hints, layout.KeyHint{Key: "X", Description: "Stop"})
	if s.snap.Run == tmr.RunIdle && s.snap.Phase == tmr.PhaseFocus {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Subject"})
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	return hints
}

func (s *TimerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		s.refresh()
		return s, tickCmd()

	case subjectsLoadedMsg:
		if msg.Err != nil || len(msg.Subjects) == 0 {
			// Nothing to pick; start straight away if that was the intent.
			s.mode = modeClock
			if s.startAfterPick {
				s.startAfterPick = false
				s.machine.Start()
				s.refresh()
			}
			return s, nil
		}
		s.subjectList = msg.Subjects
		s.subjectSelected = 0
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.mode == modeEntry {
		return s.updateEntryInputs(msg)
	}
	return s, nil
}

// refresh pulls the latest machine snapshot and flips into entry mode
// when a finished run is waiting on the prompt. Natural completions
// surface here because the scheduler fires off the UI thread.
func (s *TimerScreen) refresh() {
	s.snap = s.machine.Snapshot()
	if s.snap.AwaitingEntry && s.mode != modeEntry {
		s.openEntry()
	}
	if !s.snap.AwaitingEntry && s.mode == modeEntry {
		s.mode = modeClock
	}
}

func (s *TimerScreen) openEntry() {
	s.mode = modeEntry
	s.entryFocus = 0
	s.entryErr = ""
	s.totalInput = components.NewTextInput("0", true, 4)
	s.correctInput = components.NewTextInput("0", true, 4)
}

func (s *TimerScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.mode {
	case modeSubject:
		return s.handleSubjectKey(key)
	case modeEntry:
		return s.handleEntryKey(key, msg)
	}

	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case " ", "space", "enter":
		if s.snap.Run == tmr.RunRunning {
			s.machine.Pause()
			s.refresh()
			return s, nil
		}
		// A fresh focus run goes through subject selection first when
		// subjects exist.
		if s.snap.Fresh && s.snap.Run == tmr.RunIdle && s.snap.Phase == tmr.PhaseFocus {
			s.mode = modeSubject
			s.subjectList = nil
			s.startAfterPick = true
			return s, s.loadSubjects()
		}
		s.machine.Start()
		s.refresh()
		return s, nil
	case "x":
		s.machine.Stop()
		s.refresh()
		return s, nil
	case "s":
		if s.snap.Run == tmr.RunIdle && s.snap.Phase == tmr.PhaseFocus {
			s.mode = modeSubject
			s.subjectList = nil
			return s, s.loadSubjects()
		}
	}
	return s, nil
}

func (s *TimerScreen) loadSubjects() tea.Cmd {
	repo := s.subjects
	return func() tea.Msg {
		if repo == nil {
			return subjectsLoadedMsg{}
		}
		subjects, err := repo.List(context.Background())
		return subjectsLoadedMsg{Subjects: subjects, Err: err}
	}
}

func (s *TimerScreen) handleSubjectKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "esc":
		s.mode = modeClock
		s.startAfterPick = false
		return s, nil
	case "up", "k":
		if s.subjectSelected > 0 {
			s.subjectSelected--
		}
	case "down", "j":
		// Index len(subjectList) is the trailing free-study entry.
		if s.subjectSelected < len(s.subjectList) {
			s.subjectSelected++
		}
	case "enter":
		name := session.FreeStudySubject
		if s.subjectSelected < len(s.subjectList) {
			name = s.subjectList[s.subjectSelected].Name
		}
		s.machine.SelectSubject(name)
		s.mode = modeClock
		if s.startAfterPick {
			s.startAfterPick = false
			s.machine.Start()
		}
		s.refresh()
	}
	return s, nil
}

func (s *TimerScreen) handleEntryKey(key string, msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch key {
	case "tab", "shift+tab", "up", "down":
		s.entryFocus = 1 - s.entryFocus
		return s, nil
	case "s", "S":
		return s, s.resolve(func(ctx context.Context) error {
			_, err := s.machine.Skip(ctx)
			return err
		})
	case "enter":
		if s.entryFocus == 0 {
			s.entryFocus = 1
			return s, nil
		}
		total, err := s.totalInput.NumericValue()
		if err != nil {
			total = 0
		}
		correct, err := s.correctInput.NumericValue()
		if err != nil {
			correct = 0
		}
		return s, s.resolve(func(ctx context.Context) error {
			_, err := s.machine.Submit(ctx, total, correct, session.TypeQuestion)
			return err
		})
	}
	return s.updateEntryInputs(msg)
}

// resolve runs a finalization synchronously. On failure the prompt stays
// open so the counts are not lost.
func (s *TimerScreen) resolve(fn func(ctx context.Context) error) tea.Cmd {
	if err := fn(context.Background()); err != nil {
		s.entryErr = "could not save: " + err.Error()
		return nil
	}
	s.entryErr = ""
	s.refresh()
	return nil
}

func (s *TimerScreen) updateEntryInputs(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	if s.entryFocus == 0 {
		s.totalInput, cmd = s.totalInput.Update(msg)
	} else {
		s.correctInput, cmd = s.correctInput.Update(msg)
	}
	return s, cmd
}

// tickCmd polls the machine snapshot a few times a second. The machine
// owns the real countdown; this cadence only bounds display latency.
func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
