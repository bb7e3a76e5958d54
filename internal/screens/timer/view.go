package timer

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/akshat/stint/internal/session"
	tmr "github.com/akshat/stint/internal/timer"
	"github.com/akshat/stint/internal/ui/components"
	"github.com/akshat/stint/internal/ui/theme"
)

func (s *TimerScreen) View(width, height int) string {
	switch s.mode {
	case modeSubject:
		return s.renderSubjectPicker(width, height)
	case modeEntry:
		return s.renderEntry(width, height)
	}
	return s.renderClock(width, height)
}

func (s *TimerScreen) renderClock(width, height int) string {
	snap := s.snap

	phaseStyle := theme.Focus
	phaseLabel := "FOCUS"
	if snap.Phase == tmr.PhaseBreak {
		phaseStyle = theme.Break
		phaseLabel = "BREAK"
	}
	if snap.Run == tmr.RunPaused {
		phaseStyle = theme.Paused
		phaseLabel += " · PAUSED"
	}

	var lines []string
	lines = append(lines, phaseStyle.Render(phaseLabel), "")
	lines = append(lines, renderBigClock(snap.RemainingSeconds))
	lines = append(lines, "")

	cfg := s.machine.Config()
	full := cfg.StudySeconds()
	if snap.Phase == tmr.PhaseBreak {
		full = cfg.BreakSeconds()
	}
	var pct float64
	if full > 0 {
		pct = 1 - float64(snap.RemainingSeconds)/float64(full)
	}
	barWidth := width / 2
	if barWidth > 48 {
		barWidth = 48
	}
	lines = append(lines, components.NewProgressBar("", pct, false, barWidth).View(), "")

	subject := snap.Subject
	if subject == "" {
		subject = session.FreeStudySubject
	}
	lines = append(lines, theme.Hint.Render(subject))

	if snap.Run == tmr.RunIdle && snap.Phase == tmr.PhaseFocus {
		lines = append(lines, "", theme.Hint.Render("press space to start a focus run"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *TimerScreen) renderSubjectPicker(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("What are you studying?"))
	b.WriteString("\n\n")

	if s.subjectList == nil {
		b.WriteString(theme.Hint.Render("Loading subjects..."))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
	}

	names := make([]string, 0, len(s.subjectList)+1)
	for _, subj := range s.subjectList {
		names = append(names, subj.Name)
	}
	names = append(names, session.FreeStudySubject)

	for i, name := range names {
		if i == s.subjectSelected {
			b.WriteString(theme.Selected.Render("▸ " + name))
		} else {
			b.WriteString(theme.Unselected.Render("  " + name))
		}
		b.WriteString("\n")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (s *TimerScreen) renderEntry(width, height int) string {
	pending := s.machine.Pending()

	title := "Session finished!"
	if pending != nil && pending.Trigger == tmr.TriggerStopped {
		mins := (pending.ElapsedSeconds + 59) / 60
		if mins < 1 {
			mins = 1
		}
		title = fmt.Sprintf("Stopped after %dm", mins)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("How many questions did you solve?"))
	b.WriteString("\n\n")

	totalLabel := "  Attempted  "
	correctLabel := "  Correct    "
	if s.entryFocus == 0 {
		totalLabel = "▸ Attempted  "
	} else {
		correctLabel = "▸ Correct    "
	}

	b.WriteString(theme.Body.Render(totalLabel) + s.totalInput.View())
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(correctLabel) + s.correctInput.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("press S to log as theory study instead"))

	if s.entryErr != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.entryErr))
	}

	card := theme.Card.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// renderBigClock renders mm:ss in a block-digit face.
func renderBigClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	text := fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)

	rows := make([]string, digitHeight)
	for _, ch := range text {
		glyph, ok := digitGlyphs[ch]
		if !ok {
			glyph = digitGlyphs[' ']
		}
		for i := 0; i < digitHeight; i++ {
			rows[i] += glyph[i] + " "
		}
	}

	return lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(strings.Join(rows, "\n"))
}

const digitHeight = 5

var digitGlyphs = map[rune][digitHeight]string{
	'0': {"█▀▀█", "█  █", "█  █", "█  █", "█▄▄█"},
	'1': {"  █ ", " ██ ", "  █ ", "  █ ", " ███"},
	'2': {"▀▀▀█", "   █", "█▀▀▀", "█   ", "█▄▄▄"},
	'3': {"▀▀▀█", "   █", " ▀▀█", "   █", "▄▄▄█"},
	'4': {"█  █", "█  █", "▀▀▀█", "   █", "   █"},
	'5': {"█▀▀▀", "█   ", "▀▀▀█", "   █", "▄▄▄█"},
	'6': {"█▀▀▀", "█   ", "█▀▀█", "█  █", "█▄▄█"},
	'7': {"▀▀▀█", "   █", "   █", "   █", "   █"},
	'8': {"█▀▀█", "█  █", "█▀▀█", "█  █", "█▄▄█"},
	'9': {"█▀▀█", "█  █", "▀▀▀█", "   █", "▄▄▄█"},
	':': {"    ", " ▀  ", "    ", " ▀  ", "    "},
	' ': {"    ", "    ", "    ", "    ", "    "},
}
