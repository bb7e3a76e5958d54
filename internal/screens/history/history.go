package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/akshat/stint/internal/router"
	"github.com/akshat/stint/internal/screen"
	"github.com/akshat/stint/internal/session"
	"github.com/akshat/stint/internal/stats"
	"github.com/akshat/stint/internal/ui/layout"
	"github.com/akshat/stint/internal/ui/theme"
)

const maxSessionsShown = 50

type historyLoadedMsg struct {
	Sessions []session.Session
	Err      error
}

// HistoryScreen displays the raw session log, newest first.
type HistoryScreen struct {
	view     *stats.View
	sessions []session.Session
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(view *stats.View) *HistoryScreen {
	return &HistoryScreen{view: view}
}

func (s *HistoryScreen) Init() tea.Cmd {
	view := s.view
	return func() tea.Msg {
		all, err := view.Sessions(context.Background())
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Newest first, capped for display.
		reversed := make([]session.Session, 0, len(all))
		for i := len(all) - 1; i >= 0; i-- {
			reversed = append(reversed, all[i])
			if len(reversed) == maxSessionsShown {
				break
			}
		}
		return historyLoadedMsg{Sessions: reversed}
	}
}

func (s *HistoryScreen) Title() string {
	return "Session Log"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading session log...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start a timer!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		dateStr := sess.Timestamp.Format("Jan 02, 2006 15:04")

		detail := "theory"
		if sess.Type == session.TypeQuestion {
			detail = fmt.Sprintf("%d/%d correct  %.0f%%",
				sess.QuestionsCorrect, sess.QuestionsTotal, sess.Accuracy()*100)
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-20s %3dm  %s",
			prefix, dateStr, sess.Subject, sess.DurationMinutes, detail)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
