package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akshat/stint/internal/router"
	"github.com/akshat/stint/internal/screen"
	agg "github.com/akshat/stint/internal/stats"
	"github.com/akshat/stint/internal/ui/layout"
	"github.com/akshat/stint/internal/ui/theme"
)

const maxDaysShown = 14

type statsLoadedMsg struct {
	Streak int
	Days   []*agg.DayBucket
	Err    error
}

// StatsScreen displays the streak and per-day study rollups.
type StatsScreen struct {
	view *agg.View

	streak int
	days   []*agg.DayBucket
	loaded bool
	errMsg string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a new StatsScreen.
func New(view *agg.View) *StatsScreen {
	return &StatsScreen{view: view}
}

func (s *StatsScreen) Init() tea.Cmd {
	view := s.view
	return func() tea.Msg {
		ctx := context.Background()

		streak, err := view.Streak(ctx)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		days, err := view.Days(ctx)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		return statsLoadedMsg{Streak: streak, Days: days}
	}
}

func (s *StatsScreen) Title() string {
	return "Statistics"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.streak = msg.Streak
			s.days = msg.Days
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading statistics...")
	}
	if len(s.days) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start a timer!")
	}

	var b strings.Builder
	b.WriteString("\n")

	streakLine := fmt.Sprintf("★ %d day streak", s.streak)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(streakLine)))
	b.WriteString("\n\n")

	days := s.days
	if len(days) > maxDaysShown {
		days = days[:maxDaysShown]
	}

	today := time.Now().Format(agg.DateLayout)
	for _, day := range days {
		label := day.Date
		if day.Date == today {
			label = "Today     "
		} else if t, err := time.Parse(agg.DateLayout, day.Date); err == nil {
			label = t.Format("Mon Jan 02")
		}

		accuracy := ""
		if day.Totals.Questions > 0 {
			accuracy = fmt.Sprintf("  %.0f%% of %d",
				float64(day.Totals.Correct)/float64(day.Totals.Questions)*100,
				day.Totals.Questions)
		}

		line := fmt.Sprintf("%s   %3dm  %d session%s%s",
			label, day.Totals.DurationMinutes, day.Sessions,
			plural(day.Sessions), accuracy)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if day.Date == today {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		// Subject breakdown, heaviest first.
		for _, sub := range subjectsByMinutes(day.PerSubject) {
			subLine := fmt.Sprintf("    %s  %dm", sub.name, sub.totals.DurationMinutes)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(subLine)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

type subjectTotals struct {
	name   string
	totals agg.Totals
}

func subjectsByMinutes(perSubject map[string]agg.Totals) []subjectTotals {
	out := make([]subjectTotals, 0, len(perSubject))
	for name, totals := range perSubject {
		out = append(out, subjectTotals{name: name, totals: totals})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].totals.DurationMinutes != out[j].totals.DurationMinutes {
			return out[i].totals.DurationMinutes > out[j].totals.DurationMinutes
		}
		return out[i].name < out[j].name
	})
	return out
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
