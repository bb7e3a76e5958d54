package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akshat/stint/internal/router"
	"github.com/akshat/stint/internal/screen"
	"github.com/akshat/stint/internal/screens/history"
	statsscreen "github.com/akshat/stint/internal/screens/stats"
	timerscreen "github.com/akshat/stint/internal/screens/timer"
	"github.com/akshat/stint/internal/stats"
	"github.com/akshat/stint/internal/store"
	tmr "github.com/akshat/stint/internal/timer"
	"github.com/akshat/stint/internal/ui/components"
	"github.com/akshat/stint/internal/ui/theme"
)

type summaryLoadedMsg struct {
	Streak       int
	MinutesToday int
	Sessions     int
	Err          error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	machine *tmr.Machine
	view    *stats.View

	menu         components.Menu
	streak       int
	minutesToday int
	sessionCount int
	loaded       bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(machine *tmr.Machine, view *stats.View, subjects store.SubjectRepo) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START TIMER", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: timerscreen.New(machine, subjects)}
			}
		}},
		{Label: "STATISTICS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: statsscreen.New(view)}
			}
		}},
		{Label: "SESSION LOG", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(view)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		machine: machine,
		view:    view,
		menu:    components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadSummary()
}

// loadSummary reads today's totals and the streak off the session log.
func (h *HomeScreen) loadSummary() tea.Cmd {
	view := h.view
	return func() tea.Msg {
		ctx := context.Background()

		streak, err := view.Streak(ctx)
		if err != nil {
			return summaryLoadedMsg{Err: err}
		}

		buckets, err := view.Buckets(ctx)
		if err != nil {
			return summaryLoadedMsg{Err: err}
		}

		today := time.Now().Format(stats.DateLayout)
		var minutes, count int
		if b := buckets[today]; b != nil {
			minutes = b.Totals.DurationMinutes
			count = b.Sessions
		}

		return summaryLoadedMsg{Streak: streak, MinutesToday: minutes, Sessions: count}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		if msg.Err == nil {
			h.streak = msg.Streak
			h.minutesToday = msg.MinutesToday
			h.sessionCount = msg.Sessions
			h.loaded = true
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, tea.Batch(cmd, h.loadSummary())
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	title := theme.Title.Render("S T I N T")
	subtitle := theme.Subtitle.Render("focus timer + study log")
	sections = append(sections, title, subtitle, "")

	if h.loaded {
		summary := fmt.Sprintf("★ %d day streak    ◷ %dm today    %d sessions",
			h.streak, h.minutesToday, h.sessionCount)
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Align(lipgloss.Center).
			Render(summary), "")
	}

	sections = append(sections, h.menu.View())

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
