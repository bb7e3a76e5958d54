package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akshat/stint/internal/router"
	"github.com/akshat/stint/internal/screen"
	"github.com/akshat/stint/internal/screens/home"
	"github.com/akshat/stint/internal/stats"
	"github.com/akshat/stint/internal/store"
	"github.com/akshat/stint/internal/timer"
	"github.com/akshat/stint/internal/ui/layout"
)

// Options carries the wired dependencies into the TUI.
type Options struct {
	Machine     *timer.Machine
	StatsView   *stats.View
	SubjectRepo store.SubjectRepo
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Machine, opts.StatsView, opts.SubjectRepo)
	return AppModel{
		opts:   opts,
		router: router.New(homeScreen),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				cmd := m.router.Update(msg)
				return m, cmd
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	streak, minutes := m.headerStats()
	header := layout.RenderHeader(title, streak, minutes, m.width)

	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// headerStats reads the streak and today's minutes off the memoized
// stats view. Reads are cheap between appends, so doing this per frame
// is fine. Errors degrade to zeros rather than breaking the frame.
func (m AppModel) headerStats() (streak, minutesToday int) {
	if m.opts.StatsView == nil {
		return 0, 0
	}
	ctx := context.Background()

	streak, _ = m.opts.StatsView.Streak(ctx)
	buckets, err := m.opts.StatsView.Buckets(ctx)
	if err == nil {
		today := time.Now().Format(stats.DateLayout)
		if b := buckets[today]; b != nil {
			minutesToday = b.Totals.DurationMinutes
		}
	}
	return streak, minutesToday
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if provider, ok := active.(screen.KeyHintProvider); ok {
		if hints := provider.KeyHints(); hints != nil {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
