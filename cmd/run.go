package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/akshat/stint/internal/app"
	"github.com/akshat/stint/internal/config"
	"github.com/akshat/stint/internal/notify"
	"github.com/akshat/stint/internal/sound"
	"github.com/akshat/stint/internal/stats"
	"github.com/akshat/stint/internal/store"
	"github.com/akshat/stint/internal/timer"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the timer UI (same as bare stint)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	timerCfg, err := cfg.Timer()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := openLogger(dbPath)

	hooks := timer.Hooks{
		Sound:  sound.Safe{Inner: sound.Muted{}, Logger: logger},
		Notify: notify.Safe{Inner: notify.Muted{}, Logger: logger},
	}
	if cfg.Sound {
		hooks.Sound.Inner = sound.Beeper{}
	}
	if cfg.Notifications {
		hooks.Notify.Inner = notify.Desktop{}
	}

	sessions := st.SessionRepo()
	machine := timer.NewMachine(timerCfg, timer.NewFinalizer(sessions), hooks)
	defer machine.Teardown()

	return app.Run(app.Options{
		Machine:     machine,
		StatsView:   stats.NewView(sessions),
		SubjectRepo: st.SubjectRepo(),
	})
}

// openLogger writes collaborator failures to a log file next to the
// database. Stderr belongs to the alt screen while the TUI runs.
func openLogger(dbPath string) *log.Logger {
	path := filepath.Join(filepath.Dir(dbPath), "stint.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(os.Stderr)
	}
	return log.New(f)
}
