package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akshat/stint/internal/session"
	"github.com/akshat/stint/internal/store"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the session log, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		all, err := st.SessionRepo().All(cmd.Context())
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		shown := 0
		for i := len(all) - 1; i >= 0; i-- {
			if limit > 0 && shown == limit {
				break
			}
			s := all[i]
			fmt.Printf("%s  %-20s %3dm", s.Timestamp.Format("2006-01-02 15:04"), s.Subject, s.DurationMinutes)
			if s.Type == session.TypeQuestion {
				fmt.Printf("  %d/%d correct", s.QuestionsCorrect, s.QuestionsTotal)
			} else {
				fmt.Print("  theory")
			}
			fmt.Println()
			shown++
		}
		return nil
	},
}

func init() {
	logCmd.Flags().Int("limit", 20, "Number of most recent sessions to show (0 for all)")
}
