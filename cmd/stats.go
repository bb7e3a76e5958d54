package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akshat/stint/internal/stats"
	"github.com/akshat/stint/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streak and per-day study totals",
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

		ctx := cmd.Context()
		view := stats.NewView(st.SessionRepo())

		streak, err := view.Streak(ctx)
		if err != nil {
			return fmt.Errorf("compute streak: %w", err)
		}
		days, err := view.Days(ctx)
		if err != nil {
			return fmt.Errorf("compute rollups: %w", err)
		}

		fmt.Printf("Streak: %d day(s)\n\n", streak)
		if len(days) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		limit, _ := cmd.Flags().GetInt("days")
		if limit > 0 && len(days) > limit {
			days = days[:limit]
		}

		today := time.Now().Format(stats.DateLayout)
		for _, day := range days {
			marker := " "
			if day.Date == today {
				marker = "*"
			}
			fmt.Printf("%s %s  %4dm  %d session(s)", marker, day.Date,
				day.Totals.DurationMinutes, day.Sessions)
			if day.Totals.Questions > 0 {
				fmt.Printf("  %d/%d correct", day.Totals.Correct, day.Totals.Questions)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("days", 14, "Number of most recent days to show (0 for all)")
}
