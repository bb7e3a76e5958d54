package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akshat/stint/internal/store"
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Manage study subjects",
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSubjects(cmd, func(repo store.SubjectRepo) error {
			subjects, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(subjects) == 0 {
				fmt.Println("No subjects yet. Add one with: stint subject add <name>")
				return nil
			}
			for _, s := range subjects {
				fmt.Println(s.Name)
			}
			return nil
		})
	},
}

var subjectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSubjects(cmd, func(repo store.SubjectRepo) error {
			color, _ := cmd.Flags().GetString("color")
			subject, err := repo.Add(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			fmt.Printf("Added subject %q\n", subject.Name)
			return nil
		})
	},
}

var subjectRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a subject",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSubjects(cmd, func(repo store.SubjectRepo) error {
			if err := repo.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed subject %q\n", args[0])
			return nil
		})
	},
}

func withSubjects(cmd *cobra.Command, fn func(store.SubjectRepo) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st.SubjectRepo())
}

func init() {
	subjectAddCmd.Flags().String("color", "", "Display color for the subject")

	subjectCmd.AddCommand(subjectListCmd)
	subjectCmd.AddCommand(subjectAddCmd)
	subjectCmd.AddCommand(subjectRemoveCmd)
}
