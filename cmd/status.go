package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sailshr/wow/internal/assessment"
	"github.com/sailshr/wow/internal/progress"
	"github.com/sailshr/wow/internal/remote"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-competency progress without opening the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := resolveConfig(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve progress path: %w", err)
		}
		st, err := progress.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open progress store: %w", err)
		}
		defer st.Close()

		completions := st.LoadCompletions()
		draft := st.LoadDraft()

		fmt.Printf("Band %s · employee %s\n\n", cfg.Band, cfg.EmployeeID)

		for i, cat := range assessment.Categories {
			status := "Locked"
			switch {
			case completions.Confirmed(i):
				status = fmt.Sprintf("Completed (%s)",
					completions[i].SubmittedAt.Format("Jan 02, 2006"))
			case draft != nil && draft.CategoryIndex == i && len(draft.Answers) > 0:
				status = fmt.Sprintf("In progress (%d/%d)",
					draft.Answers.AnsweredCount(i), assessment.QuestionsPerCategory)
			case assessment.IsUnlocked(cat, completions, false):
				status = "Not started"
			}
			fmt.Printf("  %d. %-38s %s\n", cat.Order, cat.Name, status)
		}

		// Cooldown requires the server; degrade quietly if unreachable.
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
		defer cancel()
		client := remote.NewClient(cfg.ServerURL, cfg.Timeout)
		entries, err := client.FetchHistory(ctx, cfg.EmployeeID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "\nServer unreachable; cooldown status unknown.")
			return nil
		}

		for _, e := range entries {
			if e.Band != cfg.Band || !e.Completed() {
				continue
			}
			comp := assessment.Completion{Band: e.Band, CompletedAt: e.CompletedAt}
			if comp.OnCooldown(time.Now()) {
				fmt.Printf("\nCooldown: %d days remaining (next attempt %s)\n",
					comp.DaysRemaining(time.Now()),
					comp.NextAvailableAt().Format("Jan 02, 2006"))
			}
			break
		}
		return nil
	},
}
