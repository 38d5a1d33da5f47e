package cmd

import (
	"context"
	"fmt"

	"github.com/sailshr/wow/internal/remote"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past assessments per band",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := resolveConfig(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
		defer cancel()

		client := remote.NewClient(cfg.ServerURL, cfg.Timeout)
		entries, err := client.FetchHistory(ctx, cfg.EmployeeID)
		if err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No assessments yet.")
			return nil
		}

		for _, e := range entries {
			if e.Completed() {
				fmt.Printf("Band %-4s %s  score %.1f  Completed\n",
					e.Band, e.CompletedAt.Format("Jan 02, 2006"), e.TotalScore)
				for _, cs := range e.CategoryScores {
					fmt.Printf("  %-38s %.1f\n", cs.Category, cs.Score)
				}
			} else {
				fmt.Printf("Band %-4s %s\n", e.Band, e.Status)
			}
		}
		return nil
	},
}
