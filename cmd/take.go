package cmd

import (
	"fmt"

	"github.com/sailshr/wow/internal/app"
	"github.com/sailshr/wow/internal/progress"
	"github.com/spf13/cobra"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Open the assessment dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the progress store, loads configuration, and launches
// the TUI.
func runApp(cmd *cobra.Command) error {
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

	return app.Run(cfg, st)
}
