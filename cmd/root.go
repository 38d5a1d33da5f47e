package cmd

import (
	"github.com/sailshr/wow/internal/config"
	"github.com/sailshr/wow/internal/progress"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wow",
	Short: "Way of Working competency self-assessment",
	Long:  "WoW — terminal client for the Way of Working competency self-assessment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite progress file (overrides WOW_DB env var)")
	rootCmd.PersistentFlags().String("employee", "", "Employee ID (overrides WOW_EMPLOYEE_ID env var)")
	rootCmd.PersistentFlags().String("band", "", "Competency band, e.g. 2A (overrides WOW_BAND env var)")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the progress file path using --db flag (highest
// priority), then WOW_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, progress.EnsureDir(p)
	}
	return progress.DefaultDBPath()
}

// resolveConfig loads env configuration and applies flag overrides.
func resolveConfig(cmd *cobra.Command) config.Config {
	cfg := config.FromEnv()
	if v, _ := cmd.Flags().GetString("employee"); v != "" {
		cfg.EmployeeID = v
	}
	if v, _ := cmd.Flags().GetString("band"); v != "" {
		cfg.Band = v
	}
	return cfg
}
