package cmd

import (
	"fmt"

	"github.com/sailshr/wow/internal/progress"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear locally cached progress",
	Long:  "Clears the local draft and completion cache. Submitted answers on the server are not affected.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Println("This clears the local draft and completion cache. Re-run with --yes to confirm.")
			return nil
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

		if err := st.Reset(); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		fmt.Println("Local progress cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm clearing local progress")
}
