package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HugoSbl/clipster/internal/update"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer release",
	RunE: func(cmd *cobra.Command, args []string) error {
		checker, err := update.NewChecker()
		if err != nil {
			return err
		}

		hasUpdate, release, err := checker.Check(cmd.Context())
		if err != nil {
			return fmt.Errorf("update check failed: %w", err)
		}

		if !hasUpdate {
			fmt.Printf("clipster %s is up to date\n", update.Version)
			return nil
		}
		fmt.Printf("version %s is available (current: %s)\n%s\n", release.Version(), update.Version, release.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
