package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show history and storage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		count, err := repo.CountHistory(cmd.Context())
		if err != nil {
			return err
		}
		pinboards, err := repo.ListPinboards(cmd.Context())
		if err != nil {
			return err
		}

		var imageBytes int64
		if files, ferr := newFileStore(cfg); ferr == nil {
			imageBytes, _ = files.TotalSize()
		}

		if jsonOutput {
			return printJSON(map[string]interface{}{
				"history_items": count,
				"history_limit": repo.HistoryLimit(cmd.Context()),
				"pinboards":     len(pinboards),
				"image_bytes":   imageBytes,
			})
		}
		fmt.Printf("history: %d items (limit %d)\n", count, repo.HistoryLimit(cmd.Context()))
		fmt.Printf("pinboards: %d\n", len(pinboards))
		fmt.Printf("image storage: %d bytes\n", imageBytes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
