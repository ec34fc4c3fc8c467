package cmd

import (
	"github.com/spf13/cobra"

	"github.com/HugoSbl/clipster/internal/storage"
)

var (
	listLimit  int
	listOffset int
	listKind   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List clipboard history (unpinned items, newest first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		var items []*storage.ClipboardItem
		if listKind != "" {
			items, err = repo.ListByType(cmd.Context(), storage.ContentType(listKind), listLimit)
		} else {
			items, err = repo.ListHistory(cmd.Context(), listLimit, listOffset)
		}
		if err != nil {
			return err
		}
		return printItems(items)
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum items to show")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Pagination offset")
	listCmd.Flags().StringVar(&listKind, "kind", "", "Filter by kind (text, link, image, files, audio, documents)")
	rootCmd.AddCommand(listCmd)
}
