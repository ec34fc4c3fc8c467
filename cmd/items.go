package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		item, err := repo.GetItem(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(item)
		}
		fmt.Printf("%s  %-9s  %s\n", item.ID, item.Kind, preview(item))
		if item.SourceApp != "" {
			fmt.Printf("  from: %s\n", item.SourceApp)
		}
		fmt.Printf("  created: %s  favorite: %t", item.CreatedAt.Format("2006-01-02 15:04:05"), item.IsFavorite)
		if item.PinboardID != "" {
			fmt.Printf("  pinboard: %s", item.PinboardID)
		}
		fmt.Println()
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.DeleteItem(cmd.Context(), args[0]); err != nil {
			return err
		}

		// Image files are content-addressed by id; the removal is a no-op
		// for non-image items.
		if files, ferr := newFileStore(cfg); ferr == nil {
			_, _ = files.Remove(args[0])
		}
		fmt.Println("deleted", args[0])
		return nil
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle an item's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		favorite, err := repo.ToggleFavorite(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("favorite: %t\n", favorite)
		return nil
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <item-id> [pinboard-id]",
	Short: "Assign an item to a pinboard, or unpin it when no pinboard is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		pinboardID := ""
		if len(args) == 2 {
			pinboardID = args[1]
			if _, err := repo.GetPinboard(cmd.Context(), pinboardID); err != nil {
				return err
			}
		}
		return repo.SetItemPinboard(cmd.Context(), args[0], pinboardID)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all unpinned, non-favorite items",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		n, err := repo.ClearHistory(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d items\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd, deleteCmd, favoriteCmd, pinCmd, clearCmd)
}
