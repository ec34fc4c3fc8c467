package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/HugoSbl/clipster/internal/storage"
)

var pinboardIcon string

var pinboardCmd = &cobra.Command{
	Use:   "pinboard",
	Short: "Manage pinboards",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		pinboards, err := repo.ListPinboards(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(pinboards)
		}
		for _, pb := range pinboards {
			fmt.Printf("%s  %2d  %s\n", pb.ID, pb.Position, pb.Name)
		}
		return nil
	},
}

var pinboardCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a pinboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		existing, err := repo.ListPinboards(cmd.Context())
		if err != nil {
			return err
		}

		pb := &storage.Pinboard{
			ID:        uuid.NewString(),
			Name:      args[0],
			Icon:      pinboardIcon,
			Position:  len(existing),
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.InsertPinboard(cmd.Context(), pb); err != nil {
			return err
		}
		fmt.Println(pb.ID)
		return nil
	},
}

var pinboardRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a pinboard",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		pb, err := repo.GetPinboard(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		icon := pb.Icon
		if pinboardIcon != "" {
			icon = pinboardIcon
		}
		return repo.UpdatePinboard(cmd.Context(), args[0], args[1], icon)
	},
}

var pinboardDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a pinboard; its items return to history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		return repo.DeletePinboard(cmd.Context(), args[0])
	},
}

var pinboardItemsCmd = &cobra.Command{
	Use:   "items <id>",
	Short: "List items in a pinboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		items, err := repo.ListPinboardItems(cmd.Context(), args[0], 100)
		if err != nil {
			return err
		}
		return printItems(items)
	},
}

var pinboardReorderCmd = &cobra.Command{
	Use:   "reorder <id>...",
	Short: "Reorder pinboards to match the given id sequence",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		return repo.ReorderPinboards(cmd.Context(), args)
	},
}

func init() {
	pinboardCreateCmd.Flags().StringVar(&pinboardIcon, "icon", "", "Icon identifier")
	pinboardRenameCmd.Flags().StringVar(&pinboardIcon, "icon", "", "Icon identifier")
	pinboardCmd.AddCommand(pinboardCreateCmd, pinboardRenameCmd, pinboardDeleteCmd, pinboardItemsCmd, pinboardReorderCmd)
	rootCmd.AddCommand(pinboardCmd)
}
