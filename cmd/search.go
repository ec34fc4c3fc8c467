package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search history by payload substring",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		_, repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		items, err := repo.SearchItems(cmd.Context(), query, searchLimit)
		if err != nil {
			return err
		}
		return printItems(items)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum items to show")
	rootCmd.AddCommand(searchCmd)
}
