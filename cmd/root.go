package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HugoSbl/clipster/internal/config"
	"github.com/HugoSbl/clipster/internal/storage"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "clipster",
	Short: "Clipboard history daemon",
	Long:  "Clipster watches the system clipboard, classifies and deduplicates captures, and keeps a searchable, pinnable history.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON output")
}

// openStore loads config and opens the repository, shared by all query
// commands.
func openStore() (*config.Config, *storage.Repository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	repo, err := storage.NewRepository(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, repo, nil
}

func newFileStore(cfg *config.Config) (*storage.FileStore, error) {
	return storage.NewFileStore(cfg.ImagesDir())
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printItems(items []*storage.ClipboardItem) error {
	if jsonOutput {
		return printJSON(items)
	}
	for _, item := range items {
		fmt.Printf("%s  %-9s  %s\n", item.ID, item.Kind, preview(item))
	}
	return nil
}

// preview renders a one-line description of an item for terminal output.
func preview(item *storage.ClipboardItem) string {
	switch item.Kind {
	case storage.TypeImage:
		return "[image] " + item.ImagePath
	case storage.TypeFiles, storage.TypeAudio, storage.TypeDocuments:
		paths := item.FilePaths()
		if len(paths) == 1 {
			return paths[0]
		}
		return fmt.Sprintf("%d files", len(paths))
	default:
		text := item.Payload
		if len(text) > 80 {
			text = text[:80] + "..."
		}
		for i := 0; i < len(text); i++ {
			if text[i] == '\n' {
				return text[:i] + " ..."
			}
		}
		return text
	}
}
