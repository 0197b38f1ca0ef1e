package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/allthriveai/showcase/internal/adapters/driven/config/file"
	"github.com/allthriveai/showcase/internal/adapters/driven/storage/sqlite"
)

var errRequiredOwner = errors.New("--owner-id is required")

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List an owner's ingested projects",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&flagOwnerID, "owner-id", "", "owning user identifier (required)")
	listCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.showcase/data)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if flagOwnerID == "" {
		return errRequiredOwner
	}

	configPath := flagConfig
	if configPath == "" {
		var err error
		if configPath, err = file.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := file.Load(configPath)
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	projects, err := store.ProjectStore().ListByOwner(cmd.Context(), flagOwnerID)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		cmd.Println("No projects found.")
		return nil
	}

	for _, p := range projects {
		state := "draft"
		if p.Published {
			state = "published"
		}
		cmd.Printf("%-30s %-10s %6d stars  %s\n", p.Path(), state, p.Stars, p.SourceURL)
	}
	return nil
}
