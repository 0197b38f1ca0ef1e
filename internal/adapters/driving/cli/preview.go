package cli

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/allthriveai/showcase/internal/adapters/driven/config/file"
	"github.com/allthriveai/showcase/internal/core/ports/driving"
	"github.com/allthriveai/showcase/internal/core/services"
	"github.com/allthriveai/showcase/internal/parser"
)

var previewCmd = &cobra.Command{
	Use:   "preview [repository-url]",
	Short: "Run the pipeline without persisting, printing the draft as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&flagToken, "token", "", "GitHub access token (default $GITHUB_TOKEN)")
	previewCmd.Flags().StringVar(&flagAnthropicKey, "anthropic-key", "", "Anthropic API key (default $ANTHROPIC_API_KEY)")
	previewCmd.Flags().StringVar(&flagModel, "model", "", "Anthropic model name")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
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
	applyFlagOverrides(&cfg)

	token := flagToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		token = cfg.GitHub.Token
	}
	if token == "" {
		return errors.New("a GitHub token is required: --token, $GITHUB_TOKEN or github.token in config")
	}

	llm, err := buildLLM(cmd, cfg)
	if err != nil {
		return err
	}
	if llm != nil {
		defer llm.Close()
	}

	svc := services.NewIngestionService(
		repoFactory(cfg),
		parser.New(cfg.Parser),
		services.NewDiagramSynthesizer(llm),
		services.NewMetadataEnricher(llm),
		nil,
	)

	draft, err := svc.Draft(cmd.Context(), driving.IngestRequest{
		RepositoryURL: args[0],
		Credential:    token,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(draft.PersistedContent(), "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
