package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/allthriveai/showcase/internal/adapters/driven/config/file"
	"github.com/allthriveai/showcase/internal/adapters/driven/llm/anthropic"
	"github.com/allthriveai/showcase/internal/adapters/driven/storage/memory"
	"github.com/allthriveai/showcase/internal/adapters/driven/storage/sqlite"
	"github.com/allthriveai/showcase/internal/connectors/github"
	"github.com/allthriveai/showcase/internal/core/ports/driven"
	"github.com/allthriveai/showcase/internal/core/ports/driving"
	"github.com/allthriveai/showcase/internal/core/services"
	"github.com/allthriveai/showcase/internal/logger"
	"github.com/allthriveai/showcase/internal/parser"
)

var (
	flagToken        string
	flagOwnerID      string
	flagOwnerHandle  string
	flagDataDir      string
	flagAnthropicKey string
	flagModel        string
	flagPublish      bool
	flagShowcase     bool
	flagTimeout      time.Duration
	flagWorkers      int
	flagFromFile     string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [repository-url]",
	Short: "Ingest a GitHub repository into a portfolio project",
	Long: `Fetches a repository, parses its readme into content blocks, enriches
the result with AI-suggested metadata and an architecture diagram, and
persists the project. Re-ingesting the same repository updates the
existing project in place.

With --from-file, ingests every repository URL listed in the file (one
per line) through a bounded worker pool.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&flagToken, "token", "", "GitHub access token (default $GITHUB_TOKEN)")
	ingestCmd.Flags().StringVar(&flagOwnerID, "owner-id", "", "owning user identifier (required)")
	ingestCmd.Flags().StringVar(&flagOwnerHandle, "owner-handle", "", "owner's public handle (required)")
	ingestCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.showcase/data)")
	ingestCmd.Flags().StringVar(&flagAnthropicKey, "anthropic-key", "", "Anthropic API key (default $ANTHROPIC_API_KEY)")
	ingestCmd.Flags().StringVar(&flagModel, "model", "", "Anthropic model name")
	ingestCmd.Flags().BoolVar(&flagPublish, "publish", false, "publish the project immediately")
	ingestCmd.Flags().BoolVar(&flagShowcase, "showcase", false, "add the project to the owner's showcase")
	ingestCmd.Flags().DurationVar(&flagTimeout, "timeout", 2*time.Minute, "per-repository ingestion timeout")
	ingestCmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker count for --from-file batches")
	ingestCmd.Flags().StringVar(&flagFromFile, "from-file", "", "file listing repository URLs, one per line")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && flagFromFile == "" {
		return errors.New("a repository URL or --from-file is required")
	}
	if flagOwnerID == "" || flagOwnerHandle == "" {
		return errors.New("--owner-id and --owner-handle are required")
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

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	llm, err := buildLLM(cmd, cfg)
	if err != nil {
		return err
	}
	if llm != nil {
		defer llm.Close()
	}

	ingestor := buildIngestor(cfg, store, llm)

	req := driving.IngestRequest{
		OwnerID:       flagOwnerID,
		OwnerHandle:   flagOwnerHandle,
		Credential:    token,
		AutoPublish:   flagPublish,
		AddToShowcase: flagShowcase,
	}

	if flagFromFile != "" {
		return runBatch(cmd, ingestor, req, cfg.Workers)
	}

	req.RepositoryURL = args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	result, err := ingestor.Ingest(ctx, req)
	if err != nil {
		return err
	}

	action := "Updated"
	if result.Created {
		action = "Created"
	}
	cmd.Printf("%s project at %s\n", action, result.Path)
	return nil
}

// applyFlagOverrides lets flags win over the config file.
func applyFlagOverrides(cfg *file.Config) {
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flagAnthropicKey != "" {
		cfg.Anthropic.APIKey = flagAnthropicKey
	}
	if flagModel != "" {
		cfg.Anthropic.Model = flagModel
	}
	if cfg.Anthropic.APIKey == "" {
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
}

// buildLLM constructs the optional AI provider. Without a key the pipeline
// runs with deterministic enrichment fallbacks.
func buildLLM(cmd *cobra.Command, cfg file.Config) (driven.LLMService, error) {
	if cfg.Anthropic.APIKey == "" {
		logger.Info("no Anthropic API key, AI enrichment disabled")
		return nil, nil
	}

	llm, err := anthropic.NewLLMService(anthropic.Config{
		APIKey: cfg.Anthropic.APIKey,
		Model:  cfg.Anthropic.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring AI provider: %w", err)
	}

	if err := llm.Ping(cmd.Context()); err != nil {
		logger.Warn("AI provider unreachable, continuing without enrichment: %v", err)
		llm.Close()
		return nil, nil
	}
	return llm, nil
}

// repoFactory builds per-credential repository services.
func repoFactory(cfg file.Config) services.RepositoryServiceFactory {
	return func(ctx context.Context, credential string) driven.RepositoryService {
		client := github.NewClientWithToken(ctx, credential)
		return github.NewServiceWithOptions(client, github.DefaultRetryPolicy(), cfg.Manifests)
	}
}

// buildIngestor wires the pipeline services.
func buildIngestor(cfg file.Config, store *sqlite.Store, llm driven.LLMService) driving.Ingestor {
	return services.NewIngestionService(
		repoFactory(cfg),
		parser.New(cfg.Parser),
		services.NewDiagramSynthesizer(llm),
		services.NewMetadataEnricher(llm),
		services.NewProjectUpsertService(store.ProjectStore(), memory.NewCacheStore()),
	)
}

// runBatch ingests every URL in the batch file through the worker pool.
func runBatch(cmd *cobra.Command, ingestor driving.Ingestor, base driving.IngestRequest, workers int) error {
	urls, err := readURLFile(flagFromFile)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no repository URLs in %s", flagFromFile)
	}

	pool := services.NewPool(ingestor, workers, flagTimeout)
	pool.Start(cmd.Context())

	done := make(chan struct{})
	var failures int
	go func() {
		defer close(done)
		for r := range pool.Results() {
			if r.Err != nil {
				failures++
				cmd.PrintErrf("FAIL %s: %v\n", r.Request.RepositoryURL, r.Err)
				continue
			}
			action := "updated"
			if r.Result.Created {
				action = "created"
			}
			cmd.Printf("OK   %s (%s %s)\n", r.Request.RepositoryURL, action, r.Result.Path)
		}
	}()

	for _, url := range urls {
		req := base
		req.RepositoryURL = url
		if err := pool.Submit(cmd.Context(), req); err != nil {
			pool.Stop()
			<-done
			return err
		}
	}
	pool.Stop()
	<-done

	if failures > 0 {
		return fmt.Errorf("%d of %d ingestions failed", failures, len(urls))
	}
	cmd.Printf("Ingested %d repositories\n", len(urls))
	return nil
}

// readURLFile reads one repository URL per line, skipping blanks and
// #-comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening url file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading url file: %w", err)
	}
	return urls, nil
}
