// Package cli provides the command-line interface adapter.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/corpuskit/corpus-cli/internal/adapters/driven/config/file"
	"github.com/corpuskit/corpus-cli/internal/adapters/driven/llm/openai"
	"github.com/corpuskit/corpus-cli/internal/adapters/driven/storage/sqlite"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driving"
	"github.com/corpuskit/corpus-cli/internal/core/services"
	"github.com/corpuskit/corpus-cli/internal/logger"
	"github.com/corpuskit/corpus-cli/internal/parsers"
)

// version is set by Execute from the build.
var version = "dev"

// verbose enables debug logging.
var verbose bool

// Services wired at startup. Tests may inject their own.
var (
	knowledgeService driving.KnowledgeService
	ragService       driving.RAGService
	llmService       driven.LLMService
	configStore      driven.ConfigStore

	// storeCloser releases the document store on exit.
	storeCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Local knowledge base with hybrid search",
	Long: `Corpus indexes your documents into a local knowledge base and answers
searches with a hybrid of keyword matching and TF-IDF vector similarity.
With an LLM configured, it can also answer questions grounded in your
documents and cite its sources.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// initServices wires the default adapters. Skipped when a service has
// already been injected (tests do this).
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if knowledgeService != nil {
		return nil
	}

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	configStore = cfg

	store, err := sqlite.NewStore(cfg.GetString("data_dir"))
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	storeCloser = store

	svc := services.NewKnowledgeService(store, parsers.Default())
	if err := svc.RebuildIndex(context.Background()); err != nil {
		return fmt.Errorf("build search index: %w", err)
	}
	knowledgeService = svc

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}
	promptLoader = prompts
	ragService = services.NewRAGService(knowledgeService, prompts)

	// The LLM is optional; without an API key the ask command prints
	// the augmented prompt instead of answering.
	if apiKey := cfg.GetString("llm.api_key"); apiKey != "" {
		llm, err := openai.NewLLMService(openai.LLMConfig{
			APIKey:  apiKey,
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
		if err != nil {
			logger.Warn("LLM configuration invalid: %v", err)
		} else {
			llmService = llm
		}
	}

	return nil
}

// Execute runs the root command. The caller provides the build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}

	err := rootCmd.Execute()

	if storeCloser != nil {
		if cerr := storeCloser.Close(); cerr != nil {
			logger.Warn("Closing document store: %v", cerr)
		}
	}
	if llmService != nil {
		_ = llmService.Close()
	}
	return err
}

// defaultSearchLimit reads the configured result limit, falling back to
// the service default.
func defaultSearchLimit() int {
	if configStore != nil {
		if n := configStore.GetInt("search.default_limit"); n > 0 {
			return n
		}
	}
	return services.DefaultSearchLimit
}
