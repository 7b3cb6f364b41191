// Package cmd wires the CLI: the full publish pipeline, generation-only
// runs, and WordPress connectivity diagnostics.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vinay-billa-slu/ai-agent-blogger/config"
	"github.com/vinay-billa-slu/ai-agent-blogger/generator"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ai-agent-blogger",
	Short: "Generate short blog articles with an LLM and publish them to WordPress",
	Long: `ai-agent-blogger picks a developer-blog topic, asks a generative text
model to write an article, repairs the model's output, and delivers the
result to a WordPress site over XML-RPC, REST, or post-by-email.

Pipeline: topic → generate → quality gate → publish → log`,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.Version = "0.1.0"
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.json", "path to the JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ValidateBase(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	}
	switch cfg.LLM.Provider {
	case "", "openai":
		return generator.NewOpenAILLMFromConfig(settings)
	case "gemini", "deepseek":
		// OpenAI-compatible providers need an explicit endpoint.
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider %s requires base_url (OpenAI-compatible endpoint)", cfg.LLM.Provider)
		}
		return generator.NewOpenAILLMFromConfig(settings)
	case "mock":
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func buildGenerator(cfg config.Config, llm generator.LLMClient) (*generator.Generator, error) {
	return generator.NewGenerator(llm, generator.Options{
		Policy:          generator.Policy(cfg.Generation.Policy),
		MaxOutputTokens: cfg.Generation.MaxOutputTokens,
		MaxRetries:      cfg.Generation.MaxRetries,
		LooseTopics:     cfg.Generation.LooseTopics,
	}, slog.Default())
}
