package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/internal/loader"
	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
	"github.com/gcbaptista/go-retrieval-engine/internal/tokenizer"
)

const rootLongDesc = `retrieval ranks preprocessed corpora with TF-IDF or averaged word
embeddings, refines queries with Rocchio relevance feedback and evaluates
the rankings against relevance judgments.

  retrieval serve      Run the HTTP API
  retrieval run        Evaluate a query batch from .FRQ and .REL files
  retrieval version    Print the version`

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logEnv     string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "retrieval",
		Short:         "Vector-space retrieval engine",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.logEnv, "log-env", "", "Logging environment override (development, production)")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// load reads the configuration file, applies flag overrides and builds the logger.
func (f *globalFlags) load() (config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.logEnv != "" {
		cfg.Logging.Env = f.logEnv
	}
	if err := cfg.Validate(); err != nil {
		return config.AppConfig{}, nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		return config.AppConfig{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// newAnalyzer builds the free-text analyzer, with stopwords when path is set.
func newAnalyzer(path string) (tokenizer.Analyzer, error) {
	if path == "" {
		return tokenizer.Analyzer{}, nil
	}
	stopwords, err := loader.LoadStopwords(path)
	if err != nil {
		return tokenizer.Analyzer{}, err
	}
	return tokenizer.Analyzer{Stopwords: stopwords}, nil
}
