// Package cli provides the reviewer command-line client for the analysis service.
package cli

import (
	"os"

	"legal-sentiment/internal/config"
	"legal-sentiment/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

type rootOptions struct {
	cfgFile    string
	analyzeURL string
	verbose    bool

	cfg *config.ClientConfig
}

// NewRootCmd creates the reviewer root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "reviewer",
		Short: "Upload documents for sentiment analysis and review the results",
		Long: `reviewer sends one or more documents to the analysis service and prints
a sentiment and summary for each of them.

Configuration is read from the environment (ANALYZE_URL, LOG_LEVEL, or a .env
file), then from an optional YAML file given with --config, then from flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.analyzeURL, "url", "", "Analysis endpoint URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newDropCmd(opts))

	return rootCmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cfg := config.LoadClient()
	if o.cfgFile != "" {
		if err := config.LoadClientFile(cfg, o.cfgFile); err != nil {
			return err
		}
	}
	if o.analyzeURL != "" {
		cfg.AnalyzeURL = o.analyzeURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// stdout is reserved for results.
	logger.SetOutput(cmd.ErrOrStderr())
	level := cfg.LogLevel
	if o.verbose {
		level = "debug"
	}
	logger.Init(level)

	o.cfg = cfg
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
