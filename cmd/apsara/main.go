// Command apsara runs the Apsara 2.5 conversation backend.
//
// Usage:
//
//	GEMINI_API_KEY=... apsara serve [--config config.yaml]
//	GEMINI_API_KEY=... apsara chat [--model id]
//	apsara sessions [list|show|delete]
//	apsara tools [list|run]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shubharthaksangharsha/apsara2.5/config"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "apsara",
	Short: "Apsara 2.5 - Gemini-powered conversation backend",
	Long: `Apsara 2.5 keeps durable chat sessions, formats their history for the
Gemini API, and mediates tool invocations requested by the model.

Run "apsara serve" to start the HTTP API, or "apsara chat" for a
terminal conversation against the engine directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		zapCfg := zap.NewProductionConfig()
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("log level %q: %w", level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(parsed)
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(toolsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "apsara: %v\n", err)
		os.Exit(1)
	}
}
