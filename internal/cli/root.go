package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cfgErr error
	cfg, cfgErr = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "charvault",
		Short: "CLI tool for the charvault API",
		Long: `charvault is a CLI tool for interacting with the charvault JSON API.

It covers account registration and login, character management for the
logged in account, and the shared item catalog.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(time.Now()); err != nil {
				return err
			}

			var logger *slog.Logger
			if cfg.Verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
			client = NewClient(cfg.ServerURL, cfg.Token, logger)
			if cfg.SessionExpired {
				client.markSessionExpired()
			}
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: CHARVAULT_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Access token (env: CHARVAULT_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: CHARVAULT_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log each API request to stderr")

	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newCharacterCmd())
	rootCmd.AddCommand(newItemCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
