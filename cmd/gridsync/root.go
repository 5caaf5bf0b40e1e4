// ABOUTME: Root Cobra command and global flags for the gridsync CLI.
// ABOUTME: Sets up lifecycle hooks for config loading and local store initialization.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/gridsync/internal/config"
	"github.com/2389-research/gridsync/internal/logging"
	"github.com/2389-research/gridsync/internal/storage"
)

var globalConfig *config.Config
var globalLocal *storage.LocalStore

// Persistent flags
var (
	downloadsDirFlag string
	verboseFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "gridsync",
	Short: "Guardian crossword fetcher with SuperNote cloud sync",
	Long: `
 ██████╗ ██████╗ ██╗██████╗ ███████╗██╗   ██╗███╗   ██╗ ██████╗
██╔════╝ ██╔══██╗██║██╔══██╗██╔════╝╚██╗ ██╔╝████╗  ██║██╔════╝
██║  ███╗██████╔╝██║██║  ██║███████╗ ╚████╔╝ ██║██╔██║██║
██║   ██║██╔══██╗██║██║  ██║╚════██║  ╚██╔╝  ██║╚████║██║
╚██████╔╝██║  ██║██║██████╔╝███████║   ██║   ██║ ╚███║╚██████╗
 ╚═════╝ ╚═╝  ╚═╝╚═╝╚═════╝ ╚══════╝   ╚═╝   ╚═╝  ╚══╝ ╚═════╝

Downloads the Guardian's daily crossword PDFs and syncs them to a
SuperNote cloud account, with retention cleanup on both sides.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		logsDir, err := config.ExpandPath(cfg.LogsDir)
		if err != nil {
			return fmt.Errorf("failed to resolve logs dir: %w", err)
		}
		logging.Setup(logsDir, verboseFlag)

		downloadsDir, err := cfg.GetDownloadsDir(downloadsDirFlag)
		if err != nil {
			return fmt.Errorf("failed to resolve downloads dir: %w", err)
		}
		local, err := storage.NewLocalStore(downloadsDir)
		if err != nil {
			return fmt.Errorf("failed to open downloads dir: %w", err)
		}
		globalLocal = local

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&downloadsDirFlag, "downloads-dir", "", "Directory for downloaded puzzle files (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable debug logging")
}
