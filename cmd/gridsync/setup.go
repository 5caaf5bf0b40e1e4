// ABOUTME: Cobra command for interactive SuperNote account setup.
// ABOUTME: Launches a bubbletea TUI wizard to collect and validate cloud credentials.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/gridsync/internal/config"
	"github.com/2389-research/gridsync/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Connect your SuperNote cloud account",
	Long:  "Interactive wizard to configure SuperNote cloud credentials.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(
		cfg.Supernote.APIURL,
		cfg.Supernote.Email,
		cfg.Supernote.Password,
	)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	apiURL, email, password := final.Result()
	cfg.Supernote.APIURL = apiURL
	cfg.Supernote.Email = email
	cfg.Supernote.Password = password

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Println("Config saved successfully.")
	} else {
		fmt.Printf("Config saved to %s\n", configPath)
	}
	return nil
}
