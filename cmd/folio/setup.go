// ABOUTME: Cobra command for interactive folio setup.
// ABOUTME: Launches a bubbletea TUI wizard to collect and validate the API URL and user id.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/folio/internal/config"
	"github.com/2389-research/folio/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the blog API endpoint",
	Long:  "Interactive wizard to configure the blog API URL and your user id.",
	Args:  cobra.NoArgs,
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

	apiURL := cfg.APIURL()
	if flagAPIURL != "" {
		apiURL = flagAPIURL
	}
	model := tui.NewSetupModel(apiURL, cfg.User.ID)

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

	cfg.API.URL, cfg.User.ID = final.Result()

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
