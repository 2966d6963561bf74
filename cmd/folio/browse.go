// ABOUTME: Cobra command that opens the interactive post browser.
// ABOUTME: Runs the bubbletea browse model against the shared post store.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/folio/internal/models"
	"github.com/2389-research/folio/internal/tui"
)

var browseLimit int

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse posts interactively",
	Long: `Browse posts in a terminal UI.

Keys: tab switch pane, arrows move, space toggle tag, c clear tags,
t load all tags, l/d like/dislike, enter read post, r refresh,
n/p next/previous page, q quit.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVar(&browseLimit, "limit", models.DefaultLimit, "Posts per page")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	model := tui.NewBrowseModel(cmd.Context(), globalStore, globalConfig.UserID(), browseLimit)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
