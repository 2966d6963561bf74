// ABOUTME: Cobra command that lists every tag known to the blog.
// ABOUTME: Uses the store's FetchTags action for the authoritative tag list.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := globalStore.FetchTags(cmd.Context()); err != nil {
			return err
		}

		tags := globalStore.Snapshot().AllTags
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
			return nil
		}
		for _, tag := range tags {
			fmt.Fprintln(cmd.OutOrStdout(), tag)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
