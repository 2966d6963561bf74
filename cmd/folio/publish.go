// ABOUTME: Cobra commands for publishing markdown drafts to the blog.
// ABOUTME: Checks the publishing password, submits the draft, and scaffolds new drafts.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389-research/folio/internal/config"
	"github.com/2389-research/folio/internal/draft"
)

// passwordEnv is read when --password is not given.
const passwordEnv = "FOLIO_PUBLISH_PASSWORD"

var (
	publishPassword string
	publishDryRun   bool
	initAuthor      string
)

var publishCmd = &cobra.Command{
	Use:   "publish <draft.md>",
	Short: "Publish a markdown draft",
	Long: `Publish a markdown draft with YAML frontmatter (title, summary, tags, author).

The publishing password comes from --password or $` + passwordEnv + `.
It is checked with the server before the post is submitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

var publishInitCmd = &cobra.Command{
	Use:   "init <draft.md>",
	Short: "Write a new draft template",
	Long:  "Write a new draft template. Relative paths are placed in the configured drafts directory.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublishInit,
}

var publishDraftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List drafts in the drafts directory",
	Args:  cobra.NoArgs,
	RunE:  runPublishDrafts,
}

func init() {
	publishCmd.Flags().StringVar(&publishPassword, "password", "", "Publishing password (default $"+passwordEnv+")")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "Validate the draft without publishing")
	publishInitCmd.Flags().StringVar(&initAuthor, "author", "", "Author written into the frontmatter")

	publishCmd.AddCommand(publishInitCmd, publishDraftsCmd)
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	req, err := draft.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if publishDryRun {
		fmt.Fprintf(out, "Draft OK: %q (%d tags, %d bytes)\n", req.Title, len(req.Tags), len(req.Content))
		return nil
	}

	password := publishPassword
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	if password == "" {
		return fmt.Errorf("a publishing password is required (--password or $%s)", passwordEnv)
	}

	auth, err := globalStore.CheckAuthPassword(cmd.Context(), password)
	if err != nil {
		return err
	}
	if !auth.OK() {
		return errors.New("publishing password rejected")
	}

	req.Password = password
	result, err := globalStore.PublishPost(cmd.Context(), *req)
	if err != nil {
		return err
	}
	if !result.Success {
		msg := strings.TrimSpace(result.Message)
		if msg == "" {
			msg = "no reason given"
		}
		return fmt.Errorf("server rejected the post: %s", msg)
	}

	if result.ID > 0 {
		fmt.Fprintf(out, "Published %q (ID: %d)\n", req.Title, result.ID)
	} else {
		fmt.Fprintf(out, "Published %q\n", req.Title)
	}
	return nil
}

func runPublishInit(cmd *cobra.Command, args []string) error {
	path, err := draftPath(args[0])
	if err != nil {
		return err
	}

	author := initAuthor
	if author == "" {
		author = globalConfig.User.ID
	}

	if err := draft.WriteTemplate(path, "", author); err != nil {
		if errors.Is(err, draft.ErrExists) {
			return fmt.Errorf("%s already exists", path)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Draft written to %s\n", path)
	return nil
}

func runPublishDrafts(cmd *cobra.Command, args []string) error {
	dir, err := globalConfig.DraftsDir()
	if err != nil {
		return err
	}

	entries, err := draft.List(dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(out, "No drafts in %s\n", dir)
		return nil
	}
	for _, e := range entries {
		name := filepath.Base(e.Path)
		if e.Err != nil {
			fmt.Fprintf(out, "%s: invalid (%v)\n", name, e.Err)
			continue
		}
		fmt.Fprintf(out, "%s: %q", name, e.Request.Title)
		if len(e.Request.Tags) > 0 {
			fmt.Fprintf(out, " #%s", strings.Join(e.Request.Tags, " #"))
		}
		fmt.Fprintln(out)
	}
	return nil
}

// draftPath resolves name against the drafts directory and adds the draft
// extension when it is missing.
func draftPath(name string) (string, error) {
	path, err := config.ExpandPath(name)
	if err != nil {
		return "", err
	}
	if filepath.Ext(path) == "" {
		path += draft.Ext
	}
	if filepath.IsAbs(path) || strings.HasPrefix(name, ".") {
		return path, nil
	}

	dir, err := globalConfig.DraftsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}
