// ABOUTME: Cobra commands for listing, adding, and deleting comments.
// ABOUTME: Comments are authored as the configured user id.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389-research/folio/internal/blogapi"
	"github.com/2389-research/folio/internal/models"
)

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Read and write post comments",
}

var commentsListCmd = &cobra.Command{
	Use:   "list <post-id>",
	Short: "List the comments of a post as threads",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentsList,
}

var replyTo int64

var commentsAddCmd = &cobra.Command{
	Use:   "add <post-id> <content>",
	Short: "Add a comment to a post",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCommentsAdd,
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentsDelete,
}

func init() {
	commentsAddCmd.Flags().Int64Var(&replyTo, "reply-to", 0, "Comment id to reply to")

	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsDeleteCmd)
	rootCmd.AddCommand(commentsCmd)
}

func runCommentsList(cmd *cobra.Command, args []string) error {
	postID, err := parseID(args[0], "post")
	if err != nil {
		return err
	}

	comments, err := globalStore.FetchComments(cmd.Context(), postID)
	if err != nil {
		return err
	}
	printThreads(cmd.OutOrStdout(), models.BuildThreads(comments))
	return nil
}

func runCommentsAdd(cmd *cobra.Command, args []string) error {
	postID, err := parseID(args[0], "post")
	if err != nil {
		return err
	}

	content := strings.TrimSpace(strings.Join(args[1:], " "))
	if content == "" {
		return fmt.Errorf("comment content is required")
	}

	var parentID *int64
	if replyTo > 0 {
		parentID = &replyTo
	}

	comment, err := globalStore.AddComment(cmd.Context(), postID, globalConfig.UserID(), content, parentID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Comment %d added to post %d\n", comment.ID, postID)
	return nil
}

func runCommentsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "comment")
	if err != nil {
		return err
	}

	err = globalStore.DeleteComment(cmd.Context(), id, globalConfig.UserID())
	if blogapi.StatusCode(err) == http.StatusForbidden {
		return errors.New("comment belongs to another user")
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Comment %d deleted\n", id)
	return nil
}
