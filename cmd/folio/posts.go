// ABOUTME: Cobra commands for listing, viewing, and reacting to blog posts.
// ABOUTME: Wraps the post store's list, detail, like, dislike, and stats actions.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389-research/folio/internal/models"
)

var postsCmd = &cobra.Command{
	Use:     "posts",
	Aliases: []string{"post"},
	Short:   "List, read, and react to posts",
}

// Flags for posts list
var (
	listPage   int
	listLimit  int
	listTags   []string
	listSearch string
	listMine   bool
	listSelect []string
)

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a page of posts",
	Long: `List a page of posts from the blog API.

--tag filters on the server. --select narrows the fetched page locally:
a post is shown when it carries any selected tag.`,
	Args: cobra.NoArgs,
	RunE: runPostsList,
}

var showComments bool

var postsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a post with its full content",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsShow,
}

var postsLikeCmd = &cobra.Command{
	Use:   "like <id>",
	Short: "Toggle an anonymous like on a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsLike,
}

var postsDislikeCmd = &cobra.Command{
	Use:   "dislike <id>",
	Short: "Toggle an anonymous dislike on a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsDislike,
}

var postsStatsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show like, dislike, and comment counts of a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsStats,
}

func init() {
	postsListCmd.Flags().IntVar(&listPage, "page", models.DefaultPage, "Page number")
	postsListCmd.Flags().IntVar(&listLimit, "limit", models.DefaultLimit, "Posts per page")
	postsListCmd.Flags().StringSliceVar(&listTags, "tag", nil, "Server-side tag filter (repeatable)")
	postsListCmd.Flags().StringVar(&listSearch, "search", "", "Full-text search query")
	postsListCmd.Flags().BoolVar(&listMine, "mine", false, "Include your own like/dislike flags")
	postsListCmd.Flags().StringSliceVar(&listSelect, "select", nil, "Show only posts with any of these tags (repeatable)")

	postsShowCmd.Flags().BoolVar(&showComments, "comments", false, "Also print the comment threads")

	postsCmd.AddCommand(postsListCmd, postsShowCmd, postsLikeCmd, postsDislikeCmd, postsStatsCmd)
	rootCmd.AddCommand(postsCmd)
}

func runPostsList(cmd *cobra.Command, args []string) error {
	opts := models.ListPostsOptions{
		Page:   listPage,
		Limit:  listLimit,
		Tags:   listTags,
		Search: listSearch,
	}
	if listMine {
		opts.UserID = globalConfig.UserID()
	}

	if err := globalStore.FetchPosts(cmd.Context(), opts); err != nil {
		return err
	}
	for _, tag := range models.NormalizeTags(listSelect) {
		globalStore.ToggleTag(tag)
	}

	printPostList(cmd.OutOrStdout(), globalStore.Snapshot())
	return nil
}

func runPostsShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "post")
	if err != nil {
		return err
	}

	post, err := globalStore.GetPostByID(cmd.Context(), id, globalConfig.UserID())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printPostDetail(out, *post)

	if showComments {
		comments, err := globalStore.FetchComments(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		printThreads(out, models.BuildThreads(comments))
	}
	return nil
}

func runPostsLike(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "post")
	if err != nil {
		return err
	}

	result, err := globalStore.ToggleLike(cmd.Context(), id)
	if err != nil {
		return err
	}

	if result.Liked {
		fmt.Fprintf(cmd.OutOrStdout(), "Liked post %d (%d likes)\n", id, result.LikesCount)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed like from post %d (%d likes)\n", id, result.LikesCount)
	}
	return nil
}

func runPostsDislike(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "post")
	if err != nil {
		return err
	}

	result, err := globalStore.ToggleDislike(cmd.Context(), id)
	if err != nil {
		return err
	}

	if result.Disliked {
		fmt.Fprintf(cmd.OutOrStdout(), "Disliked post %d (%d dislikes)\n", id, result.DislikesCount)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed dislike from post %d (%d dislikes)\n", id, result.DislikesCount)
	}
	return nil
}

func runPostsStats(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "post")
	if err != nil {
		return err
	}

	stats, err := globalStore.GetPostStats(cmd.Context(), id, globalConfig.UserID())
	if err != nil {
		return err
	}

	var yours []string
	if stats.UserLiked {
		yours = append(yours, "liked")
	}
	if stats.UserDisliked {
		yours = append(yours, "disliked")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Post %d: %d likes, %d dislikes, %d comments\n",
		id, stats.LikesCount, stats.DislikesCount, stats.CommentsCount)
	if len(yours) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "You %s this post.\n", strings.Join(yours, " and "))
	}
	return nil
}

// parseID parses a positive integer id argument.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}
