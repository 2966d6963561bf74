// ABOUTME: Plain-text rendering of posts, tags, and comment threads for tool results.
// ABOUTME: Output is line-oriented so agents can quote IDs back into later calls.
package mcp

import (
	"fmt"
	"strings"

	"github.com/2389-research/folio/internal/models"
	"github.com/2389-research/folio/internal/store"
)

func formatPageInfo(page models.PageInfo, loaded int) string {
	if page.TotalPages > 0 {
		return fmt.Sprintf("Page %d of %d (%d posts total, %d loaded)\n", page.Page, page.TotalPages, page.Total, loaded)
	}
	return fmt.Sprintf("Page %d (%d posts loaded)\n", page.Page, loaded)
}

func formatPostSummary(p models.Post) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "---\n[%d] %s", p.ID, p.Title)
	if p.Author != "" {
		fmt.Fprintf(&sb, " by %s", p.Author)
	}
	fmt.Fprintf(&sb, " (%d likes, %d dislikes)", p.LikesCount, p.DislikesCount)
	if len(p.Tags) > 0 {
		fmt.Fprintf(&sb, " #%s", strings.Join(p.Tags, " #"))
	}
	sb.WriteString("\n")
	if p.Summary != "" {
		sb.WriteString(p.Summary + "\n")
	}
	return sb.String()
}

func formatPostDetail(p models.Post) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d] %s\n", p.ID, p.Title)
	if p.Author != "" {
		fmt.Fprintf(&sb, "Author: %s\n", p.Author)
	}
	if p.CreatedAt != "" {
		fmt.Fprintf(&sb, "Created: %s\n", p.CreatedAt)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Fprintf(&sb, "Likes: %d  Dislikes: %d  Comments: %d\n", p.LikesCount, p.DislikesCount, p.CommentsCount)
	if p.UserLiked {
		sb.WriteString("You liked this post.\n")
	}
	if p.UserDisliked {
		sb.WriteString("You disliked this post.\n")
	}
	sb.WriteString("\n")
	sb.WriteString(p.Content)
	sb.WriteString("\n")
	return sb.String()
}

func formatTagList(st store.State) string {
	var sb strings.Builder
	for _, tag := range st.AllTags {
		mark := " "
		if st.IsSelected(tag) {
			mark = "x"
		}
		fmt.Fprintf(&sb, "[%s] %s\n", mark, tag)
	}
	return sb.String()
}

func formatSelection(st store.State) string {
	if len(st.SelectedTags) == 0 {
		return "No tags selected."
	}
	return fmt.Sprintf("Selected: %s (%d of %d loaded posts match)",
		strings.Join(st.SelectedTags, ", "), len(st.FilteredPosts()), len(st.Posts))
}

func formatThreads(threads []models.CommentThread) string {
	var sb strings.Builder
	for _, th := range threads {
		writeComment(&sb, th.Comment, "")
		for _, r := range th.Replies {
			writeComment(&sb, r, "  ↳ ")
		}
	}
	return sb.String()
}

func writeComment(sb *strings.Builder, c models.Comment, prefix string) {
	fmt.Fprintf(sb, "%s[%d] @%s", prefix, c.ID, c.UserID)
	if c.CreatedAt != "" {
		fmt.Fprintf(sb, " [%s]", c.CreatedAt)
	}
	if c.ParentID != nil {
		fmt.Fprintf(sb, " (reply to %d)", *c.ParentID)
	}
	fmt.Fprintf(sb, ": %s\n", c.Content)
}
