// ABOUTME: Terminal output helpers shared by the folio subcommands.
// ABOUTME: Prints post lists, post bodies, and comment threads as plain text.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/2389-research/folio/internal/models"
	"github.com/2389-research/folio/internal/store"
)

func printPostList(w io.Writer, st store.State) {
	posts := st.FilteredPosts()

	if st.Page.TotalPages > 0 {
		fmt.Fprintf(w, "Page %d of %d (%d posts)\n", st.Page.Page, st.Page.TotalPages, st.Page.Total)
	}
	if len(st.SelectedTags) > 0 {
		fmt.Fprintf(w, "Selected: #%s (%d of %d shown)\n", strings.Join(st.SelectedTags, " #"), len(posts), len(st.Posts))
	}

	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts found.")
	}
	for _, p := range posts {
		fmt.Fprintf(w, "--- [%d] %s", p.ID, p.Title)
		if p.Author != "" {
			fmt.Fprintf(w, " by @%s", p.Author)
		}
		fmt.Fprintf(w, " (+%d/-%d)", p.LikesCount, p.DislikesCount)
		if len(p.Tags) > 0 {
			fmt.Fprintf(w, " #%s", strings.Join(p.Tags, " #"))
		}
		fmt.Fprintln(w)
		if p.Summary != "" {
			fmt.Fprintf(w, "%s\n", p.Summary)
		}
	}

	if len(st.AllTags) > 0 {
		fmt.Fprintf(w, "\nTags: %s\n", strings.Join(st.AllTags, ", "))
	}
}

func printPostDetail(w io.Writer, p models.Post) {
	fmt.Fprintf(w, "[%d] %s\n", p.ID, p.Title)
	if p.Author != "" {
		fmt.Fprintf(w, "by @%s", p.Author)
		if p.CreatedAt != "" {
			fmt.Fprintf(w, " [%s]", p.CreatedAt)
		}
		fmt.Fprintln(w)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(w, "#%s\n", strings.Join(p.Tags, " #"))
	}
	fmt.Fprintf(w, "%d likes, %d dislikes, %d comments\n\n", p.LikesCount, p.DislikesCount, p.CommentsCount)
	fmt.Fprintln(w, strings.TrimRight(p.Content, "\n"))
}

func printThreads(w io.Writer, threads []models.CommentThread) {
	if len(threads) == 0 {
		fmt.Fprintln(w, "No comments.")
		return
	}
	for _, th := range threads {
		printComment(w, th.Comment, "")
		for _, reply := range th.Replies {
			printComment(w, reply, "    ")
		}
	}
}

func printComment(w io.Writer, c models.Comment, indent string) {
	fmt.Fprintf(w, "%s--- [%d] @%s", indent, c.ID, c.UserID)
	if c.CreatedAt != "" {
		fmt.Fprintf(w, " [%s]", c.CreatedAt)
	}
	if c.ParentID != nil {
		fmt.Fprintf(w, " (reply to %d)", *c.ParentID)
	}
	fmt.Fprintf(w, "\n%s%s\n", indent, c.Content)
}
