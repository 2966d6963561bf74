// ABOUTME: Read-only snapshot of the client post store and its derived views.
// ABOUTME: FilterPosts and UniqueTags are pure functions over a post list.
package store

import (
	"sort"

	"github.com/2389-research/folio/internal/models"
)

// TagSource records where State.AllTags came from.
type TagSource string

const (
	// TagSourceNone means no tags have been loaded yet.
	TagSourceNone TagSource = ""
	// TagSourceDerived means AllTags was computed from the loaded page of posts.
	TagSourceDerived TagSource = "derived"
	// TagSourceServer means AllTags is the server's full tag list.
	TagSourceServer TagSource = "server"
)

// State is a snapshot of the store. It shares no memory with the store.
type State struct {
	Posts         []models.Post
	Page          models.PageInfo
	AllTags       []string
	TagSource     TagSource
	SelectedTags  []string // sorted
	CurrentPost   *models.Post
	Loading       bool // a post list fetch is in flight
	DetailLoading bool // a single-post fetch is in flight
	Err           string
}

// FilteredPosts returns the loaded posts matching the tag selection.
func (s State) FilteredPosts() []models.Post {
	return FilterPosts(s.Posts, s.SelectedTags)
}

// UniqueTags returns the sorted tags of the loaded posts.
func (s State) UniqueTags() []string {
	return UniqueTags(s.Posts)
}

// IsSelected reports whether tag is part of the selection.
func (s State) IsSelected(tag string) bool {
	i := sort.SearchStrings(s.SelectedTags, tag)
	return i < len(s.SelectedTags) && s.SelectedTags[i] == tag
}

// FilterPosts returns posts unchanged when selected is empty, otherwise the
// posts carrying at least one selected tag, in their original order.
func FilterPosts(posts []models.Post, selected []string) []models.Post {
	if len(selected) == 0 {
		return posts
	}
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.HasAnyTag(selected) {
			out = append(out, p)
		}
	}
	return out
}

// UniqueTags returns the sorted, duplicate-free union of all post tags.
func UniqueTags(posts []models.Post) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, p := range posts {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func (s State) clone() State {
	out := s
	out.Posts = clonePosts(s.Posts)
	out.AllTags = cloneStrings(s.AllTags)
	out.SelectedTags = cloneStrings(s.SelectedTags)
	if s.CurrentPost != nil {
		p := s.CurrentPost.Clone()
		out.CurrentPost = &p
	}
	return out
}

func clonePosts(posts []models.Post) []models.Post {
	if posts == nil {
		return nil
	}
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
