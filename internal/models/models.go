// ABOUTME: Core data models for blog posts, comments, reactions, and publishing.
// ABOUTME: Mirrors the JSON shapes of the blog API and validates publish payloads.
package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AnonymousUserID is the user id sent with anonymous reactions.
const AnonymousUserID = "anonymous"

// Default paging used when a list request leaves page or limit unset.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Post is a blog entry as returned by the API.
type Post struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	Author        string   `json:"author,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
	Tags          []string `json:"tags"`
	Views         int      `json:"views,omitempty"`
	LikesCount    int      `json:"likes_count"`
	DislikesCount int      `json:"dislikes_count"`
	CommentsCount int      `json:"comments_count,omitempty"`
	UserLiked     bool     `json:"user_liked"`
	UserDisliked  bool     `json:"user_disliked"`
}

// Clone returns a copy of the post that shares no slices with the original.
func (p Post) Clone() Post {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	return p
}

// HasAnyTag reports whether the post carries at least one of the given tags.
func (p Post) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range p.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// PostPage is the response envelope of GET /posts.
type PostPage struct {
	Posts      []Post `json:"posts"`
	Total      int    `json:"total,omitempty"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`
}

// PageInfo is the pagination metadata of a PostPage.
type PageInfo struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// ListPostsOptions configures filtering and pagination for listing posts.
type ListPostsOptions struct {
	Page   int
	Limit  int
	Tags   []string // sent comma-joined
	Search string
	UserID string
}

// WithDefaults fills in the default page and limit.
func (o ListPostsOptions) WithDefaults() ListPostsOptions {
	if o.Page <= 0 {
		o.Page = DefaultPage
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// Comment is a single comment on a post. ParentID is nil for top-level comments.
type Comment struct {
	ID        int64  `json:"id"`
	PostID    int64  `json:"post_id,omitempty"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	ParentID  *int64 `json:"parent_id"`
	CreatedAt string `json:"created_at,omitempty"`
}

// NewComment is the request body for creating a comment.
type NewComment struct {
	UserID   string `json:"user_id"`
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
}

// CommentThread is a top-level comment with its direct replies.
type CommentThread struct {
	Comment Comment
	Replies []Comment
}

// BuildThreads groups replies under their top-level comment, keeping input
// order. Replies whose ancestors are missing from the slice become roots.
func BuildThreads(comments []Comment) []CommentThread {
	byID := make(map[int64]Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	index := make(map[int64]int)
	var threads []CommentThread
	for _, c := range comments {
		if rootID(c, byID) == c.ID {
			index[c.ID] = len(threads)
			threads = append(threads, CommentThread{Comment: c})
		}
	}
	for _, c := range comments {
		root := rootID(c, byID)
		if root == c.ID {
			continue
		}
		if i, ok := index[root]; ok {
			threads[i].Replies = append(threads[i].Replies, c)
			continue
		}
		// parent cycle
		index[c.ID] = len(threads)
		threads = append(threads, CommentThread{Comment: c})
	}
	return threads
}

func rootID(c Comment, byID map[int64]Comment) int64 {
	seen := map[int64]bool{c.ID: true}
	for c.ParentID != nil {
		parent, ok := byID[*c.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		c = parent
	}
	return c.ID
}

// Stats holds server-computed counters for a post.
type Stats struct {
	LikesCount    int  `json:"likes_count"`
	DislikesCount int  `json:"dislikes_count"`
	CommentsCount int  `json:"comments_count,omitempty"`
	UserLiked     bool `json:"user_liked"`
	UserDisliked  bool `json:"user_disliked"`
}

// LikeResult is the response of a like toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// DislikeResult is the response of a dislike toggle.
type DislikeResult struct {
	Disliked      bool `json:"disliked"`
	DislikesCount int  `json:"dislikes_count"`
}

// AuthResult is the response of the publish password check.
type AuthResult struct {
	Valid   bool   `json:"valid"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the server accepted the password.
func (r AuthResult) OK() bool {
	return r.Valid || r.Success
}

// PublishRequest is the body of POST /posts/publish.
type PublishRequest struct {
	Title    string   `json:"title" yaml:"title" validate:"required,max=200"`
	Content  string   `json:"content" yaml:"-" validate:"required"`
	Summary  string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Tags     []string `json:"tags" yaml:"tags,omitempty" validate:"dive,required"`
	Author   string   `json:"author,omitempty" yaml:"author,omitempty"`
	Password string   `json:"password,omitempty" yaml:"-"`
}

var validate = validator.New()

// Validate checks the request before it is sent.
func (r *PublishRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("invalid post: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid post: %w", err)
	}
	return nil
}

// PublishResult is the response of a publish request.
type PublishResult struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// NormalizeTags trims whitespace and drops empty or repeated tags, keeping order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
