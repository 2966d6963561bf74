// ABOUTME: Tests for model helpers: comment threading, tag normalization, and publish validation.
// ABOUTME: Also checks the JSON shape of request bodies sent to the API.
package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestBuildThreads(t *testing.T) {
	comments := []Comment{
		{ID: 1, Content: "root a"},
		{ID: 2, Content: "reply to a", ParentID: ptr(1)},
		{ID: 3, Content: "root b"},
		{ID: 4, Content: "nested under 2", ParentID: ptr(2)},
		{ID: 5, Content: "orphan", ParentID: ptr(99)},
	}

	threads := BuildThreads(comments)
	require.Len(t, threads, 3)

	assert.Equal(t, int64(1), threads[0].Comment.ID)
	require.Len(t, threads[0].Replies, 2)
	assert.Equal(t, int64(2), threads[0].Replies[0].ID)
	assert.Equal(t, int64(4), threads[0].Replies[1].ID)

	assert.Equal(t, int64(3), threads[1].Comment.ID)
	assert.Empty(t, threads[1].Replies)

	assert.Equal(t, int64(5), threads[2].Comment.ID)
}

func TestBuildThreadsParentCycle(t *testing.T) {
	comments := []Comment{
		{ID: 1, ParentID: ptr(2)},
		{ID: 2, ParentID: ptr(1)},
	}

	threads := BuildThreads(comments)
	total := 0
	for _, th := range threads {
		total += 1 + len(th.Replies)
	}
	assert.Equal(t, 2, total)
}

func TestBuildThreadsEmpty(t *testing.T) {
	assert.Empty(t, BuildThreads(nil))
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" go", "rust", "", "go ", "  ", "zig"})
	assert.Equal(t, []string{"go", "rust", "zig"}, got)
	assert.NotNil(t, NormalizeTags(nil))
}

func TestListPostsOptionsWithDefaults(t *testing.T) {
	assert.Equal(t, ListPostsOptions{Page: 1, Limit: 10}, ListPostsOptions{}.WithDefaults())
	assert.Equal(t, ListPostsOptions{Page: 3, Limit: 25}, ListPostsOptions{Page: 3, Limit: 25}.WithDefaults())
	assert.Equal(t, ListPostsOptions{Page: 1, Limit: 10}, ListPostsOptions{Page: -2, Limit: -1}.WithDefaults())
}

func TestPostCloneIsIndependent(t *testing.T) {
	p := Post{ID: 1, Tags: []string{"a", "b"}}
	c := p.Clone()
	c.Tags[0] = "z"
	assert.Equal(t, "a", p.Tags[0])
}

func TestPostHasAnyTag(t *testing.T) {
	p := Post{Tags: []string{"go", "web"}}
	assert.True(t, p.HasAnyTag([]string{"rust", "web"}))
	assert.False(t, p.HasAnyTag([]string{"rust"}))
	assert.False(t, p.HasAnyTag(nil))
}

func TestPublishRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     PublishRequest
		wantErr string
	}{
		{name: "valid", req: PublishRequest{Title: "Hello", Content: "World", Tags: []string{"go"}}},
		{name: "missing title", req: PublishRequest{Content: "World"}, wantErr: "title (required)"},
		{name: "missing content", req: PublishRequest{Title: "Hello"}, wantErr: "content (required)"},
		{name: "long title", req: PublishRequest{Title: strings.Repeat("x", 201), Content: "c"}, wantErr: "title (max)"},
		{name: "empty tag", req: PublishRequest{Title: "T", Content: "C", Tags: []string{""}}, wantErr: "(required)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAuthResultOK(t *testing.T) {
	assert.True(t, AuthResult{Valid: true}.OK())
	assert.True(t, AuthResult{Success: true}.OK())
	assert.False(t, AuthResult{}.OK())
}

func TestNewCommentJSON(t *testing.T) {
	data, err := json.Marshal(NewComment{UserID: "u", Content: "c"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"u","content":"c","parent_id":null}`, string(data))

	data, err = json.Marshal(NewComment{UserID: "u", Content: "c", ParentID: ptr(7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"u","content":"c","parent_id":7}`, string(data))
}

func TestPublishRequestJSONOmitsEmptyPassword(t *testing.T) {
	data, err := json.Marshal(PublishRequest{Title: "T", Content: "C", Tags: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"T","content":"C","tags":[]}`, string(data))
}
