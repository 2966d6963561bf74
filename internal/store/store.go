// ABOUTME: Client-side post store kept consistent with the blog API.
// ABOUTME: Holds posts, tags, tag selection, and the current post behind named actions.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/2389-research/folio/internal/models"
)

// ErrSuperseded is returned by FetchPosts when a newer list fetch started
// before this one finished. Its response is discarded.
var ErrSuperseded = errors.New("superseded by a newer post list request")

// API is the subset of the blog API the store needs. *blogapi.Client implements it.
type API interface {
	ListPosts(ctx context.Context, opts models.ListPostsOptions) (*models.PostPage, error)
	ListTags(ctx context.Context) ([]string, error)
	GetPost(ctx context.Context, id int64, userID string) (*models.Post, error)
	Like(ctx context.Context, id int64, userID string) (*models.LikeResult, error)
	Dislike(ctx context.Context, id int64, userID string) (*models.DislikeResult, error)
	AddComment(ctx context.Context, postID int64, comment models.NewComment) (*models.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
	DeleteComment(ctx context.Context, commentID int64, userID string) error
	PostStats(ctx context.Context, postID int64, userID string) (*models.Stats, error)
	CheckPassword(ctx context.Context, password string) (*models.AuthResult, error)
	Publish(ctx context.Context, req models.PublishRequest) (*models.PublishResult, error)
}

type subscriber struct {
	id int
	fn func(State)
}

// Store is the client's view of the blog. All methods are safe for concurrent use.
type Store struct {
	api API
	log zerolog.Logger

	mu            sync.Mutex
	state         State
	listSeq       uint64
	listCancel    context.CancelFunc
	detailSeq     uint64
	detailPending int
	subs          []subscriber
	nextSub       int
	commitSeq     uint64

	// notifyMu serializes delivery; delivered is the newest commit handed out.
	notifyMu  sync.Mutex
	delivered uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report failed actions.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New creates an empty store backed by api.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api: api,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every state change.
// Deliveries are serialized and never go back in time: a snapshot older than
// one already delivered is dropped. fn runs on the goroutine that made the
// change. It may call Snapshot, but calling a mutating action from fn
// deadlocks, since delivery holds the notify lock. The returned func
// unregisters it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// FetchPosts loads one page of posts, replacing the post list and the derived
// tag list. Zero page or limit fall back to 1 and 10. A fetch started later
// cancels this one; a superseded fetch returns ErrSuperseded and changes nothing.
func (s *Store) FetchPosts(ctx context.Context, opts models.ListPostsOptions) error {
	opts = opts.WithDefaults()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.listSeq++
	seq := s.listSeq
	if s.listCancel != nil {
		s.listCancel()
	}
	s.listCancel = cancel
	s.state.Loading = true
	s.state.Err = ""
	notify := s.publishLocked()
	s.mu.Unlock()
	notify()

	page, err := s.api.ListPosts(ctx, opts)

	s.mu.Lock()
	if seq != s.listSeq {
		s.mu.Unlock()
		s.log.Debug().Uint64("seq", seq).Msg("dropping superseded post list response")
		return ErrSuperseded
	}
	s.listCancel = nil
	s.state.Loading = false
	if err != nil {
		err = fmt.Errorf("failed to fetch posts: %w", err)
		s.state.Err = err.Error()
	} else {
		s.state.Posts = clonePosts(page.Posts)
		s.state.Page = pageInfo(page, opts)
		s.state.AllTags = UniqueTags(page.Posts)
		s.state.TagSource = TagSourceDerived
	}
	notify = s.publishLocked()
	s.mu.Unlock()
	notify()

	if err != nil {
		s.log.Error().Err(err).Int("page", opts.Page).Msg("post list fetch failed")
		return err
	}
	return nil
}

// FetchTags replaces AllTags with the server's tag list.
func (s *Store) FetchTags(ctx context.Context) error {
	tags, err := s.api.ListTags(ctx)
	if err != nil {
		return s.fail("failed to fetch tags", err)
	}
	s.commit(func(st *State) {
		st.AllTags = cloneStrings(tags)
		st.TagSource = TagSourceServer
	})
	return nil
}

// GetPostByID fetches a post and makes it the current post. It returns nil
// together with the error on any failure. A response that arrives after a
// newer GetPostByID started, or after ClearCurrentPost, is returned but does
// not touch CurrentPost.
func (s *Store) GetPostByID(ctx context.Context, id int64, userID string) (*models.Post, error) {
	var seq uint64
	s.commit(func(st *State) {
		s.detailSeq++
		seq = s.detailSeq
		s.detailPending++
		st.DetailLoading = true
	})
	done := func(st *State) {
		s.detailPending--
		st.DetailLoading = s.detailPending > 0
	}

	post, err := s.api.GetPost(ctx, id, userID)
	if err != nil {
		return nil, s.fail("failed to fetch post", err, done)
	}

	current := post.Clone()
	s.commit(func(st *State) {
		done(st)
		if seq != s.detailSeq {
			s.log.Debug().Int64("post_id", id).Msg("stale post detail not made current")
			return
		}
		p := current.Clone()
		st.CurrentPost = &p
	})
	return &current, nil
}

// ClearCurrentPost drops the current post.
func (s *Store) ClearCurrentPost() {
	s.commit(func(st *State) {
		s.detailSeq++
		st.CurrentPost = nil
	})
}

// ToggleLike toggles an anonymous like and copies the server's flag and count
// into the current post and the matching list entry.
func (s *Store) ToggleLike(ctx context.Context, postID int64) (*models.LikeResult, error) {
	result, err := s.api.Like(ctx, postID, models.AnonymousUserID)
	if err != nil {
		return nil, s.fail("failed to toggle like", err)
	}
	s.commit(func(st *State) {
		updatePost(st, postID, func(p *models.Post) {
			p.UserLiked = result.Liked
			p.LikesCount = result.LikesCount
		})
	})
	return result, nil
}

// ToggleDislike toggles an anonymous dislike. When the dislike takes effect
// the local like flag is cleared and the like count is refetched from the
// stats endpoint. A failed refetch leaves the count stale but is not an error.
func (s *Store) ToggleDislike(ctx context.Context, postID int64) (*models.DislikeResult, error) {
	result, err := s.api.Dislike(ctx, postID, models.AnonymousUserID)
	if err != nil {
		return nil, s.fail("failed to toggle dislike", err)
	}
	s.commit(func(st *State) {
		updatePost(st, postID, func(p *models.Post) {
			p.UserDisliked = result.Disliked
			p.DislikesCount = result.DislikesCount
			if result.Disliked {
				p.UserLiked = false
			}
		})
	})

	if !result.Disliked {
		return result, nil
	}

	stats, err := s.GetPostStats(ctx, postID, "")
	if err != nil {
		s.log.Warn().Err(err).Int64("post_id", postID).Msg("likes count may be stale after dislike")
		return result, nil
	}
	s.commit(func(st *State) {
		updatePost(st, postID, func(p *models.Post) {
			p.LikesCount = stats.LikesCount
		})
	})
	return result, nil
}

// AddComment posts a comment. parentID is nil for a top-level comment.
func (s *Store) AddComment(ctx context.Context, postID int64, userID, content string, parentID *int64) (*models.Comment, error) {
	comment, err := s.api.AddComment(ctx, postID, models.NewComment{
		UserID:   userID,
		Content:  content,
		ParentID: parentID,
	})
	if err != nil {
		return nil, s.fail("failed to add comment", err)
	}
	return comment, nil
}

// FetchComments returns the comments of a post. On failure it returns an empty
// slice along with the error.
func (s *Store) FetchComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	comments, err := s.api.ListComments(ctx, postID)
	if err != nil {
		return []models.Comment{}, s.fail("failed to fetch comments", err)
	}
	return comments, nil
}

// DeleteComment deletes a comment on behalf of userID.
func (s *Store) DeleteComment(ctx context.Context, commentID int64, userID string) error {
	if err := s.api.DeleteComment(ctx, commentID, userID); err != nil {
		return s.fail("failed to delete comment", err)
	}
	return nil
}

// GetPostStats fetches a post's counters without changing the store.
func (s *Store) GetPostStats(ctx context.Context, postID int64, userID string) (*models.Stats, error) {
	stats, err := s.api.PostStats(ctx, postID, userID)
	if err != nil {
		return nil, s.fail("failed to fetch post stats", err)
	}
	return stats, nil
}

// ToggleTag adds tag to the selection, or removes it if already selected.
func (s *Store) ToggleTag(tag string) {
	s.commit(func(st *State) {
		selected := cloneStrings(st.SelectedTags)
		i := sort.SearchStrings(selected, tag)
		if i < len(selected) && selected[i] == tag {
			selected = append(selected[:i], selected[i+1:]...)
		} else {
			selected = append(selected, "")
			copy(selected[i+1:], selected[i:])
			selected[i] = tag
		}
		st.SelectedTags = selected
	})
}

// ClearTags empties the selection.
func (s *Store) ClearTags() {
	s.commit(func(st *State) {
		st.SelectedTags = nil
	})
}

// ClearError resets the shared error message.
func (s *Store) ClearError() {
	s.commit(func(st *State) {
		st.Err = ""
	})
}

// CheckAuthPassword asks the server whether password may publish.
func (s *Store) CheckAuthPassword(ctx context.Context, password string) (*models.AuthResult, error) {
	result, err := s.api.CheckPassword(ctx, password)
	if err != nil {
		return nil, s.fail("failed to check auth password", err)
	}
	return result, nil
}

// PublishPost submits a post. When the server reports success the first page
// of posts is reloaded; a failed reload is recorded but not returned.
func (s *Store) PublishPost(ctx context.Context, req models.PublishRequest) (*models.PublishResult, error) {
	req.Tags = models.NormalizeTags(req.Tags)
	if err := req.Validate(); err != nil {
		return nil, s.fail("failed to publish post", err)
	}

	result, err := s.api.Publish(ctx, req)
	if err != nil {
		return nil, s.fail("failed to publish post", err)
	}

	if result.Success {
		if err := s.FetchPosts(ctx, models.ListPostsOptions{}); err != nil && !errors.Is(err, ErrSuperseded) {
			s.log.Warn().Err(err).Int64("post_id", result.ID).Msg("post published but list refresh failed")
		}
	}
	return result, nil
}

// fail records err as the shared error message and returns it wrapped with msg.
// extra mutations run in the same commit.
func (s *Store) fail(msg string, err error, extra ...func(*State)) error {
	wrapped := fmt.Errorf("%s: %w", msg, err)
	s.commit(func(st *State) {
		for _, fn := range extra {
			fn(st)
		}
		st.Err = wrapped.Error()
	})
	s.log.Error().Err(err).Msg(msg)
	return wrapped
}

// commit applies fn under the lock and notifies subscribers afterwards.
func (s *Store) commit(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	notify := s.publishLocked()
	s.mu.Unlock()
	notify()
}

// publishLocked numbers the current state and returns a func that delivers it
// to the subscribers once s.mu is released.
func (s *Store) publishLocked() func() {
	s.commitSeq++
	if len(s.subs) == 0 {
		return func() {}
	}
	seq := s.commitSeq
	snap := s.state.clone()
	fns := make([]func(State), len(s.subs))
	for i, sub := range s.subs {
		fns[i] = sub.fn
	}
	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		if seq < s.delivered {
			return
		}
		s.delivered = seq
		for _, fn := range fns {
			fn(snap.clone())
		}
	}
}

// updatePost applies fn to copies of the current post and the first list entry
// with the given id, then swaps the copies in.
func updatePost(st *State, id int64, fn func(*models.Post)) {
	if st.CurrentPost != nil && st.CurrentPost.ID == id {
		p := st.CurrentPost.Clone()
		fn(&p)
		st.CurrentPost = &p
	}
	for i := range st.Posts {
		if st.Posts[i].ID == id {
			posts := clonePosts(st.Posts)
			fn(&posts[i])
			st.Posts = posts
			return
		}
	}
}

func pageInfo(page *models.PostPage, opts models.ListPostsOptions) models.PageInfo {
	info := models.PageInfo{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
	if info.Page == 0 {
		info.Page = opts.Page
	}
	if info.Limit == 0 {
		info.Limit = opts.Limit
	}
	return info
}
