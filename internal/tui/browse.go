// ABOUTME: Interactive post browser driven by the client post store.
// ABOUTME: Tag bar plus post list with tag filtering, reactions, paging, and a detail view.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/folio/internal/models"
	"github.com/2389-research/folio/internal/store"
)

type pane int

const (
	panePosts pane = iota
	paneTags
)

type browseMode int

const (
	modeList browseMode = iota
	modeDetail
)

// storeChangedMsg signals that the store notified a change since the last read.
type storeChangedMsg struct{}

// actionMsg reports a finished store action along with the resulting snapshot.
type actionMsg struct {
	state  store.State
	status string
	err    error
}

// detailMsg carries a loaded post and its comment threads.
type detailMsg struct {
	postID  int64
	state   store.State
	threads []models.CommentThread
	err     error
}

// BrowseModel is the bubbletea model for `folio browse`.
type BrowseModel struct {
	ctx         context.Context
	store       *store.Store
	changes     chan struct{}
	unsubscribe func()
	userID      string
	limit       int
	page        int
	state       store.State
	focus       pane
	mode        browseMode
	openID      int64 // post shown in detail mode
	tagIdx      int
	postIdx     int
	threads     []models.CommentThread
	spinner     spinner.Model
	status      string
	quitting    bool
}

var (
	focusStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("241")).Padding(0, 1)
	activePane    = paneStyle.BorderForeground(lipgloss.Color("212"))
)

// NewBrowseModel creates a browser over st. userID is sent when loading post
// details so the viewer's reaction flags are filled in.
func NewBrowseModel(ctx context.Context, st *store.Store, userID string, limit int) BrowseModel {
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	s := spinner.New()
	s.Spinner = spinner.Dot

	// Update may run store actions itself, so the subscriber must never block.
	changes := make(chan struct{}, 1)
	unsubscribe := st.Subscribe(func(store.State) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	return BrowseModel{
		ctx:         ctx,
		store:       st,
		changes:     changes,
		unsubscribe: unsubscribe,
		userID:      userID,
		limit:       limit,
		page:        models.DefaultPage,
		state:       st.Snapshot(),
		spinner:     s,
	}
}

// Close detaches the model from the store.
func (m BrowseModel) Close() {
	m.unsubscribe()
}

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(m.page), m.spinner.Tick, m.waitForChange())
}

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode == modeDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)

	case storeChangedMsg:
		m.setState(m.store.Snapshot())
		return m, tea.Batch(m.waitForChange(), m.spinner.Tick)

	case actionMsg:
		m.setState(msg.state)
		m.status = ""
		if msg.err == nil {
			m.status = msg.status
		}
		return m, nil

	case detailMsg:
		if m.mode != modeDetail || msg.postID != m.openID {
			return m, nil
		}
		m.setState(msg.state)
		m.threads = msg.threads
		return m, nil

	case spinner.TickMsg:
		if m.state.Loading || m.state.DetailLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m BrowseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	posts := m.state.FilteredPosts()

	switch msg.String() {
	case "tab":
		if m.focus == panePosts {
			m.focus = paneTags
		} else {
			m.focus = panePosts
		}
	case "up", "k", "left", "h":
		if m.focus == paneTags {
			m.tagIdx = max(m.tagIdx-1, 0)
		} else if msg.String() == "up" || msg.String() == "k" {
			m.postIdx = max(m.postIdx-1, 0)
		}
	case "down", "j", "right":
		if m.focus == paneTags {
			m.tagIdx = min(m.tagIdx+1, max(len(m.state.AllTags)-1, 0))
		} else if msg.String() != "right" {
			m.postIdx = min(m.postIdx+1, max(len(posts)-1, 0))
		}
	case " ", "space":
		if m.focus == paneTags && m.tagIdx < len(m.state.AllTags) {
			m.store.ToggleTag(m.state.AllTags[m.tagIdx])
			m.setState(m.store.Snapshot())
		}
	case "c":
		m.store.ClearTags()
		m.setState(m.store.Snapshot())
	case "t":
		return m, m.tagsCmd()
	case "r":
		return m.startFetch(m.page)
	case "n":
		if m.state.Page.TotalPages == 0 || m.page < m.state.Page.TotalPages {
			return m.startFetch(m.page + 1)
		}
	case "p":
		if m.page > 1 {
			return m.startFetch(m.page - 1)
		}
	case "l", "d":
		if m.postIdx < len(posts) {
			return m, m.reactCmd(posts[m.postIdx].ID, msg.String() == "l")
		}
	case "enter":
		if m.postIdx < len(posts) {
			m.mode = modeDetail
			m.openID = posts[m.postIdx].ID
			m.threads = nil
			m.state.DetailLoading = true
			return m, tea.Batch(m.detailCmd(posts[m.postIdx].ID), m.spinner.Tick)
		}
	}
	return m, nil
}

func (m BrowseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.mode = modeList
		m.openID = 0
		m.threads = nil
		m.store.ClearCurrentPost()
		m.setState(m.store.Snapshot())
	case "l", "d":
		if m.openPost() != nil {
			return m, m.reactCmd(m.openID, msg.String() == "l")
		}
	}
	return m, nil
}

func (m BrowseModel) startFetch(page int) (tea.Model, tea.Cmd) {
	m.page = page
	m.state.Loading = true
	return m, tea.Batch(m.fetchCmd(page), m.spinner.Tick)
}

func (m *BrowseModel) setState(st store.State) {
	m.state = st
	if n := len(st.FilteredPosts()); m.postIdx >= n {
		m.postIdx = max(n-1, 0)
	}
	if n := len(st.AllTags); m.tagIdx >= n {
		m.tagIdx = max(n-1, 0)
	}
}

func (m BrowseModel) waitForChange() tea.Cmd {
	ctx, changes := m.ctx, m.changes
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			return storeChangedMsg{}
		}
	}
}

func (m BrowseModel) fetchCmd(page int) tea.Cmd {
	st, ctx, limit := m.store, m.ctx, m.limit
	return func() tea.Msg {
		err := st.FetchPosts(ctx, models.ListPostsOptions{Page: page, Limit: limit})
		if errors.Is(err, store.ErrSuperseded) {
			return nil
		}
		return actionMsg{state: st.Snapshot(), err: err}
	}
}

func (m BrowseModel) tagsCmd() tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		err := st.FetchTags(ctx)
		return actionMsg{state: st.Snapshot(), status: "showing all server tags", err: err}
	}
}

func (m BrowseModel) reactCmd(postID int64, like bool) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		var status string
		var err error
		if like {
			var r *models.LikeResult
			if r, err = st.ToggleLike(ctx, postID); err == nil {
				status = "like removed"
				if r.Liked {
					status = "liked"
				}
			}
		} else {
			var r *models.DislikeResult
			if r, err = st.ToggleDislike(ctx, postID); err == nil {
				status = "dislike removed"
				if r.Disliked {
					status = "disliked"
				}
			}
		}
		return actionMsg{state: st.Snapshot(), status: status, err: err}
	}
}

func (m BrowseModel) detailCmd(postID int64) tea.Cmd {
	st, ctx, userID := m.store, m.ctx, m.userID
	return func() tea.Msg {
		if _, err := st.GetPostByID(ctx, postID, userID); err != nil {
			return detailMsg{postID: postID, state: st.Snapshot(), err: err}
		}
		comments, err := st.FetchComments(ctx, postID)
		return detailMsg{postID: postID, state: st.Snapshot(), threads: models.BuildThreads(comments), err: err}
	}
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   FOLIO"))
	b.WriteString(titleStyle.Render(fmt.Sprintf(" - page %d", m.page)))
	if tp := m.state.Page.TotalPages; tp > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" of %d", tp)))
	}
	b.WriteString("\n\n")

	if m.mode == modeDetail {
		b.WriteString(m.viewDetail())
	} else {
		b.WriteString(m.viewList())
	}

	b.WriteString("\n")
	switch {
	case m.state.Err != "":
		b.WriteString(errorStyle.Render("✗ " + m.state.Err))
	case m.status != "":
		b.WriteString(successStyle.Render("✓ " + m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m BrowseModel) viewList() string {
	var tags strings.Builder
	if len(m.state.AllTags) == 0 {
		tags.WriteString(dimStyle.Render("no tags"))
	}
	for i, tag := range m.state.AllTags {
		var label string
		if m.state.IsSelected(tag) {
			label = selectedStyle.Render("[x] " + tag)
		} else {
			label = tagStyle.Render("[ ] " + tag)
		}
		if m.focus == paneTags && i == m.tagIdx {
			label = focusStyle.Render("›") + label
		} else {
			label = " " + label
		}
		tags.WriteString(label + " ")
	}

	var posts strings.Builder
	filtered := m.state.FilteredPosts()
	switch {
	case m.state.Loading:
		posts.WriteString(m.spinner.View() + " Loading posts...")
	case len(filtered) == 0:
		posts.WriteString(dimStyle.Render("No posts."))
	default:
		for i, p := range filtered {
			cursor := "  "
			if m.focus == panePosts && i == m.postIdx {
				cursor = focusStyle.Render("▸ ")
			}
			posts.WriteString(cursor + formatPostLine(p) + "\n")
		}
	}

	tagBox, postBox := paneStyle, paneStyle
	if m.focus == paneTags {
		tagBox = activePane
	} else {
		postBox = activePane
	}

	var b strings.Builder
	b.WriteString(tagBox.Render(tags.String()))
	b.WriteString("\n")
	b.WriteString(postBox.Render(strings.TrimRight(posts.String(), "\n")))
	b.WriteString("\n")
	b.WriteString(promptStyle.Render("tab focus · ↑↓ move · space tag · c clear · t all tags · l/d react · enter open · r refresh · n/p page · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m BrowseModel) viewDetail() string {
	var b strings.Builder
	p := m.openPost()
	if p == nil {
		if m.state.DetailLoading {
			b.WriteString(m.spinner.View() + " Loading post...\n")
		}
		b.WriteString(promptStyle.Render("esc back · q quit"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	meta := []string{fmt.Sprintf("♥ %d", p.LikesCount), fmt.Sprintf("✗ %d", p.DislikesCount)}
	if p.Author != "" {
		meta = append([]string{"by " + p.Author}, meta...)
	}
	if len(p.Tags) > 0 {
		meta = append(meta, "#"+strings.Join(p.Tags, " #"))
	}
	b.WriteString(dimStyle.Render(strings.Join(meta, "  ")))
	b.WriteString("\n\n")
	b.WriteString(p.Content)
	b.WriteString("\n\n")

	b.WriteString(stepStyle.Render(fmt.Sprintf("Comments (%d)", countComments(m.threads))))
	b.WriteString("\n")
	for _, th := range m.threads {
		b.WriteString(fmt.Sprintf("  %s: %s\n", th.Comment.UserID, th.Comment.Content))
		for _, r := range th.Replies {
			b.WriteString(dimStyle.Render(fmt.Sprintf("    ↳ %s: %s", r.UserID, r.Content)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(promptStyle.Render("l like · d dislike · esc back · q quit"))
	b.WriteString("\n")
	return b.String()
}

// openPost returns the current post if it is the one opened in detail mode.
func (m BrowseModel) openPost() *models.Post {
	if p := m.state.CurrentPost; p != nil && p.ID == m.openID {
		return p
	}
	return nil
}

func formatPostLine(p models.Post) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString(dimStyle.Render(fmt.Sprintf("  ♥ %d ✗ %d", p.LikesCount, p.DislikesCount)))
	if p.UserLiked {
		b.WriteString(selectedStyle.Render(" (liked)"))
	}
	if p.UserDisliked {
		b.WriteString(errorStyle.Render(" (disliked)"))
	}
	if len(p.Tags) > 0 {
		b.WriteString(tagStyle.Render("  #" + strings.Join(p.Tags, " #")))
	}
	return b.String()
}

func countComments(threads []models.CommentThread) int {
	n := 0
	for _, th := range threads {
		n += 1 + len(th.Replies)
	}
	return n
}
