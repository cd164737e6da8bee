// Package feed implements the client-side feed controller: offset pagination
// over the remote feed plus the optimistic mutation layer for likes, posts and
// comments. All state lives in one controller owned by the view layer; there
// are no package-level globals.
package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
	"github.com/andreazevedo1975/OldKut-sub000/internal/usercache"
)

// DefaultPageSize is used when a Controller is built with size <= 0.
const DefaultPageSize = 10

// Controller maintains the newest-first post sequence for one viewer.
type Controller struct {
	client   api.Client
	users    *usercache.Cache
	log      *logrus.Logger
	pageSize int

	mu       sync.Mutex
	viewerID uint
	posts    []api.Post
	page     int
	hasMore  bool
	fetching bool
	epoch    uint64
}

// NewController creates an idle controller for viewerID. A viewerID of zero
// means no authenticated viewer; loads are no-ops until SetViewer.
func NewController(client api.Client, users *usercache.Cache, viewerID uint, pageSize int, log *logrus.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		client:   client,
		users:    users,
		log:      log,
		pageSize: pageSize,
		viewerID: viewerID,
		hasMore:  true,
	}
}

// SetViewer switches the controller to a new viewer and resets all feed
// state. The epoch bump makes any in-flight page fetch for the previous
// viewer land dead.
func (c *Controller) SetViewer(viewerID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewerID = viewerID
	c.posts = nil
	c.page = 0
	c.hasMore = true
	c.fetching = false
	c.epoch++
}

// LoadInitial resets the feed and fetches page zero. On failure the feed is
// left empty and the error only logged; the caller shows whatever it had.
func (c *Controller) LoadInitial(ctx context.Context) {
	c.mu.Lock()
	if c.viewerID == 0 {
		c.mu.Unlock()
		return
	}
	c.posts = nil
	c.page = 0
	c.hasMore = true
	c.fetching = true
	c.epoch++
	epoch := c.epoch
	viewer := c.viewerID
	c.mu.Unlock()

	result, err := c.client.GetFeed(ctx, viewer, c.pageSize, 0)

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.fetching = false
	if err != nil {
		c.log.WithError(err).Warn("initial feed load failed")
		c.mu.Unlock()
		return
	}
	c.posts = result
	c.hasMore = len(result) == c.pageSize
	c.mu.Unlock()

	c.resolveAuthors(ctx, result)
}

// LoadMore fetches the next page. It is a no-op while a fetch is in flight,
// once the feed is exhausted, or without an authenticated viewer. The
// fetching flag is the sole mutual exclusion: set under the lock before the
// request starts, cleared on every completed request.
func (c *Controller) LoadMore(ctx context.Context) {
	c.mu.Lock()
	if c.fetching || !c.hasMore || c.viewerID == 0 {
		c.mu.Unlock()
		return
	}
	c.fetching = true
	epoch := c.epoch
	viewer := c.viewerID
	next := c.page + 1
	c.mu.Unlock()

	result, err := c.client.GetFeed(ctx, viewer, c.pageSize, next*c.pageSize)

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.fetching = false
	if err != nil {
		c.log.WithError(err).WithField("page", next).Warn("feed page load failed")
		c.mu.Unlock()
		return
	}
	c.posts = append(c.posts, result...)
	c.page = next
	c.hasMore = len(result) == c.pageSize
	c.mu.Unlock()

	c.resolveAuthors(ctx, result)
}

// ToggleLike flips the viewer's membership in the post's like set locally,
// then confirms with the server. On failure the post's like set is restored
// to its prior value (scoped rollback, not a whole-feed snapshot) and the
// error returned for display.
func (c *Controller) ToggleLike(ctx context.Context, postID uint) error {
	c.mu.Lock()
	idx := c.indexOf(postID)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("post %d not in feed", postID)
	}
	viewer := c.viewerID
	prior := append([]uint(nil), c.posts[idx].Likes...)
	c.posts[idx].Likes = toggle(prior, viewer)
	c.mu.Unlock()

	if err := c.client.ToggleLike(ctx, postID, viewer); err != nil {
		c.mu.Lock()
		if i := c.indexOf(postID); i >= 0 {
			c.posts[i].Likes = prior
		}
		c.mu.Unlock()
		return fmt.Errorf("toggle like on post %d: %w", postID, err)
	}
	return nil
}

// CreatePost submits content and, on success, prepends the canonical post
// returned by the server. Creation is confirm-then-display: nothing local is
// shown before the server answers.
func (c *Controller) CreatePost(ctx context.Context, content string) (api.Post, error) {
	c.mu.Lock()
	viewer := c.viewerID
	c.mu.Unlock()

	post, err := c.client.CreatePost(ctx, viewer, content)
	if err != nil {
		return api.Post{}, fmt.Errorf("create post: %w", err)
	}

	c.mu.Lock()
	c.posts = append([]api.Post{post}, c.posts...)
	c.mu.Unlock()
	return post, nil
}

// AddComment submits a comment and, on success, appends the server's
// canonical comment to the matching post. Failure leaves the feed untouched.
func (c *Controller) AddComment(ctx context.Context, postID uint, content string) (api.Comment, error) {
	c.mu.Lock()
	viewer := c.viewerID
	c.mu.Unlock()

	comment, err := c.client.CreateComment(ctx, postID, viewer, content)
	if err != nil {
		return api.Comment{}, fmt.Errorf("comment on post %d: %w", postID, err)
	}

	c.mu.Lock()
	if idx := c.indexOf(postID); idx >= 0 {
		c.posts[idx].Comments = append(c.posts[idx].Comments, comment)
	}
	c.mu.Unlock()

	if c.users != nil {
		c.users.Resolve(ctx, comment.AuthorID)
	}
	return comment, nil
}

// Posts returns a snapshot of the loaded feed, newest first.
func (c *Controller) Posts() []api.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Post(nil), c.posts...)
}

// HasMore reports whether another page may exist. A short page is the sole
// termination signal; server-side deletions between pages can leave this
// true past the real end.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Page returns the index of the last loaded page.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// indexOf scans for a post by ID. Caller holds c.mu.
func (c *Controller) indexOf(postID uint) int {
	for i := range c.posts {
		if c.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

func (c *Controller) resolveAuthors(ctx context.Context, posts []api.Post) {
	if c.users == nil {
		return
	}
	for i := range posts {
		c.users.Resolve(ctx, posts[i].AuthorID)
		for j := range posts[i].Comments {
			c.users.Resolve(ctx, posts[i].Comments[j].AuthorID)
		}
	}
}

// toggle returns likes with userID removed if present, appended otherwise.
func toggle(likes []uint, userID uint) []uint {
	out := make([]uint, 0, len(likes)+1)
	found := false
	for _, id := range likes {
		if id == userID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, userID)
	}
	return out
}
