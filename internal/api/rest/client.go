// Package rest implements the api.Client contract over the OldKut HTTP API.
// Live notifications come over the Redis channel, not HTTP, so the realtime
// hub provides api.Stream and this package only covers request/response.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
)

// Client talks to the OldKut REST API with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for baseURL (no trailing slash) authenticating
// with token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetFeed fetches one feed page, newest first.
func (c *Client) GetFeed(ctx context.Context, viewerID uint, limit, offset int) ([]api.Post, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var envelope struct {
		Data struct {
			Posts []api.Post `json:"posts"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/feed?"+q.Encode(), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Posts, nil
}

// CreatePost submits a post and returns the canonical server object.
func (c *Client) CreatePost(ctx context.Context, authorID uint, content string) (api.Post, error) {
	var post api.Post
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/api/v1/posts", body, &post); err != nil {
		return api.Post{}, err
	}
	return post, nil
}

// ToggleLike flips the user's like on a post.
func (c *Client) ToggleLike(ctx context.Context, postID, userID uint) error {
	path := fmt.Sprintf("/api/v1/posts/%d/like", postID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// CreateComment submits a comment and returns the canonical server object.
func (c *Client) CreateComment(ctx context.Context, postID, authorID uint, content string) (api.Comment, error) {
	var comment api.Comment
	path := fmt.Sprintf("/api/v1/posts/%d/comments", postID)
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, path, body, &comment); err != nil {
		return api.Comment{}, err
	}
	return comment, nil
}

// GetUserProfile fetches the denormalized user record.
func (c *Client) GetUserProfile(ctx context.Context, userID uint) (api.UserRecord, error) {
	var record api.UserRecord
	path := fmt.Sprintf("/api/v1/users/%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &record); err != nil {
		return api.UserRecord{}, err
	}
	return record, nil
}

// ListNotifications fetches the recipient's most recent notifications,
// newest first.
func (c *Client) ListNotifications(ctx context.Context, recipientID uint, limit int) ([]api.Notification, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var envelope struct {
		Data struct {
			Notifications []api.Notification `json:"notifications"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications?"+q.Encode(), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Notifications, nil
}

// SetRead updates the read flag for a batch of notification IDs.
func (c *Client) SetRead(ctx context.Context, ids []uint, read bool) error {
	body := map[string]interface{}{"ids": ids, "read": read}
	return c.do(ctx, http.MethodPut, "/api/v1/notifications/read", body, nil)
}

var _ api.Client = (*Client)(nil)
