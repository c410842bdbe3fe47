package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mdboard-tui/internal/model"
)

// Client talks to a running mdboard server. All methods are stateless
// request/decode pairs; the live event stream is opened with
// [Client.OpenEvents].
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// BaseURL returns the server base URL the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// StatusError is returned when the server responds with a non-2xx
// status code.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("api: HTTP %d", e.Code)
}

func (c *Client) Version(ctx context.Context) (model.Version, error) {
	var v model.Version
	err := c.getJSON(ctx, "/api/version", &v)
	return v, err
}

func (c *Client) Config(ctx context.Context) (model.Config, error) {
	var cfg model.Config
	err := c.getJSON(ctx, "/api/config", &cfg)
	return cfg, err
}

func (c *Client) Board(ctx context.Context) (model.Board, error) {
	var b model.Board
	err := c.getJSON(ctx, "/api/board", &b)
	return b, err
}

func (c *Client) Task(ctx context.Context, column, filename string) (model.Task, error) {
	var t model.Task
	err := c.getJSON(ctx, "/api/task/"+seg(column)+"/"+seg(filename), &t)
	return t, err
}

func (c *Client) Comments(ctx context.Context, taskID string) ([]model.Comment, error) {
	var comments []model.Comment
	err := c.getJSON(ctx, "/api/comments/"+seg(taskID), &comments)
	return comments, err
}

func (c *Client) Resources(ctx context.Context, kind model.ResourceKind) ([]model.Resource, error) {
	var resources []model.Resource
	err := c.getJSON(ctx, "/api/"+kind.APIPath(), &resources)
	return resources, err
}

func (c *Client) Resource(ctx context.Context, kind model.ResourceKind, dirName string) (model.Resource, error) {
	var r model.Resource
	err := c.getJSON(ctx, "/api/"+kind.APIPath()+"/"+seg(dirName), &r)
	return r, err
}

func (c *Client) Revisions(ctx context.Context, kind model.ResourceKind, dirName string) ([]model.Revision, error) {
	var revs []model.Revision
	err := c.getJSON(ctx, "/api/"+kind.APIPath()+"/"+seg(dirName)+"/revisions", &revs)
	return revs, err
}

func (c *Client) Activity(ctx context.Context) ([]model.ActivityEntry, error) {
	var entries []model.ActivityEntry
	err := c.getJSON(ctx, "/api/activity", &entries)
	return entries, err
}

// OpenEvents opens the server's live event stream. On success the
// caller owns the returned body and must close it; anything other than
// HTTP 200 is reported as a *StatusError with the body already closed.
func (c *Client) OpenEvents(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return nil, fmt.Errorf("api: creating events request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: opening event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readStatusError(resp)
	}
	return resp.Body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("api: creating request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readStatusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decoding %s response: %w", path, err)
	}
	return nil
}

// readStatusError captures a short excerpt of an error body for
// diagnostics without slurping arbitrarily large responses.
func readStatusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{
		Code: resp.StatusCode,
		Body: strings.TrimSpace(string(body)),
	}
}

func seg(s string) string {
	return url.PathEscape(s)
}
