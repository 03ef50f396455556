package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"cargodesk/internal/table"
)

// ErrSuperseded marks a list fetch whose result arrived after a newer fetch
// was issued for the same table. Callers drop the result; the last-issued
// fetch always wins.
var ErrSuperseded = errors.New("list fetch superseded")

// ListQuery describes one page fetch.
type ListQuery struct {
	Page     int
	PageSize int
	Filters  map[string]string
	Sort     table.SortState
}

// ListPage is the list envelope returned by every list endpoint.
type ListPage[T any] struct {
	Data       []T `json:"data"`
	TotalPages int `json:"totalPages"`
}

// Client fetches one entity's pages from the proxy surface. Each client
// keeps at most one list fetch outstanding: issuing a new one cancels the
// previous, and a cancelled fetch's completion is reported as ErrSuperseded
// so stale responses can never land in screen state.
type Client[T any] struct {
	baseURL    string
	route      string
	httpClient *http.Client

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

// NewClient creates a client for one resource route (e.g. "clients") against
// the proxy base URL.
func NewClient[T any](baseURL, route string) *Client[T] {
	return &Client[T]{
		baseURL:    baseURL,
		route:      route,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client[T]) resourceURL() string {
	return c.baseURL + "/api/general-settings/" + c.route
}

// List fetches one page, superseding any fetch still in flight for this
// client.
func (c *Client[T]) List(ctx context.Context, q ListQuery) (ListPage[T], error) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	myGen := c.gen
	c.mu.Unlock()

	page, err := c.list(ctx, q)

	c.mu.Lock()
	stale := c.gen != myGen
	if !stale {
		c.cancel = nil
	}
	c.mu.Unlock()

	if stale {
		return ListPage[T]{}, ErrSuperseded
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ListPage[T]{}, ErrSuperseded
		}
		return ListPage[T]{}, err
	}
	return page, nil
}

func (c *Client[T]) list(ctx context.Context, q ListQuery) (ListPage[T], error) {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("pageNumber", fmt.Sprintf("%d", q.Page))
	}
	if q.PageSize > 0 {
		values.Set("pageSize", fmt.Sprintf("%d", q.PageSize))
	}
	for k, v := range q.Filters {
		if v != "" {
			values.Set(k, v)
		}
	}
	if q.Sort.Column != "" && q.Sort.Direction != table.SortNone {
		values.Set("sortColumn", q.Sort.Column)
		values.Set("sortDirection", q.Sort.Direction.String())
	}

	reqURL := c.resourceURL()
	if len(values) > 0 {
		reqURL += "?" + values.Encode()
	}

	var page ListPage[T]
	raw, err := c.do(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return page, err
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return page, fmt.Errorf("failed to decode list response: %w", err)
	}
	return page, nil
}

// Create posts a new record.
func (c *Client[T]) Create(ctx context.Context, body map[string]any) error {
	_, err := c.do(ctx, http.MethodPost, c.resourceURL(), body)
	return err
}

// Update puts changes to an existing record.
func (c *Client[T]) Update(ctx context.Context, body map[string]any) error {
	_, err := c.do(ctx, http.MethodPut, c.resourceURL(), body)
	return err
}

// Delete removes the record addressed by the composite key parameters.
func (c *Client[T]) Delete(ctx context.Context, key map[string]string) error {
	values := url.Values{}
	for k, v := range key {
		values.Set(k, v)
	}
	_, err := c.do(ctx, http.MethodDelete, c.resourceURL()+"?"+values.Encode(), nil)
	return err
}

func (c *Client[T]) do(ctx context.Context, method, reqURL string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeEnvelope(resp.StatusCode, raw)
	}
	return raw, nil
}
