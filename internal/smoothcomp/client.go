package smoothcomp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wrestlepro/wrestlepro/internal/cache"
)

// UpstreamError carries the competition API's status and body through to
// the handler, which decides whether to degrade or propagate.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("smoothcomp upstream status %d", e.Status)
}

// Client proxies read-only calls against the Smoothcomp API. Responses
// are passed through as raw JSON; this service adds no schema of its own.
type Client struct {
	base  string
	key   string
	httpc *http.Client
	cache *cache.Cache
}

func New(baseURL, apiKey string, c *cache.Cache) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		key:   apiKey,
		httpc: &http.Client{Timeout: 15 * time.Second},
		cache: c,
	}
}

func (c *Client) ListEvents(ctx context.Context, query string) (json.RawMessage, error) {
	path := "events"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	return c.get(ctx, path)
}

func (c *Client) GetEvent(ctx context.Context, eventID string) (json.RawMessage, error) {
	return c.get(ctx, "events/"+url.PathEscape(eventID))
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	cacheKey := "smoothcomp:v1:" + path

	if cached, ok := c.cache.Get(ctx, cacheKey); ok {
		return json.RawMessage(cached), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+path, nil)

	if err != nil {
		return nil, err
	}

	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	res, err := c.httpc.Do(req)

	if err != nil {
		return nil, err
	}

	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))

	if err != nil {
		return nil, err
	}

	if res.StatusCode >= 400 {
		return nil, &UpstreamError{Status: res.StatusCode, Body: string(body)}
	}

	c.cache.Set(ctx, cacheKey, string(body))

	return json.RawMessage(body), nil
}
