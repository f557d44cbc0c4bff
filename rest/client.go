package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"movfeed/models"

	log "github.com/sirupsen/logrus"
)

// Client reads posts from a PostgREST endpoint such as the one Supabase
// exposes under /rest/v1.
type Client struct {
	baseUrl    string
	key        string
	table      string
	httpClient *http.Client
}

// NewClient creates a client for baseUrl. key is sent both as the apikey
// header and as a bearer token, an empty key sends neither. A timeout of
// zero leaves the request bounded only by its context.
func NewClient(baseUrl string, key string, table string, timeout time.Duration) *Client {
	if table == "" {
		table = "posts"
	}
	if timeout < 0 {
		timeout = 0
	}
	return &Client{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		key:     key,
		table:   table,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// QueryVisible fetches every visible row, newest first
func (c *Client) QueryVisible(ctx context.Context) ([]models.RawPost, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("visible", "eq.true")
	query.Set("order", "date.desc")

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseUrl, url.PathEscape(c.table), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.key != "" {
		req.Header.Set("apikey", c.key)
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	log.WithFields(log.Fields{
		"table": c.table,
		"host":  req.URL.Host,
	}).Debug("Querying remote posts")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	posts := []models.RawPost{}
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return posts, nil
}
