// Package docstore provides a client for a Chroma-compatible document
// store and a retriever with an embedded fallback corpus.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/bh-assurance/agent-cli/internal/resilience"
)

// Document is one stored chunk with its metadata.
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Client defines the document store operations used by this application.
type Client interface {
	// EnsureCollection creates the collection if absent and returns its id.
	EnsureCollection(ctx context.Context, name string) (string, error)
	// AddDocuments upserts documents into a collection.
	AddDocuments(ctx context.Context, collectionID string, docs []Document) error
	// Query returns the documents most similar to the query text.
	Query(ctx context.Context, collectionID, query string, limit int) ([]Document, error)
}

// Option configures the document store client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit throttles outgoing requests to rps requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// WithRetry overrides the retry policy for outgoing requests.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a document store client for the given base URL,
// e.g. http://localhost:8000.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(10, 10),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// statusError is a non-2xx response. Only 5xx responses are retried.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("docstore: unexpected status %d: %s", e.code, e.body)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError
	}
	// Network and transport failures are worth retrying.
	return true
}

func (c *httpClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "docstore: marshal request")
	}

	cfg := c.retry
	cfg.ShouldRetry = retryable
	return resilience.Do(ctx, cfg, func(ctx context.Context) error {
		return c.doPost(ctx, path, body, out)
	})
}

func (c *httpClient) doPost(ctx context.Context, path string, body []byte, out any) error {
	if err := c.wait(ctx); err != nil {
		return eris.Wrap(err, "docstore: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "docstore: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "docstore: POST %s", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "docstore: read response body")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &statusError{code: resp.StatusCode, body: string(respBody)}
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return eris.Wrap(err, "docstore: unmarshal response")
		}
	}
	return nil
}

func (c *httpClient) EnsureCollection(ctx context.Context, name string) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	err := c.post(ctx, "/api/v1/collections", map[string]any{
		"name":          name,
		"get_or_create": true,
	}, &resp)
	if err != nil {
		return "", eris.Wrapf(err, "docstore: ensure collection %s", name)
	}
	return resp.ID, nil
}

func (c *httpClient) AddDocuments(ctx context.Context, collectionID string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	contents := make([]string, len(docs))
	metadatas := make([]map[string]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		contents[i] = d.Content
		metadatas[i] = d.Metadata
	}

	path := fmt.Sprintf("/api/v1/collections/%s/add", collectionID)
	return c.post(ctx, path, map[string]any{
		"ids":       ids,
		"documents": contents,
		"metadatas": metadatas,
	}, nil)
}

func (c *httpClient) Query(ctx context.Context, collectionID, query string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 5
	}

	var resp struct {
		IDs       [][]string            `json:"ids"`
		Documents [][]string            `json:"documents"`
		Metadatas [][]map[string]string `json:"metadatas"`
	}
	path := fmt.Sprintf("/api/v1/collections/%s/query", collectionID)
	err := c.post(ctx, path, map[string]any{
		"query_texts": []string{query},
		"n_results":   limit,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}
	out := make([]Document, 0, len(resp.IDs[0]))
	for i, id := range resp.IDs[0] {
		d := Document{ID: id}
		if i < len(resp.Documents[0]) {
			d.Content = resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			d.Metadata = resp.Metadatas[0][i]
		}
		out = append(out, d)
	}
	return out, nil
}
