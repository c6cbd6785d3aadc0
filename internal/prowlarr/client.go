// Package prowlarr provides a client for the Prowlarr v1 API.
// It covers the calls the TUI needs: system status, indexer and download
// client listing, release search and pushing a release to a download client.
package prowlarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client interfaces with the Prowlarr API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Prowlarr API client. timeout bounds each request.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 2),
	}
}

// GatewayError is returned for any failed call. Status is 0 when the
// request never got a response.
type GatewayError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s failed: HTTP %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// IsBadRequest reports whether err is a gateway 400 response.
func IsBadRequest(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Status == http.StatusBadRequest
}

// CheckStatus verifies the server is reachable and the API key accepted.
func (c *Client) CheckStatus(ctx context.Context) (SystemStatus, error) {
	var status SystemStatus
	err := c.getJSON(ctx, "status", "/api/v1/system/status", &status)
	return status, err
}

// ListIndexers returns all configured indexers
func (c *Client) ListIndexers(ctx context.Context) ([]Indexer, error) {
	var indexers []Indexer
	err := c.getJSON(ctx, "list indexers", "/api/v1/indexer", &indexers)
	return indexers, err
}

// ListDownloadClients returns the download clients configured in Prowlarr
func (c *Client) ListDownloadClients(ctx context.Context) ([]DownloadClient, error) {
	var clients []DownloadClient
	err := c.getJSON(ctx, "list download clients", "/api/v1/downloadclient", &clients)
	return clients, err
}

// Search queries every given indexer for releases
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	var results []SearchResult
	err := c.getJSON(ctx, "search", "/api/v1/search?"+SearchQuery(req), &results)
	return results, err
}

// SendToDownloadClient asks Prowlarr to grab a release
func (c *Client) SendToDownloadClient(ctx context.Context, payload ReleasePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &GatewayError{Op: "send to download client", Message: err.Error(), Err: err}
	}
	resp, err := c.do(ctx, "send to download client", http.MethodPost, "/api/v1/release", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// SearchQuery encodes a search request. Array values are written as
// repeated key=value pairs (categories=2000&categories=5000), which is what
// Prowlarr binds; bracketed keys are not understood.
func SearchQuery(req SearchRequest) string {
	var b strings.Builder
	b.WriteString("query=")
	b.WriteString(url.QueryEscape(req.Query))
	b.WriteString("&type=search")
	for _, id := range req.Categories {
		b.WriteString("&categories=")
		b.WriteString(strconv.Itoa(id))
	}
	for _, id := range req.IndexerIDs {
		b.WriteString("&indexerIds=")
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	resp, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &GatewayError{Op: op, Status: resp.StatusCode, Message: "invalid response: " + err.Error(), Err: err}
	}
	return nil
}

// do sends one request. Non-2xx responses are turned into *GatewayError
// and their body is closed; on success the caller owns resp.Body.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &GatewayError{Op: op, Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &GatewayError{Op: op, Message: err.Error(), Err: err}
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: op, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, &GatewayError{Op: op, Status: resp.StatusCode, Message: errorMessage(resp)}
	}
	return resp, nil
}

// errorMessage extracts a readable message from an error body. Prowlarr
// returns either {"message": ...}, a list of validation failures, or text.
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var single struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &single); err == nil && single.Message != "" {
		return single.Message
	}

	var failures []struct {
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(data, &failures); err == nil && len(failures) > 0 {
		msgs := make([]string, 0, len(failures))
		for _, f := range failures {
			if f.ErrorMessage != "" {
				msgs = append(msgs, f.ErrorMessage)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
