package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	figmaAPIBase = "https://api.figma.com/v1"

	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

// Client represents a Figma API client with configured HTTP settings for reliable communication
// with the Figma API. It includes retry logic and optimized transport settings for handling large files.
type Client struct {
	accessToken string
	httpClient  *http.Client

	baseURL    string
	maxRetries int
	retryDelay time.Duration
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetry sets the number of attempts and the base delay between them.
// The delay grows linearly with the attempt number.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		if attempts > 0 {
			c.maxRetries = attempts
		}
		c.retryDelay = delay
	}
}

// NewClient creates a new Figma API client with the provided personal access token.
// The client is configured with optimized HTTP transport settings including connection pooling,
// disabled HTTP/2 (for large file stability), and a 10-minute timeout for very large files.
func NewClient(accessToken string, opts ...ClientOption) *Client {
	// Configure transport for better handling of large files
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		DisableKeepAlives:   false,
		MaxIdleConnsPerHost: 10,
		// Disable HTTP/2 to avoid stream errors with large files
		ForceAttemptHTTP2: false,
	}

	c := &Client{
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout:   10 * time.Minute, // Increased timeout for very large files
			Transport: transport,
		},
		baseURL:    figmaAPIBase,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	fileKeyPattern     = regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design)/([A-Za-z0-9]+)(?:/|$)`)
	queryNodeIDPattern = regexp.MustCompile(`[?&]node-id=([^&#]*)`)
	pathNodeIDPattern  = regexp.MustCompile(`/nodes/([^?#]+)`)
)

// ExtractFileKey extracts the unique file identifier from a Figma URL.
// Supports both /file/ and /design/ URL patterns (e.g., figma.com/file/ABC123/Design-Name).
// Returns an error if the URL format is invalid or if the URL doesn't match the expected Figma domain pattern.
func ExtractFileKey(figmaURL string) (string, error) {
	// Anchored to ensure the entire URL matches the expected pattern and prevent bypass attacks.
	matches := fileKeyPattern.FindStringSubmatch(figmaURL)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Figma URL format: must be a valid figma.com URL with /file/ or /design/ path")
	}

	return matches[1], nil
}

// ExtractNodeIDs returns the node IDs a Figma URL points at, in API form
// ("123:456"). It understands the node-id query parameter, the /nodes/ path
// segment and the #fragment form; dashes from browser URLs become colons.
// A URL without node IDs yields an empty slice.
func ExtractNodeIDs(figmaURL string) ([]string, error) {
	var raw string
	if m := queryNodeIDPattern.FindStringSubmatch(figmaURL); m != nil {
		raw = m[1]
	} else if m := pathNodeIDPattern.FindStringSubmatch(figmaURL); m != nil {
		raw = m[1]
	} else if i := strings.IndexByte(figmaURL, '#'); i >= 0 {
		raw = figmaURL[i+1:]
	}

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid node-id %q: %w", raw, err)
	}

	ids := make([]string, 0)
	for _, part := range strings.Split(decoded, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		ids = append(ids, strings.ReplaceAll(id, "-", ":"))
	}
	return deduplicateNodeIDs(ids), nil
}

// deduplicateNodeIDs removes repeated IDs, keeping the first occurrence.
func deduplicateNodeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// GetFile retrieves complete file data from the Figma API including the document tree and the
// component and component set metadata. Transient failures are retried.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*FileResponse, error) {
	var fileResp FileResponse
	if err := c.get(ctx, fmt.Sprintf("%s/files/%s", c.baseURL, url.PathEscape(fileKey)), true, &fileResp); err != nil {
		return nil, err
	}
	return &fileResp, nil
}

// ImageOptions are the render settings of an images API request.
type ImageOptions struct {
	Format string // "svg", "png", "jpg" or "pdf"
	Scale  float64

	// SVG only.
	OutlineText    bool
	IncludeID      bool
	SimplifyStroke bool
}

// GetImages asks Figma to render the given nodes and returns a map of node ID
// to a short-lived download URL. Figma accepts at most maxNodesPerRequest IDs
// per call; callers batch.
func (c *Client) GetImages(ctx context.Context, fileKey string, nodeIDs []string, opts ImageOptions) (*ImagesResponse, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(nodeIDs, ","))
	format := opts.Format
	if format == "" {
		format = "svg"
	}
	q.Set("format", format)
	if opts.Scale > 0 {
		q.Set("scale", strconv.FormatFloat(opts.Scale, 'f', -1, 64))
	}
	if format == "svg" {
		q.Set("svg_outline_text", strconv.FormatBool(opts.OutlineText))
		q.Set("svg_include_id", strconv.FormatBool(opts.IncludeID))
		q.Set("svg_simplify_stroke", strconv.FormatBool(opts.SimplifyStroke))
	}

	var imgResp ImagesResponse
	if err := c.get(ctx, fmt.Sprintf("%s/images/%s?%s", c.baseURL, url.PathEscape(fileKey), q.Encode()), true, &imgResp); err != nil {
		return nil, err
	}
	if imgResp.Err != "" {
		return nil, fmt.Errorf("images API error: %s", imgResp.Err)
	}
	return &imgResp, nil
}

// Download fetches a rendered image. Image URLs are pre-signed, so no token is sent.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	var body []byte
	err := c.do(ctx, imageURL, false, func(r io.Reader) error {
		var err error
		body, err = io.ReadAll(r)
		return err
	})
	return body, err
}

func (c *Client) get(ctx context.Context, endpoint string, auth bool, v any) error {
	return c.do(ctx, endpoint, auth, func(r io.Reader) error {
		body, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, v); err != nil {
			return &permanentError{fmt.Errorf("failed to parse response: %w", err)}
		}
		return nil
	})
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// do performs a GET with automatic retry logic (up to maxRetries attempts) and a growing delay
// for handling rate limits and temporary failures. The request retries on transport errors,
// 429 (rate limit) and 5xx (server error) responses.
func (c *Client) do(ctx context.Context, endpoint string, auth bool, read func(io.Reader) error) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		retry, err := c.attempt(ctx, endpoint, auth, read)
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt, err)
		if !retry || attempt == c.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * c.retryDelay):
		}
	}

	return lastErr
}

func (c *Client) attempt(ctx context.Context, endpoint string, auth bool, read func(io.Reader) error) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	if auth {
		req.Header.Set("X-Figma-Token", c.accessToken)
	}
	// Disable HTTP/2 to avoid stream errors with large files
	req.Header.Set("Connection", "close")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := read(resp.Body); err != nil {
		var perm *permanentError
		if errors.As(err, &perm) {
			return false, perm.err
		}
		return true, fmt.Errorf("failed to read response body: %w", err)
	}
	return false, nil
}
