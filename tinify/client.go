// Package tinify is a small client for the TinyPNG compression API.
//
// An image is uploaded to the /shrink endpoint. The service answers with the
// location of the compressed result, which is then downloaded. Both requests
// authenticate with HTTP basic auth, user "api" and the API key as password.
package tinify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dendrascience/tinypng-compress/version"
)

// DefaultEndpoint is the public TinyPNG API.
const DefaultEndpoint = "https://api.tinify.com"

// Client talks to the compression service. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	count      atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint points the client at another service root, e.g. a test server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for apiKey. The default HTTP client has no
// overall timeout; cancellation comes from the request context.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type shrinkResponse struct {
	Input struct {
		Size int64  `json:"size"`
		Type string `json:"type"`
	} `json:"input"`
	Output struct {
		Size  int64   `json:"size"`
		Type  string  `json:"type"`
		Ratio float64 `json:"ratio"`
		URL   string  `json:"url"`
	} `json:"output"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Shrink uploads data and returns the compressed image.
func (c *Client) Shrink(ctx context.Context, data []byte) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodPost, c.endpoint+"/shrink", data)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var sr shrinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	location := resp.Header.Get("Location")
	if location == "" {
		location = sr.Output.URL
	}
	if location == "" {
		return nil, fmt.Errorf("%w: no output location", ErrInvalidResponse)
	}

	return c.download(ctx, location)
}

// Validate checks the API key by posting an empty upload. The service answers
// such a request with 400 when the key is accepted.
func (c *Client) Validate(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, c.endpoint+"/shrink", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		// the key is valid, the monthly limit is used up
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return decodeError(resp)
	}
}

// CompressionCount returns the number of compressions made this month with
// the API key, as last reported by the service. It is 0 before any request.
func (c *Client) CompressionCount() int {
	return int(c.count.Load())
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) download(ctx context.Context, location string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrInvalidResponse)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	req.SetBasicAuth("api", c.apiKey)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if n, err := strconv.Atoi(resp.Header.Get("Compression-Count")); err == nil {
		c.count.Store(int64(n))
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, _ := io.ReadAll(resp.Body)
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && (er.Error != "" || er.Message != "") {
		apiErr.Kind = er.Error
		apiErr.Message = er.Message
	} else {
		apiErr.Message = string(bytes.TrimSpace(body))
	}
	return apiErr
}
