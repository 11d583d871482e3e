package comexstat

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public ComexStat API endpoint.
	DefaultBaseURL = "https://api-comexstat.mdic.gov.br"

	defaultUserAgent     = "ComexChat/1.0 (github.com/fabiokp/comexchat)"
	defaultQueryTimeout  = 60 * time.Second
	defaultDetailTimeout = 30 * time.Second

	maxResponseBytes = 8 << 20
)

// Config holds settings for the ComexStat client.
type Config struct {
	BaseURL   string
	UserAgent string

	// QueryTimeoutSecs bounds the statistics and table queries;
	// DetailTimeoutSecs bounds single-item lookups.
	QueryTimeoutSecs  int
	DetailTimeoutSecs int

	// InsecureSkipVerify disables TLS certificate validation. The upstream
	// API has served certificates that fail validation; leave this off
	// unless queries fail on the TLS handshake.
	InsecureSkipVerify bool
}

// Client performs HTTP calls against the ComexStat API. It is stateless and
// safe for concurrent use; it never retries on its own.
type Client struct {
	baseURL       string
	userAgent     string
	httpClient    *http.Client
	queryTimeout  time.Duration
	detailTimeout time.Duration
}

// New creates a ComexStat client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	queryTimeout := defaultQueryTimeout
	if cfg.QueryTimeoutSecs > 0 {
		queryTimeout = time.Duration(cfg.QueryTimeoutSecs) * time.Second
	}
	detailTimeout := defaultDetailTimeout
	if cfg.DetailTimeoutSecs > 0 {
		detailTimeout = time.Duration(cfg.DetailTimeoutSecs) * time.Second
	}

	httpClient := &http.Client{}
	if cfg.InsecureSkipVerify {
		log.Println("[comexstat] TLS certificate validation disabled by configuration")
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		baseURL:       baseURL,
		userAgent:     userAgent,
		httpClient:    httpClient,
		queryTimeout:  queryTimeout,
		detailTimeout: detailTimeout,
	}
}

// postJSON sends a JSON body and decodes the response into out. Transport
// errors, bad statuses and non-JSON bodies all come back as a single error;
// callers never see a partial payload.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	return c.do(req, out)
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, url string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.decorate(req)

	return c.do(req, out)
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
}

// errNotFound distinguishes an HTTP 404 from other failures; only the
// single-item lookup treats it specially.
var errNotFound = fmt.Errorf("not found")

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s returned status %d: %s", req.URL, resp.StatusCode, bytes.TrimSpace(detail))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL, err)
	}
	return nil
}
