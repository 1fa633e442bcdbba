// Package fetch provides the rate-limited HTTP client used to pull broadcast
// pages from public channels.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; KajianHubParser/1.0; +https://kajianhub.id)"

const maxBodyBytes = 5 << 20

// Client fetches pages with per-host rate limiting and bounded retries on
// transient failures.
type Client struct {
	http        *http.Client
	retries     int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	limiter     *HostRateLimiter
	logger      *slog.Logger
}

// Config tunes the client; zero values get sane defaults.
type Config struct {
	Timeout      time.Duration
	Retries      int
	BaseBackoff  time.Duration
	MaxBackoff   time.Duration
	RateLimitRPS float64
	RateBurst    int
}

// New creates a fetch client.
func New(logger *slog.Logger, cfg Config) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 12 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 2
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 250 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 3 * time.Second
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 1.5
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 2
	}
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
				MaxIdleConns:        64,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     60 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		retries:     cfg.Retries,
		baseBackoff: cfg.BaseBackoff,
		maxBackoff:  cfg.MaxBackoff,
		limiter:     NewHostRateLimiter(cfg.RateLimitRPS, cfg.RateBurst),
		logger:      logger,
	}
}

// Get fetches rawURL and returns body and status.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, int, error) {
	if c == nil {
		return nil, 0, errors.New("fetch client is nil")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid url: %w", err)
	}
	host := parsed.Hostname()

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := c.limiter.Wait(ctx, host); err != nil {
			return nil, 0, err
		}
		body, status, err := c.doRequest(ctx, rawURL)
		if err == nil {
			if !retryableStatus(status) || attempt >= c.retries {
				return body, status, nil
			}
			lastErr = fmt.Errorf("transient status %d", status)
			c.logger.Warn("fetch_retry_status", "host", host, "status", status, "attempt", attempt+1)
		} else {
			lastErr = err
			if !transientError(err) || attempt >= c.retries {
				return nil, status, err
			}
			c.logger.Warn("fetch_retry_error", "host", host, "attempt", attempt+1, "error", err)
		}
		if err := c.sleepBackoff(ctx, attempt); err != nil {
			return nil, 0, err
		}
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, 0, lastErr
}

func (c *Client) doRequest(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9,en;q=0.7")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func (c *Client) sleepBackoff(ctx context.Context, attempt int) error {
	d := c.baseBackoff << attempt
	if d > c.maxBackoff {
		d = c.maxBackoff
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status <= 599
}

func transientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
