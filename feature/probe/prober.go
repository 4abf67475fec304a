package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"m3u-guardian/core/reconcile"

	"go.uber.org/zap"
)

// ErrUnsupportedURL is carried in results for URLs that are not http(s).
var ErrUnsupportedURL = errors.New("unsupported stream url")

// HTTPProber checks stream liveness over HTTP.
type HTTPProber struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	rangeHdr  string
	logger    *zap.Logger
}

// NewHTTPProber creates a prober. A nil client gets a default one bounded by
// cfg.Timeout.
func NewHTTPProber(cfg Config, client *http.Client, logger *zap.Logger) *HTTPProber {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Range == "" {
		cfg.Range = DefaultRange
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPProber{
		client:    client,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		rangeHdr:  cfg.Range,
		logger:    logger,
	}
}

// Probe classifies rawURL, trimmed of surrounding whitespace. It never
// returns an error; failures end up in the result's Err field and the
// candidate is reported dead.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) reconcile.ProbeResult {
	start := time.Now()
	rawURL = strings.TrimSpace(rawURL)
	res := reconcile.ProbeResult{URL: rawURL}

	if !supported(rawURL) {
		res.Err = fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
		res.Elapsed = time.Since(start)
		return res
	}

	res.Method = http.MethodHead
	status, err := p.do(ctx, http.MethodHead, rawURL, nil)
	res.Status = status
	if err != nil {
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}

	switch status {
	case http.StatusOK, http.StatusPartialContent, http.StatusMovedPermanently, http.StatusFound:
		res.Alive = true
	case http.StatusForbidden:
		// Some origins only refuse HEAD.
		res.Method = http.MethodGet
		status, err = p.do(ctx, http.MethodGet, rawURL, map[string]string{"Range": p.rangeHdr})
		res.Status = status
		res.Err = err
		res.Alive = err == nil && (status == http.StatusOK || status == http.StatusPartialContent)
	}

	res.Elapsed = time.Since(start)
	p.logger.Debug("Probed stream",
		zap.String("url", rawURL),
		zap.String("method", res.Method),
		zap.Int("status", res.Status),
		zap.Bool("alive", res.Alive),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}

// do issues one request and returns the response status. The body is
// discarded unread.
func (p *HTTPProber) do(ctx context.Context, method, rawURL string, headers map[string]string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func supported(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
