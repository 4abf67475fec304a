package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"m3u-guardian/core/utils"
)

// Category is a live category of the panel.
type Category struct {
	ID   string
	Name string
}

// Stream is a live stream listed by the panel.
type Stream struct {
	ID         string
	Name       string
	CategoryID string
	URL        string
}

type rawCategory struct {
	CategoryID   any    `json:"category_id"`
	CategoryName string `json:"category_name"`
}

type rawStream struct {
	StreamID   any    `json:"stream_id"`
	Name       string `json:"name"`
	CategoryID any    `json:"category_id"`
	StreamURL  string `json:"stream_url"`
}

// Client queries the Xtream player API.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a client. A nil httpClient gets one bounded by
// cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.Host = strings.TrimRight(cfg.Host, "/")
	return &Client{cfg: cfg, http: httpClient}
}

// Categories returns the live categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var raw []rawCategory
	if err := c.get(ctx, "get_live_categories", &raw); err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(raw))
	for _, r := range raw {
		out = append(out, Category{ID: idString(r.CategoryID), Name: r.CategoryName})
	}
	return out, nil
}

// Streams returns the live streams. Streams without a stream_url get the
// conventional /live/<user>/<pass>/<id>.ts address.
func (c *Client) Streams(ctx context.Context) ([]Stream, error) {
	var raw []rawStream
	if err := c.get(ctx, "get_live_streams", &raw); err != nil {
		return nil, err
	}
	out := make([]Stream, 0, len(raw))
	for _, r := range raw {
		s := Stream{
			ID:         idString(r.StreamID),
			Name:       strings.TrimSpace(r.Name),
			CategoryID: idString(r.CategoryID),
			URL:        strings.TrimSpace(r.StreamURL),
		}
		if s.URL == "" && s.ID != "" {
			s.URL = c.StreamURL(s.ID)
		}
		out = append(out, s)
	}
	return out, nil
}

// StreamURL builds the live URL for a stream id.
func (c *Client) StreamURL(id string) string {
	return fmt.Sprintf("%s/live/%s/%s/%s.ts",
		c.cfg.Host, url.PathEscape(c.cfg.Username), url.PathEscape(c.cfg.Password), id)
}

func (c *Client) get(ctx context.Context, action string, dst any) error {
	q := url.Values{}
	q.Set("username", c.cfg.Username)
	q.Set("password", c.cfg.Password)
	q.Set("action", action)
	endpoint := c.cfg.Host + "/player_api.php?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", action, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, redactErr(err, c.cfg.Password))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: HTTP %d", action, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode: %w", action, err)
	}
	return nil
}

// idString renders ids that panels send either as numbers or strings.
func idString(v any) string {
	return strings.TrimSpace(utils.ToString(v))
}

func redactErr(err error, secret string) error {
	if secret == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), url.QueryEscape(secret), "***"))
}
