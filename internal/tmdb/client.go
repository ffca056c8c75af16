package tmdb

import (
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
)

const (
	defaultBaseURL      = "https://api.themoviedb.org"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultCacheTTL     = 24 * time.Hour

	// PlaceholderImage is returned by ImageURL when a title has no artwork.
	PlaceholderImage = "https://via.placeholder.com/500x750?text=No+Image"
)

// ErrNotFound is returned when a title or season doesn't exist in TMDB.
var ErrNotFound = errors.New("not found")

// Client is a TMDB API client.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
	cache        *cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithImageBaseURL sets the image CDN base, without size token.
func WithImageBaseURL(url string) Option {
	return func(c *Client) {
		c.imageBaseURL = strings.TrimRight(url, "/")
	}
}

// WithLanguage requests localized fields, e.g. "en-US".
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = lang
	}
}

// WithCacheTTL sets the cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: newCache(defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Details fetches a title with credits, videos and similar titles appended.
func (c *Client) Details(ctx context.Context, mt MediaType, id string) (*Details, error) {
	if d, ok := c.cache.details(mt, id); ok {
		return d, nil
	}

	q := url.Values{}
	q.Set("append_to_response", "credits,videos,similar")
	body, err := c.get(ctx, "/3/"+string(mt)+"/"+url.PathEscape(id), q)
	if err != nil {
		return nil, err
	}

	var d Details
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	d.Raw = body

	c.cache.setDetails(mt, id, &d)
	return &d, nil
}

// Search runs a title query. page starts at 1.
func (c *Client) Search(ctx context.Context, mt MediaType, query string, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	body, err := c.get(ctx, "/3/search/"+string(mt), q)
	if err != nil {
		return nil, err
	}

	var p Page
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &p, nil
}

// Season fetches one season of a show.
func (c *Client) Season(ctx context.Context, showID string, number int) (*Season, error) {
	body, err := c.get(ctx, "/3/tv/"+url.PathEscape(showID)+"/season/"+strconv.Itoa(number), nil)
	if err != nil {
		return nil, err
	}

	var s Season
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Genres lists the genres of a media type.
func (c *Client) Genres(ctx context.Context, mt MediaType) ([]Genre, error) {
	if g, ok := c.cache.genres(mt); ok {
		return g, nil
	}

	body, err := c.get(ctx, "/3/genre/"+string(mt)+"/list", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Genres []Genre `json:"genres"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.cache.setGenres(mt, resp.Genres)
	return resp.Genres, nil
}

// ImageURL joins an image path with the CDN base and a size token such as
// "w500". A missing path yields PlaceholderImage.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return PlaceholderImage
	}
	if size == "" {
		size = "w500"
	}
	return c.imageBaseURL + "/" + size + path
}

// BackdropURL is like ImageURL but returns "" for a missing path.
func (c *Client) BackdropURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return c.imageBaseURL + "/" + size + path
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)
	if c.language != "" {
		q.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			StatusMessage string `json:"status_message"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.StatusMessage != "" {
			return nil, fmt.Errorf("TMDB API error: %s: %s", resp.Status, apiErr.StatusMessage)
		}
		return nil, fmt.Errorf("TMDB API error: %s", resp.Status)
	}
	return body, nil
}
