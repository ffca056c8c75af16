package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	v1 "github.com/vmunix/streamiz/internal/api/v1"
	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/hydrate"
	"github.com/vmunix/streamiz/internal/tmdb"
)

// Client wraps HTTP calls to the streamiz server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string

	body []byte
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// NewClient creates a new streamiz API client.
func NewClient(serverURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) do(method, path string, body io.Reader, result any) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if w, ok := result.(io.Writer); ok {
		_, err := io.Copy(w, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data)), body: data}
	var body v1.ErrorResponse
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Error
	}
	return apiErr
}

func (c *Client) get(path string, result any) error {
	return c.do(http.MethodGet, path, nil, result)
}

func (c *Client) put(path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return c.do(http.MethodPut, path, bytes.NewReader(data), result)
}

// Status returns the store status.
func (c *Client) Status() (*catalog.Status, error) {
	var st catalog.Status
	if err := c.get("/api/v1/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Sync asks the server to re-fetch the remote store.
func (c *Client) Sync() (*catalog.Status, error) {
	var st catalog.Status
	if err := c.do(http.MethodPost, "/api/v1/sync", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) ListMovies() (*v1.ListMoviesResponse, error) {
	var resp v1.ListMoviesResponse
	if err := c.get("/api/v1/movies", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetMovie(id string) (*catalog.Movie, error) {
	var m catalog.Movie
	if err := c.get("/api/v1/movies/"+url.PathEscape(id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) PutMovie(m catalog.Movie) (*catalog.Movie, error) {
	var saved catalog.Movie
	if err := c.put("/api/v1/movies/"+url.PathEscape(m.ID()), m, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) DeleteMovie(id string) error {
	return c.do(http.MethodDelete, "/api/v1/movies/"+url.PathEscape(id), nil, nil)
}

func (c *Client) MovieSources(id string) (*v1.SourcesResponse, error) {
	var resp v1.SourcesResponse
	if err := c.get("/api/v1/movies/"+url.PathEscape(id)+"/sources", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListShows() (*v1.ListShowsResponse, error) {
	var resp v1.ListShowsResponse
	if err := c.get("/api/v1/shows", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetShow(id string) (*catalog.Show, error) {
	var s catalog.Show
	if err := c.get("/api/v1/shows/"+url.PathEscape(id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) PutShow(s catalog.Show) (*catalog.Show, error) {
	var saved catalog.Show
	if err := c.put("/api/v1/shows/"+url.PathEscape(s.ID()), s, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) DeleteShow(id string) error {
	return c.do(http.MethodDelete, "/api/v1/shows/"+url.PathEscape(id), nil, nil)
}

func (c *Client) EpisodeSources(id string, season, episode int) (*v1.SourcesResponse, error) {
	var resp v1.SourcesResponse
	path := fmt.Sprintf("/api/v1/shows/%s/seasons/%d/episodes/%d/sources", url.PathEscape(id), season, episode)
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Import uploads an import document. The report is returned even when the
// import stopped early.
func (c *Client) Import(doc io.Reader) (*v1.ImportResponse, error) {
	var resp v1.ImportResponse
	err := c.do(http.MethodPost, "/api/v1/import", doc, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		// The error body carries the partial report.
		_ = json.Unmarshal(apiErr.body, &resp)
	}
	return &resp, err
}

// Export streams the export document to w.
func (c *Client) Export(w io.Writer) error {
	return c.get("/api/v1/export", w)
}

func (c *Client) Browse(kind catalog.Kind) (*hydrate.Page, error) {
	var p hydrate.Page
	if err := c.get("/api/v1/browse/"+string(kind), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) BrowseGenre(kind catalog.Kind, genreID int) (*hydrate.Page, error) {
	var p hydrate.Page
	if err := c.get("/api/v1/browse/"+string(kind)+"/genres/"+strconv.Itoa(genreID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Search(kind catalog.Kind, query string, page int) (*tmdb.Page, error) {
	q := url.Values{"q": {query}, "page": {strconv.Itoa(page)}}
	var p tmdb.Page
	if err := c.get("/api/v1/search/"+string(kind)+"?"+q.Encode(), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Resolve(kind catalog.Kind, query string) (*hydrate.Match, error) {
	q := url.Values{"q": {query}}
	var m hydrate.Match
	if err := c.get("/api/v1/resolve/"+string(kind)+"?"+q.Encode(), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) Details(kind catalog.Kind, id string) (*tmdb.Details, error) {
	var d tmdb.Details
	if err := c.get("/api/v1/details/"+string(kind)+"/"+url.PathEscape(id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) Genres(kind catalog.Kind) ([]tmdb.Genre, error) {
	var resp struct {
		Genres []tmdb.Genre `json:"genres"`
	}
	if err := c.get("/api/v1/genres/"+string(kind), &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

func (c *Client) Season(showID string, number int) (*tmdb.Season, error) {
	var s tmdb.Season
	if err := c.get(fmt.Sprintf("/api/v1/details/tv/%s/seasons/%d", url.PathEscape(showID), number), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Events(since time.Time, limit int) (*v1.ListEventsResponse, error) {
	q := url.Values{}
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	} else if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp v1.ListEventsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History returns the audit entries for one title. kind is "movies" or "shows".
func (c *Client) History(kind, id string) (*v1.ListEventsResponse, error) {
	var resp v1.ListEventsResponse
	if err := c.get("/api/v1/"+kind+"/"+url.PathEscape(id)+"/history", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
