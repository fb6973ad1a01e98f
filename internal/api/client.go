// Package api is a typed client for the TrendStream REST backend.
// Every logical operation maps to exactly one HTTP request; non-2xx
// responses are normalized into *Error values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/MelonSeo/trendstream-tui/pkg/models"
)

const (
	DefaultPage = 0
	DefaultSize = 10

	msgUnknownError  = "Unknown error"
	msgRequestFailed = "API request failed"
)

// Error is the normalized failure for any API operation. Message is
// the server-provided message when one could be decoded, otherwise a
// documented fallback. 4xx and 5xx are deliberately not distinguished.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient validates baseURL and returns a client. The base URL must
// be an absolute http(s) URL; a missing or malformed value is a
// startup error, never a malformed first request.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("API base URL %q is not an absolute http(s) URL", baseURL)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return nil, fmt.Errorf("sending request: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")
	return resp, nil
}

// decodeError extracts the optional {"message": ...} body of a failed
// response, falling back to "Unknown error".
func decodeError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode, Message: msgUnknownError}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}

// getJSON issues a GET and decodes a 2xx JSON body into T.
func getJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, &Error{StatusCode: resp.StatusCode, Message: msgRequestFailed}
	}
	return out, nil
}

func pageQuery(page, size int) url.Values {
	if page < 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

// News returns the latest news page.
func (c *Client) News(ctx context.Context, page, size int) (models.Page[models.NewsItem], error) {
	return getJSON[models.Page[models.NewsItem]](ctx, c, "/api/news?"+pageQuery(page, size).Encode())
}

// NewsByID fetches a single news item.
func (c *Client) NewsByID(ctx context.Context, id int64) (models.NewsItem, error) {
	return getJSON[models.NewsItem](ctx, c, "/api/news/"+strconv.FormatInt(id, 10))
}

// SearchNews searches by keyword. The keyword must be non-empty;
// controllers gate blank input before reaching the client.
func (c *Client) SearchNews(ctx context.Context, keyword string, page, size int) (models.Page[models.NewsItem], error) {
	if keyword == "" {
		return models.Page[models.NewsItem]{}, fmt.Errorf("search keyword must not be empty")
	}
	q := pageQuery(page, size)
	q.Set("keyword", keyword)
	return getJSON[models.Page[models.NewsItem]](ctx, c, "/api/news/search?"+q.Encode())
}

// PopularNews returns news ranked by importance score.
func (c *Client) PopularNews(ctx context.Context, page, size int) (models.Page[models.NewsItem], error) {
	return getJSON[models.Page[models.NewsItem]](ctx, c, "/api/news/popular?"+pageQuery(page, size).Encode())
}

func (c *Client) namedNewsPage(ctx context.Context, path, kind, name string, page, size int) (models.Page[models.NewsItem], error) {
	if name == "" {
		return models.Page[models.NewsItem]{}, fmt.Errorf("%s must not be empty", kind)
	}
	q := pageQuery(page, size)
	q.Set("name", name)
	return getJSON[models.Page[models.NewsItem]](ctx, c, path+"?"+q.Encode())
}

func (c *Client) NewsByCategory(ctx context.Context, category string, page, size int) (models.Page[models.NewsItem], error) {
	return c.namedNewsPage(ctx, "/api/news/category", "category", category, page, size)
}

func (c *Client) NewsBySource(ctx context.Context, source string, page, size int) (models.Page[models.NewsItem], error) {
	return c.namedNewsPage(ctx, "/api/news/source", "source", source, page, size)
}

func (c *Client) NewsByTag(ctx context.Context, tag string, page, size int) (models.Page[models.NewsItem], error) {
	return c.namedNewsPage(ctx, "/api/news/tag", "tag", tag, page, size)
}

// Categories lists the known news categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	return getJSON[[]string](ctx, c, "/api/news/categories")
}

// Sources lists the known news sources.
func (c *Client) Sources(ctx context.Context) ([]string, error) {
	return getJSON[[]string](ctx, c, "/api/news/sources")
}

// Trends returns trend rankings for a period (24h, 7d or 30d).
// Ordering is server-determined; callers must not rely on it.
func (c *Client) Trends(ctx context.Context, period string, limit int) ([]models.TrendEntry, error) {
	if period == "" {
		period = "24h"
	}
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{}
	q.Set("period", period)
	q.Set("limit", strconv.Itoa(limit))
	return getJSON[[]models.TrendEntry](ctx, c, "/api/trends?"+q.Encode())
}

func (c *Client) StatsDashboard(ctx context.Context) (models.Dashboard, error) {
	return getJSON[models.Dashboard](ctx, c, "/api/stats/dashboard")
}

func (c *Client) SourceStats(ctx context.Context, days int) ([]models.SourceStat, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))
	return getJSON[[]models.SourceStat](ctx, c, "/api/stats/sources?"+q.Encode())
}

// HourlyStats returns per-hour counts. An empty date means "today"
// server-side; the date filter is omitted entirely in that case.
func (c *Client) HourlyStats(ctx context.Context, date string) ([]models.HourlyStat, error) {
	path := "/api/stats/hourly"
	if date != "" {
		q := url.Values{}
		q.Set("date", date)
		path += "?" + q.Encode()
	}
	return getJSON[[]models.HourlyStat](ctx, c, path)
}

func (c *Client) DailyStats(ctx context.Context, days int) ([]models.DailyStat, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))
	return getJSON[[]models.DailyStat](ctx, c, "/api/stats/daily?"+q.Encode())
}

// Subscribe creates a keyword subscription. The keyword is trimmed
// and lower-cased before submission.
func (c *Client) Subscribe(ctx context.Context, req models.SubscriptionRequest) error {
	req.Keyword = strings.ToLower(strings.TrimSpace(req.Keyword))
	if req.Keyword == "" {
		return fmt.Errorf("subscription keyword must not be empty")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshaling subscription request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/subscriptions", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		if apiErr.Message == msgUnknownError {
			apiErr.Message = "Subscribe failed"
		}
		return apiErr
	}
	return nil
}

// Unsubscribe removes a keyword subscription. Unlike the other
// operations it does not decode a server message on failure; the
// backend contract only guarantees a status code here.
func (c *Client) Unsubscribe(ctx context.Context, email, keyword string) error {
	q := url.Values{}
	q.Set("email", email)
	q.Set("keyword", keyword)

	resp, err := c.do(ctx, http.MethodDelete, "/api/subscriptions?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Message: "Unsubscribe failed"}
	}
	return nil
}

func (c *Client) UserSubscriptions(ctx context.Context, email string) (models.UserSubscriptions, error) {
	if email == "" {
		return models.UserSubscriptions{}, fmt.Errorf("email must not be empty")
	}
	q := url.Values{}
	q.Set("email", email)
	return getJSON[models.UserSubscriptions](ctx, c, "/api/subscriptions?"+q.Encode())
}

// ActiveKeywords lists keywords that currently have subscribers.
func (c *Client) ActiveKeywords(ctx context.Context) ([]string, error) {
	return getJSON[[]string](ctx, c, "/api/subscriptions/keywords")
}
