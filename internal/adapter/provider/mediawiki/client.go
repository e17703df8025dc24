// Package mediawiki is a read-only client for the MediaWiki action API used by
// the AD&D 2e wiki: page parse (wikitext and rendered HTML), full-text search
// and category listing.
package mediawiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/grimoire-backend/internal/config"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// maxBody bounds one API response.
const maxBody = 16 << 20

// StatusError is returned for a non-2xx API response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mediawiki: %s: unexpected status %d", e.URL, e.Code)
}

// APIError is an error object returned inside a 2xx API response.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki: api error %s: %s", e.Code, e.Info)
}

// Unwrap maps missing pages to domain.ErrNotFound.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "missingtitle", "invalidtitle", "nosuchpageid":
		return domain.ErrNotFound
	}
	return nil
}

// Cache stores raw responses keyed by request URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Client fetches pages from a MediaWiki instance.
type Client struct {
	baseURL    string
	apiURL     string
	userAgent  string
	httpClient *http.Client
	cache      Cache
	log        *slog.Logger
}

// NewClient creates a Client from the wiki configuration. cache may be nil.
func NewClient(cfg config.WikiConfig, cache Cache, logger *slog.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		baseURL:    base,
		apiURL:     base + cfg.APIPath,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
		log:        logger.With("adapter", "mediawiki"),
	}
}

// PageURL returns the human-facing URL of a page, used as record provenance.
func (c *Client) PageURL(title string) string {
	return c.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// FetchWikitext fetches the source wikitext of a page.
func (c *Client) FetchWikitext(ctx context.Context, title string) (domain.WikiPage, error) {
	return c.parse(ctx, title, "wikitext")
}

// FetchHTML fetches the rendered HTML of a page.
func (c *Client) FetchHTML(ctx context.Context, title string) (domain.WikiPage, error) {
	return c.parse(ctx, title, "text")
}

// FetchPage fetches both wikitext and rendered HTML in one request.
func (c *Client) FetchPage(ctx context.Context, title string) (domain.WikiPage, error) {
	return c.parse(ctx, title, "wikitext|text")
}

// FetchPages fetches the wikitext of several pages with at most limit
// requests in flight. Pages are returned in input order; the first error
// cancels the remaining fetches.
func (c *Client) FetchPages(ctx context.Context, titles []string, limit int) ([]domain.WikiPage, error) {
	pages := make([]domain.WikiPage, len(titles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, title := range titles {
		g.Go(func() error {
			page, err := c.FetchWikitext(gctx, title)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// Search returns up to limit page titles matching query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(limit)},
	}

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp.Query == nil {
		return nil, nil
	}
	return titles(resp.Query.Search), nil
}

// CategoryMembers returns up to limit page titles in a category. The
// "Category:" prefix is added when missing.
func (c *Client) CategoryMembers(ctx context.Context, category string, limit int) ([]string, error) {
	if !strings.HasPrefix(category, "Category:") {
		category = "Category:" + category
	}
	params := url.Values{
		"action":  {"query"},
		"list":    {"categorymembers"},
		"cmtitle": {category},
		"cmlimit": {strconv.Itoa(limit)},
		"cmtype":  {"page"},
	}

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp.Query == nil {
		return nil, nil
	}
	return titles(resp.Query.CategoryMembers), nil
}

func (c *Client) parse(ctx context.Context, title, prop string) (domain.WikiPage, error) {
	params := url.Values{
		"action":    {"parse"},
		"page":      {title},
		"prop":      {prop},
		"redirects": {"1"},
	}

	resp, err := c.get(ctx, params)
	if IsStatus(err, http.StatusNotFound) {
		// Some wikis answer a deleted page with a bare 404 instead of an API error.
		return domain.WikiPage{}, fmt.Errorf("fetch %q: %w: %w", title, domain.ErrNotFound, err)
	}
	if err != nil {
		return domain.WikiPage{}, fmt.Errorf("fetch %q: %w", title, err)
	}
	if resp.Parse == nil {
		return domain.WikiPage{}, fmt.Errorf("fetch %q: %w", title, domain.ErrNotFound)
	}

	resolved := resp.Parse.Title
	if resolved == "" {
		resolved = title
	}

	c.log.DebugContext(ctx, "mediawiki page",
		slog.String("title", resolved),
		slog.Int("wikitext_bytes", len(resp.Parse.Wikitext)),
		slog.Int("html_bytes", len(resp.Parse.Text)),
	)

	return domain.WikiPage{
		Title:    resolved,
		URL:      c.PageURL(resolved),
		Wikitext: resp.Parse.Wikitext,
		HTML:     resp.Parse.Text,
	}, nil
}

// get performs one API request. Successful bodies are cached; cache failures
// are logged and otherwise ignored.
func (c *Client) get(ctx context.Context, params url.Values) (*apiResponse, error) {
	params.Set("format", "json")
	params.Set("formatversion", "2")
	reqURL := c.apiURL + "?" + params.Encode()

	if body, ok := c.cached(ctx, reqURL); ok {
		if resp, err := decode(body); err == nil {
			return resp, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.log.DebugContext(ctx, "mediawiki request", slog.String("action", params.Get("action")), slog.String("url", reqURL))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{URL: reqURL, Code: res.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("mediawiki: read body: %w", err)
	}

	resp, err := decode(body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, reqURL, body); err != nil {
			c.log.WarnContext(ctx, "mediawiki cache set failed", slog.String("error", err.Error()))
		}
	}
	return resp, nil
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.WarnContext(ctx, "mediawiki cache get failed", slog.String("error", err.Error()))
		return nil, false
	}
	return body, ok
}

// decode parses a response body and surfaces an embedded API error.
func decode(body []byte) (*apiResponse, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("mediawiki: decode json: %w", err)
	}
	if resp.Error != nil {
		return nil, &APIError{Code: resp.Error.Code, Info: resp.Error.Info}
	}
	return &resp, nil
}

func titles(items []apiTitle) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.Title != "" {
			out = append(out, it.Title)
		}
	}
	return out
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
