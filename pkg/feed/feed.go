// Package feed fetches and parses RSS and Atom feeds into plain-text items.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ErrMalformedFeed means the payload is neither a recognizable RSS nor
// Atom document. Broken individual entries do not trigger it.
var ErrMalformedFeed = errors.New("unrecognized feed format")

// FetchError reports a network or HTTP failure reaching a feed source.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Item is one entry parsed out of a feed payload. PublishedAt is nil when
// the feed carries no usable timestamp.
type Item struct {
	Title       string
	Link        string
	Description string
	PublishedAt *time.Time
}

type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch performs one GET against the feed URL and returns the raw body.
// Redirects are followed by the underlying client.
func (c *Client) Fetch(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", &FetchError{URL: feedURL, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; InterviewGuide/1.0)")
	req.Header.Set("Accept", "application/atom+xml, application/rss+xml, application/xml, text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &FetchError{URL: feedURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: feedURL, Err: err}
	}

	return string(body), nil
}

// Parse extracts items from a raw RSS or Atom payload. Entries without a
// link are skipped; only an undetectable outer format is an error. For
// Atom entries the body comes from content, for RSS from description, and
// published falls back to updated. All text fields are cleaned to plain
// text.
func Parse(raw string) ([]Item, error) {
	parsed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		link := strings.TrimSpace(entry.Link)
		if link == "" && strings.HasPrefix(entry.GUID, "http") {
			link = entry.GUID
		}
		if link == "" {
			continue
		}

		body := entry.Content
		if body == "" {
			body = entry.Description
		}

		published := entry.PublishedParsed
		if published == nil {
			published = entry.UpdatedParsed
		}

		items = append(items, Item{
			Title:       CleanText(entry.Title),
			Link:        link,
			Description: CleanText(body),
			PublishedAt: published,
		})
	}

	return items, nil
}
