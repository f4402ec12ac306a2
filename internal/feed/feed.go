package feed

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"speedread/internal/scrape"
)

// Story is one feed item, immutable once fetched. ID is the feed GUID,
// falling back to the item link.
type Story struct {
	ID          string
	Title       string
	Link        string
	Snippet     string
	PublishedAt time.Time
}

// FetchError reports a feed that could not be retrieved or parsed. It is
// fatal for the run.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch feed %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves RSS/Atom feeds and flattens them into Story records.
type Fetcher struct {
	parser *gofeed.Parser
	logger *zap.SugaredLogger
}

// NewFetcher constructs a fetcher whose HTTP calls are bounded by timeout.
func NewFetcher(timeout time.Duration, logger *zap.SugaredLogger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	p.UserAgent = "Mozilla/5.0 (compatible; SpeedRead/2.0)"
	return &Fetcher{parser: p, logger: logger}
}

// Fetch retrieves every configured feed URL and returns the well-formed
// items, most recent first, deduplicated by link within the batch. Any feed
// that fails to fetch or parse aborts the run with a FetchError.
func (f *Fetcher) Fetch(ctx context.Context, urls []string) ([]Story, error) {
	var stories []Story
	seenLinks := make(map[string]struct{})
	for _, raw := range urls {
		feedURL := strings.TrimSpace(raw)
		if feedURL == "" {
			continue
		}
		parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			return nil, &FetchError{URL: feedURL, Err: err}
		}
		kept := 0
		for _, it := range parsed.Items {
			st, ok := storyFromItem(it)
			if !ok {
				continue
			}
			if _, dup := seenLinks[st.Link]; dup {
				continue
			}
			seenLinks[st.Link] = struct{}{}
			stories = append(stories, st)
			kept++
		}
		f.logger.Infow("feed parsed", "url", feedURL, "items", len(parsed.Items), "kept", kept)
	}
	// Stable sort keeps feed order for items with equal timestamps.
	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].PublishedAt.After(stories[j].PublishedAt)
	})
	return stories, nil
}

// storyFromItem maps a feed entry to a Story, rejecting malformed items
// (missing title or link).
func storyFromItem(it *gofeed.Item) (Story, bool) {
	if it == nil {
		return Story{}, false
	}
	title := strings.TrimSpace(it.Title)
	link := strings.TrimSpace(it.Link)
	if title == "" || link == "" {
		return Story{}, false
	}
	id := strings.TrimSpace(it.GUID)
	if id == "" {
		id = link
	}
	published := time.Time{}
	if it.PublishedParsed != nil {
		published = it.PublishedParsed.UTC()
	} else if it.UpdatedParsed != nil {
		published = it.UpdatedParsed.UTC()
	}
	snippet := firstNonEmpty(it.Description, it.Content)
	return Story{
		ID:          id,
		Title:       title,
		Link:        link,
		Snippet:     scrape.FallbackText(snippet),
		PublishedAt: published,
	}, true
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
