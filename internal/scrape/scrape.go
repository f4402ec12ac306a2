package scrape

import (
	"bytes"
	"context"
	"io"
	"net/http"
	neturl "net/url"
	"regexp"
	"strings"
	"time"

	trafilatura "github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// MaxContentRunes bounds how much article text is handed to the summarizer.
const MaxContentRunes = 4000

const userAgent = "Mozilla/5.0 (compatible; SpeedRead/2.0)"

// Scraper fetches story pages and extracts their main article text.
type Scraper struct {
	client *http.Client
	logger *zap.SugaredLogger
}

// New constructs a scraper whose HTTP calls are bounded by timeout.
func New(timeout time.Duration, logger *zap.SugaredLogger) *Scraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// ArticleText fetches url and extracts the main article body. It returns ""
// when the page cannot be fetched or no usable text is found; callers fall
// back to the feed-provided snippet.
func (s *Scraper) ArticleText(ctx context.Context, url string) string {
	if strings.TrimSpace(url) == "" {
		return ""
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := s.client.Do(req)
	if err != nil || resp == nil || resp.Body == nil {
		s.logger.Debugw("article fetch failed", "url", url, "err", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Debugw("article fetch bad status", "url", url, "status", resp.StatusCode)
		return ""
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil || len(bodyBytes) == 0 {
		return ""
	}
	res, err := trafilatura.Extract(bytes.NewReader(bodyBytes), trafilatura.Options{
		OriginalURL: func() *neturl.URL { u, _ := neturl.Parse(url); return u }(),
		// Ignore very short outputs which are likely boilerplate.
		EnableFallback: true,
		Focus:          trafilatura.Balanced,
	})
	if err == nil && res != nil {
		if txt := strings.TrimSpace(res.ContentText); len(txt) > 100 {
			return Clamp(txt, MaxContentRunes)
		}
	}
	return ""
}

// Clamp truncates s to at most n runes.
func Clamp(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FallbackText converts a small HTML fragment into plain text by walking the
// node tree and concatenating text nodes with minimal whitespace
// normalization.
func FallbackText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	n, err := html.Parse(strings.NewReader(s))
	if err != nil || n == nil {
		// If parsing fails, fall back to a naive strip of angle-bracket tags.
		out := regexp.MustCompile(`<[^>]+>`).ReplaceAllString(s, " ")
		return strings.Join(strings.Fields(out), " ")
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				if b.Len() > 0 {
					b.WriteString(" ")
				}
				b.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
