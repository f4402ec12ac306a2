package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"speedread/internal/config"
	"speedread/internal/feed"
	"speedread/internal/publish"
	"speedread/internal/render"
	"speedread/internal/scrape"
	"speedread/internal/store"
	"speedread/internal/summarize"
)

// Stats describes one run. Skipped counts stories dropped by per-story
// summarization failures; the run still publishes (partial success).
type Stats struct {
	Fetched    int
	New        int
	Summarized int
	Skipped    int
}

// Pipeline executes one fetch → select → summarize → render → publish pass.
type Pipeline struct {
	cfg     config.Config
	fetcher *feed.Fetcher
	scraper *scrape.Scraper
	summ    summarize.Summarizer
	pub     *publish.Publisher
	logger  *zap.SugaredLogger

	// pace is the minimum delay a worker waits after actually fetching an
	// article page, to stay polite with the source site.
	pace time.Duration

	// now is overridable in tests for deterministic timestamps.
	now func() time.Time
}

// New wires a pipeline from config. The summarizer is injected so tests can
// stub the AI service.
func New(cfg config.Config, summ summarize.Summarizer, logger *zap.SugaredLogger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Pipeline{
		cfg:     cfg,
		fetcher: feed.NewFetcher(time.Duration(cfg.FeedTimeoutSec)*time.Second, logger),
		scraper: scrape.New(time.Duration(cfg.ScrapeTimeoutSec)*time.Second, logger),
		summ:    summ,
		pub:     publish.New(cfg.OutputDir),
		logger:  logger,
		pace:    time.Second,
		now:     time.Now,
	}
}

// Run executes a single pipeline pass. Feed and publish failures abort the
// run; a summarization failure only skips its story. The seen set is read at
// the start and written after a successful publish.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	st, err := store.Open(p.cfg.DatabasePath)
	if err != nil {
		return stats, err
	}
	defer st.Close()

	stories, err := p.fetcher.Fetch(ctx, p.cfg.Feeds)
	if err != nil {
		return stats, err
	}
	stats.Fetched = len(stories)

	seen, err := st.SeenIDs(ctx)
	if err != nil {
		return stats, err
	}
	selected := SelectNew(stories, seen, p.cfg.MaxStories)
	stats.New = len(selected)
	p.logger.Infow("stories selected", "fetched", stats.Fetched, "new", stats.New, "cap", p.cfg.MaxStories)

	// Fan out summarization with bounded concurrency. Results are collected
	// by index so the page keeps the selector's order, not completion order.
	results := make([]*summarize.Summary, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, story := range selected {
		g.Go(func() error {
			content := p.scraper.ArticleText(gctx, story.Link)
			fetched := content != ""
			if !fetched {
				content = scrape.Clamp(story.Snippet, scrape.MaxContentRunes)
			}
			sum, err := p.summ.Summarize(gctx, story, content)
			if err != nil {
				p.logger.Warnw("story skipped", "id", story.ID, "title", story.Title, "err", err)
			} else {
				results[i] = &sum
			}
			// Pace only when we actually hit the source site.
			if fetched {
				select {
				case <-gctx.Done():
				case <-time.After(p.pace):
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	items := make([]render.Item, 0, len(selected))
	for i, story := range selected {
		if results[i] == nil {
			stats.Skipped++
			continue
		}
		items = append(items, render.Item{Story: story, Summary: *results[i]})
	}
	stats.Summarized = len(items)

	generatedAt := p.now()
	page, err := render.Page(items, generatedAt)
	if err != nil {
		return stats, err
	}
	data, err := render.Data(items, generatedAt)
	if err != nil {
		return stats, err
	}
	if err := p.pub.Publish(page, data); err != nil {
		return stats, err
	}

	// Persist state only after the artifacts are durably in place, so a
	// failed publish leaves skipped stories eligible for the next run.
	for _, it := range items {
		if err := st.MarkSeen(ctx, it.Story.ID); err != nil {
			return stats, err
		}
		rec := store.Record{
			StoryID:      it.Story.ID,
			Title:        it.Story.Title,
			Link:         it.Story.Link,
			WhatHappened: it.Summary.WhatHappened,
			WhyItMatters: it.Summary.WhyItMatters,
			IntrigueHook: it.Summary.IntrigueHook,
			HookType:     it.Summary.HookType,
			ProcessedAt:  generatedAt,
		}
		if err := st.AddHistory(ctx, rec); err != nil {
			return stats, err
		}
	}

	p.logger.Infow("run complete",
		"fetched", stats.Fetched, "new", stats.New,
		"summarized", stats.Summarized, "skipped", stats.Skipped)
	return stats, nil
}

// SelectNew returns the first limit stories whose ids are not in seen,
// preserving feed order. Fewer (or zero) new stories is not an error.
func SelectNew(stories []feed.Story, seen map[string]struct{}, limit int) []feed.Story {
	var out []feed.Story
	for _, st := range stories {
		if limit > 0 && len(out) >= limit {
			break
		}
		if _, ok := seen[st.ID]; ok {
			continue
		}
		out = append(out, st)
	}
	return out
}
