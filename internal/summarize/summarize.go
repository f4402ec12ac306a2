package summarize

import (
	"context"
	"fmt"

	"speedread/internal/feed"
)

// Summary is the fixed 3-bullet shape produced for every story: concrete
// facts, local impact, and a story-specific intrigue hook.
type Summary struct {
	StoryID      string
	WhatHappened string
	WhyItMatters string
	IntrigueHook string
	HookType     string
}

// Summarizer is the capability interface over the external AI service, so it
// can be swapped out in tests without touching pipeline logic. content is the
// scraped article text or, when extraction failed, the feed snippet.
type Summarizer interface {
	Summarize(ctx context.Context, story feed.Story, content string) (Summary, error)
}

// ContractError reports AI output that does not satisfy the 3-bullet
// contract. The offending story is skipped; the run continues.
type ContractError struct {
	StoryID string
	Reason  string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("summary contract violated for %s: %s", e.StoryID, e.Reason)
}
