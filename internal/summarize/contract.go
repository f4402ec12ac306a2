package summarize

import (
	"strconv"
	"strings"

	"speedread/internal/feed"
)

// genericPhrases is the clickbait blocklist: a bullet that leans on one of
// these templates fails the contract regardless of the rest of its text.
var genericPhrases = []string{
	"you won't believe",
	"you wont believe",
	"the surprising reason",
	"one detail changes everything",
	"will shock you",
	"will amaze you",
	"the truth behind",
	"what happened next",
	"changes everything",
	"story developing",
	"details in full article",
	"full details and context available",
}

// stopwords are title tokens too common to anchor an intrigue hook.
var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "after": {}, "over": {},
	"into": {}, "about": {}, "their": {}, "there": {}, "what": {}, "when": {},
	"where": {}, "will": {}, "have": {}, "been": {}, "says": {}, "boston": {},
	"news": {}, "year": {}, "years": {}, "more": {}, "than": {},
}

// Validate enforces the 3-field contract: every bullet non-empty and free of
// generic phrases, and the intrigue hook anchored to this story by sharing at
// least one distinctive token with its title.
func Validate(story feed.Story, s Summary) error {
	bullets := map[string]string{
		"what_happened":  s.WhatHappened,
		"why_it_matters": s.WhyItMatters,
		"intrigue_hook":  s.IntrigueHook,
	}
	for name, text := range bullets {
		if strings.TrimSpace(text) == "" {
			return &ContractError{StoryID: story.ID, Reason: name + " is empty"}
		}
		lower := strings.ToLower(text)
		for _, phrase := range genericPhrases {
			if strings.Contains(lower, phrase) {
				return &ContractError{StoryID: story.ID, Reason: name + " uses generic phrase " + strconv.Quote(phrase)}
			}
		}
	}
	if !sharesTitleToken(story.Title, s.IntrigueHook) {
		return &ContractError{StoryID: story.ID, Reason: "intrigue_hook does not reference the story"}
	}
	return nil
}

// sharesTitleToken reports whether hook contains at least one distinctive
// token (4+ letters, not a stopword) from title.
func sharesTitleToken(title, hook string) bool {
	hookLower := strings.ToLower(hook)
	for _, tok := range tokens(title) {
		if strings.Contains(hookLower, tok) {
			return true
		}
	}
	return false
}

func tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	var out []string
	for _, f := range fields {
		if len(f) < 4 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		out = append(out, f)
	}
	return out
}
