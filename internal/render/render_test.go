package render

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"

	"speedread/internal/feed"
	"speedread/internal/summarize"
)

func testItems() []Item {
	return []Item{
		{
			Story: feed.Story{
				ID:          "s1",
				Title:       "City council approves new bike lanes",
				Link:        "https://example.com/1",
				PublishedAt: time.Date(2025, 8, 25, 9, 0, 0, 0, time.UTC),
			},
			Summary: summarize.Summary{
				StoryID:      "s1",
				WhatHappened: "The council voted 7-2 on Tuesday.",
				WhyItMatters: "Riders get a protected route.",
				IntrigueHook: "Two councilors reversed their bike lane votes.",
				HookType:     summarize.HookPolitics,
			},
		},
		{
			Story: feed.Story{
				ID:          "s2",
				Title:       "Storm closes harbor ferries",
				Link:        "https://example.com/2",
				PublishedAt: time.Date(2025, 8, 25, 8, 0, 0, 0, time.UTC),
			},
			Summary: summarize.Summary{
				StoryID:      "s2",
				WhatHappened: "Ferries suspended through Thursday.",
				WhyItMatters: "Commuters need the Blue Line instead.",
				IntrigueHook: "The ferry operator's storm contract expires this harbor season.",
				HookType:     summarize.HookWeather,
			},
		},
	}
}

func TestPageDeterministic(t *testing.T) {
	ts := time.Date(2026, 8, 24, 18, 30, 0, 0, time.UTC)
	a, err := Page(testItems(), ts)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	b, err := Page(testItems(), ts)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("identical inputs produced different documents")
	}
}

func TestPageStructure(t *testing.T) {
	ts := time.Date(2026, 8, 24, 18, 30, 0, 0, time.UTC)
	out, err := Page(testItems(), ts)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	doc := string(out)

	if got := strings.Count(doc, `<article class="story">`); got != 2 {
		t.Errorf("expected 2 story blocks, got %d", got)
	}
	// Order must match the input slice, not anything else.
	first := strings.Index(doc, "City council approves new bike lanes")
	second := strings.Index(doc, "Storm closes harbor ferries")
	if first < 0 || second < 0 || first > second {
		t.Errorf("stories out of order: first=%d second=%d", first, second)
	}
	for _, bullet := range []string{
		"The council voted 7-2 on Tuesday.",
		"Riders get a protected route.",
		"Two councilors reversed their bike lane votes.",
	} {
		if !strings.Contains(doc, bullet) {
			t.Errorf("page missing bullet %q", bullet)
		}
	}
	if !strings.Contains(doc, "POLITICS") {
		t.Error("page missing hook type badge")
	}
}

func TestPageEasternTimestamp(t *testing.T) {
	// 18:30 UTC on an August day is 2:30 PM EDT.
	ts := time.Date(2026, 8, 24, 18, 30, 0, 0, time.UTC)
	out, err := Page(testItems(), ts)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !strings.Contains(string(out), "2:30 PM ET") {
		t.Errorf("expected Eastern timestamp in page: %s", easternLine(string(out)))
	}
	re := regexp.MustCompile(`\d{1,2}:\d{2} (AM|PM) ET`)
	if !re.MatchString(string(out)) {
		t.Error("timestamp does not match Eastern-time format")
	}
}

func easternLine(doc string) string {
	for _, line := range strings.Split(doc, "\n") {
		if strings.Contains(line, "Updated") {
			return line
		}
	}
	return ""
}

func TestPageEmpty(t *testing.T) {
	out, err := Page(nil, time.Date(2026, 8, 24, 18, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	doc := string(out)
	if strings.Contains(doc, `<article class="story">`) {
		t.Error("empty run should render no story blocks")
	}
	if !strings.Contains(doc, "No new stories") {
		t.Error("empty page missing placeholder text")
	}
}

func TestDataArtifact(t *testing.T) {
	ts := time.Date(2026, 8, 24, 18, 30, 0, 0, time.UTC)
	out, err := Data(testItems(), ts)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	var doc struct {
		LastUpdated string `json:"lastUpdated"`
		Articles    []struct {
			Title   string   `json:"title"`
			Summary []string `json:"summary"`
		} `json:"articles"`
		Stats struct {
			TotalArticles int `json:"totalArticles"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("data artifact is not valid JSON: %v", err)
	}
	if doc.Stats.TotalArticles != 2 || len(doc.Articles) != 2 {
		t.Errorf("expected 2 articles, got stats=%d len=%d", doc.Stats.TotalArticles, len(doc.Articles))
	}
	if len(doc.Articles[0].Summary) != 3 {
		t.Errorf("expected 3 summary bullets, got %d", len(doc.Articles[0].Summary))
	}
	if doc.LastUpdated != "2026-08-24T18:30:00Z" {
		t.Errorf("unexpected lastUpdated: %s", doc.LastUpdated)
	}

	again, err := Data(testItems(), ts)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if !bytes.Equal(out, again) {
		t.Error("data artifact is not deterministic")
	}
}
