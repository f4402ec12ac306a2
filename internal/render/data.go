package render

import (
	"encoding/json"
	"time"
)

type dataArticle struct {
	Title    string   `json:"title"`
	Link     string   `json:"link"`
	PubDate  string   `json:"pubDate"`
	Summary  []string `json:"summary"`
	HookType string   `json:"hookType"`
}

type dataStats struct {
	TotalArticles int    `json:"totalArticles"`
	LastRefresh   string `json:"lastRefresh"`
	Version       string `json:"version"`
}

type dataDoc struct {
	LastUpdated string        `json:"lastUpdated"`
	Articles    []dataArticle `json:"articles"`
	Stats       dataStats     `json:"stats"`
}

// Data renders the machine-readable companion artifact to the HTML page.
func Data(items []Item, generatedAt time.Time) ([]byte, error) {
	stamp := generatedAt.UTC().Format(time.RFC3339)
	doc := dataDoc{
		LastUpdated: stamp,
		Articles:    make([]dataArticle, 0, len(items)),
		Stats: dataStats{
			TotalArticles: len(items),
			LastRefresh:   stamp,
			Version:       "2.0",
		},
	}
	for _, it := range items {
		pub := ""
		if !it.Story.PublishedAt.IsZero() {
			pub = it.Story.PublishedAt.UTC().Format(time.RFC3339)
		}
		doc.Articles = append(doc.Articles, dataArticle{
			Title:    it.Story.Title,
			Link:     it.Story.Link,
			PubDate:  pub,
			Summary:  []string{it.Summary.WhatHappened, it.Summary.WhyItMatters, it.Summary.IntrigueHook},
			HookType: it.Summary.HookType,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}
