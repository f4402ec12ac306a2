package render

import (
	"bytes"
	"html/template"
	"time"
	_ "time/tzdata"

	"speedread/internal/feed"
	"speedread/internal/summarize"
)

// Item pairs a story with its summary for rendering.
type Item struct {
	Story   feed.Story
	Summary summarize.Summary
}

// TimestampFormat is the human-readable Eastern-time generation stamp.
const TimestampFormat = "Monday, January 2, 2006 at 3:04 PM"

var eastern = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// EasternStamp formats t as the page's generation timestamp.
func EasternStamp(t time.Time) string {
	return t.In(eastern).Format(TimestampFormat) + " ET"
}

type pageData struct {
	Items       []Item
	GeneratedAt string
	Count       int
}

// Page renders the complete static document for the given story/summary
// pairs. Output is deterministic for identical inputs and timestamp.
func Page(items []Item, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, pageData{
		Items:       items,
		GeneratedAt: EasternStamp(generatedAt),
		Count:       len(items),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Speed Read</title>
<style>
  :root { --ink: #1a1a2e; --paper: #f7f5f0; --accent: #b3342c; --muted: #6b6b7b; }
  * { box-sizing: border-box; }
  body { margin: 0; font-family: Georgia, 'Times New Roman', serif; background: var(--paper); color: var(--ink); }
  header { border-bottom: 3px solid var(--accent); padding: 28px 20px 18px; text-align: center; }
  header h1 { margin: 0; font-size: 2rem; letter-spacing: 0.02em; }
  header p.stamp { margin: 8px 0 0; color: var(--muted); font-size: 0.9rem; font-style: italic; }
  main { max-width: 720px; margin: 0 auto; padding: 24px 20px 60px; }
  article.story { background: #fff; border: 1px solid #e3e0d8; border-radius: 6px; padding: 20px 24px; margin-bottom: 20px; }
  article.story h2 { margin: 0 0 4px; font-size: 1.2rem; line-height: 1.35; }
  article.story h2 a { color: var(--ink); text-decoration: none; }
  article.story h2 a:hover { color: var(--accent); }
  .badge { display: inline-block; font-family: Helvetica, Arial, sans-serif; font-size: 0.68rem; font-weight: 700; letter-spacing: 0.08em; color: #fff; background: var(--accent); border-radius: 3px; padding: 2px 8px; margin-bottom: 8px; }
  ul.bullets { margin: 12px 0 0; padding-left: 20px; }
  ul.bullets li { margin-bottom: 8px; line-height: 1.5; }
  ul.bullets li.hook { color: var(--accent); }
  p.empty { text-align: center; color: var(--muted); font-style: italic; padding: 40px 0; }
  footer { text-align: center; color: var(--muted); font-size: 0.8rem; padding: 0 20px 40px; }
</style>
</head>
<body>
<header>
<h1>Speed Read</h1>
<p class="stamp">Updated {{.GeneratedAt}}</p>
</header>
<main>
{{if .Items}}{{range .Items}}<article class="story">
<span class="badge">{{.Summary.HookType}}</span>
<h2><a href="{{.Story.Link}}">{{.Story.Title}}</a></h2>
<ul class="bullets">
<li>{{.Summary.WhatHappened}}</li>
<li>{{.Summary.WhyItMatters}}</li>
<li class="hook">{{.Summary.IntrigueHook}}</li>
</ul>
</article>
{{end}}{{else}}<p class="empty">No new stories this run. Check back soon.</p>
{{end}}</main>
<footer>{{.Count}} stories &middot; summaries generated automatically</footer>
</body>
</html>
`))
