package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryLimit caps how many summarized stories are retained.
const HistoryLimit = 50

// Record is one summarized story kept in history.
type Record struct {
	StoryID      string
	Title        string
	Link         string
	WhatHappened string
	WhyItMatters string
	IntrigueHook string
	HookType     string
	ProcessedAt  time.Time
}

// Store is the single durable state across runs: the append-only seen-story
// id set plus a bounded summary history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS seen_stories (
            id TEXT PRIMARY KEY,
            first_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS summary_history (
            story_id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            link TEXT NOT NULL,
            what_happened TEXT NOT NULL,
            why_it_matters TEXT NOT NULL,
            intrigue_hook TEXT NOT NULL,
            hook_type TEXT,
            processed_at TIMESTAMP NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_summary_history_processed_at ON summary_history(processed_at)`,
	}
	for _, st := range stmts {
		if _, err := db.Exec(st); err != nil {
			return err
		}
	}
	return nil
}

// SeenIDs returns the full set of story ids processed in prior runs.
func (s *Store) SeenIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM seen_stories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// MarkSeen records story ids as processed. Already-present ids are ignored.
func (s *Store) MarkSeen(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO seen_stories (id) VALUES (?) ON CONFLICT(id) DO NOTHING`, id); err != nil {
			return err
		}
	}
	return nil
}

// AddHistory upserts a summarized story and prunes history to HistoryLimit.
func (s *Store) AddHistory(ctx context.Context, r Record) error {
	if strings.TrimSpace(r.StoryID) == "" {
		return errors.New("missing story id")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO summary_history
        (story_id, title, link, what_happened, why_it_matters, intrigue_hook, hook_type, processed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(story_id) DO UPDATE SET
           title=excluded.title,
           link=excluded.link,
           what_happened=excluded.what_happened,
           why_it_matters=excluded.why_it_matters,
           intrigue_hook=excluded.intrigue_hook,
           hook_type=excluded.hook_type,
           processed_at=excluded.processed_at`,
		r.StoryID, r.Title, r.Link, r.WhatHappened, r.WhyItMatters, r.IntrigueHook,
		nullIfEmpty(r.HookType), r.ProcessedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM summary_history WHERE story_id NOT IN (
        SELECT story_id FROM summary_history ORDER BY processed_at DESC, story_id LIMIT ?)`, HistoryLimit)
	return err
}

// History returns the most recently processed stories, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Record, error) {
	q := `SELECT story_id, title, link, what_happened, why_it_matters, intrigue_hook, hook_type, processed_at
        FROM summary_history ORDER BY processed_at DESC, story_id`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var r Record
		var hook sql.NullString
		var processed string
		if err := rows.Scan(&r.StoryID, &r.Title, &r.Link, &r.WhatHappened, &r.WhyItMatters,
			&r.IntrigueHook, &hook, &processed); err != nil {
			return nil, err
		}
		if hook.Valid {
			r.HookType = hook.String
		}
		if t, err := time.Parse(time.RFC3339, processed); err == nil {
			r.ProcessedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
