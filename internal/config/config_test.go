package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxStories != 12 {
		t.Errorf("MaxStories = %d, want 12", cfg.MaxStories)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if len(cfg.Feeds) == 0 {
		t.Error("expected a default feed")
	}
	if cfg.OutputDir == "" || cfg.DatabasePath == "" {
		t.Errorf("missing path defaults: %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `feeds:
  - https://example.com/feed.xml
  - https://example.org/rss
max_stories: 5
workers: 2
output_dir: ` + filepath.Join(dir, "out") + `
database_path: ` + filepath.Join(dir, "db.sqlite") + `
ai:
  base_url: http://localhost:8080
  model: test-model
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Feeds) != 2 {
		t.Errorf("Feeds = %v", cfg.Feeds)
	}
	if cfg.MaxStories != 5 || cfg.Workers != 2 {
		t.Errorf("unexpected limits: %+v", cfg)
	}
	if cfg.AI.BaseURL != "http://localhost:8080" || cfg.AI.Model != "test-model" {
		t.Errorf("unexpected AI config: %+v", cfg.AI)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want sk-test", cfg.AI.APIKey)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := ExpandPath("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("ExpandPath(~/x) = %q", got)
	}
	t.Setenv("SPEEDREAD_TEST_DIR", "/tmp/sr")
	if got := ExpandPath("$SPEEDREAD_TEST_DIR/out"); got != "/tmp/sr/out" {
		t.Errorf("ExpandPath env = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath empty = %q", got)
	}
}
