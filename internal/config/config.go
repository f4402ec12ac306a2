package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AIConfig holds the summarization service settings. The API key is never
// read from the config file; it comes from the OPENAI_API_KEY environment
// variable at process start.
type AIConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
	APIKey  string `yaml:"-"`
}

// Config is the full configuration surface, fixed at process start.
type Config struct {
	Feeds      []string `yaml:"feeds"`
	MaxStories int      `yaml:"max_stories"`
	Workers    int      `yaml:"workers"`

	FeedTimeoutSec      int `yaml:"feed_timeout"`
	ScrapeTimeoutSec    int `yaml:"scrape_timeout"`
	SummarizeTimeoutSec int `yaml:"summarize_timeout"`

	OutputDir    string `yaml:"output_dir"`
	DatabasePath string `yaml:"database_path"`

	AI AIConfig `yaml:"ai"`
}

// Default returns the baseline configuration used when no config file exists.
func Default() Config {
	return Config{
		Feeds:               []string{"https://www.boston.com/feed/bdc-msn-rss"},
		MaxStories:          12,
		Workers:             4,
		FeedTimeoutSec:      30,
		ScrapeTimeoutSec:    30,
		SummarizeTimeoutSec: 90,
		OutputDir:           "public",
		DatabasePath:        "speedread.db",
		AI: AIConfig{
			Model: "gpt-4o",
		},
	}
}

// DefaultPath returns the user config location, ~/.config/speedread/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "speedread", "config.yaml"), nil
}

// Load reads the config at path, falling back to DefaultPath when path is
// empty. A missing file is not an error: defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.APIKeyFromEnv()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxStories <= 0 {
		cfg.MaxStories = 12
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.FeedTimeoutSec <= 0 {
		cfg.FeedTimeoutSec = 30
	}
	if cfg.ScrapeTimeoutSec <= 0 {
		cfg.ScrapeTimeoutSec = 30
	}
	if cfg.SummarizeTimeoutSec <= 0 {
		cfg.SummarizeTimeoutSec = 90
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		cfg.OutputDir = "public"
	}
	if strings.TrimSpace(cfg.DatabasePath) == "" {
		cfg.DatabasePath = "speedread.db"
	}
	cfg.OutputDir = ExpandPath(cfg.OutputDir)
	cfg.DatabasePath = ExpandPath(cfg.DatabasePath)
	cfg.APIKeyFromEnv()
	return cfg, nil
}

// APIKeyFromEnv fills AI.APIKey from the environment.
func (c *Config) APIKeyFromEnv() {
	if k := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); k != "" {
		c.AI.APIKey = k
	}
}

// ExpandPath expands leading ~ and environment variables in a filesystem path.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			if p == "~" {
				p = home
			} else if strings.HasPrefix(p, "~/") {
				p = filepath.Join(home, p[2:])
			}
		}
	}
	return p
}
