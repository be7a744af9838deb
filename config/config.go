package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Category is one selectable section of the catalog.
type Category struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Config holds harvester configuration.
type Config struct {
	BaseURL          string
	Categories       []Category
	StateFile        string
	OutputFile       string
	OutputFormat     string // csv, json, or dual
	OutputDir        string
	Delay            time.Duration
	RandomDelay      time.Duration
	Timeout          time.Duration
	MaxBodySize      int
	DetailCacheSize  int
	DownloadAssets   bool
	AssetRate        float64 // downloads per second, 0 disables pacing
	UserAgent        string
	MetricsAddr      string
	Verbose          bool
	RespectRobotsTxt bool
}

// DefaultConfig returns conservative defaults for the catalog site.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://m.moreigr.com",
		Categories: []Category{
			{Key: "action", Name: "Action Games", Path: "/action"},
			{Key: "adventure", Name: "Adventure Games", Path: "/adventure"},
			{Key: "rpg", Name: "RPG Games", Path: "/rpg"},
			{Key: "strategy", Name: "Strategy Games", Path: "/strategy"},
			{Key: "simulation", Name: "Simulation Games", Path: "/simulation"},
		},
		StateFile:        "last_parsed_page.json",
		OutputFile:       "output.csv",
		OutputFormat:     "csv",
		OutputDir:        "output",
		Delay:            0,
		RandomDelay:      0,
		Timeout:          30 * time.Second,
		MaxBodySize:      0,
		DetailCacheSize:  256,
		DownloadAssets:   true,
		AssetRate:        0,
		UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		Verbose:          false,
		RespectRobotsTxt: false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	seen := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Key == "" {
			return fmt.Errorf("category key cannot be empty")
		}
		if cat.Key == AllCategoriesKey {
			return fmt.Errorf("category key %q is reserved", AllCategoriesKey)
		}
		if _, ok := seen[cat.Key]; ok {
			return fmt.Errorf("duplicate category key %q", cat.Key)
		}
		seen[cat.Key] = struct{}{}
	}

	if c.StateFile == "" {
		return fmt.Errorf("state file cannot be empty")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("max body size cannot be negative")
	}
	if c.DetailCacheSize < 0 {
		return fmt.Errorf("detail cache size cannot be negative")
	}
	if c.AssetRate < 0 {
		return fmt.Errorf("asset rate cannot be negative")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}

// AllCategoriesKey selects the catalog root instead of a single category.
const AllCategoriesKey = "all"

// CategoryURL resolves a category key into the absolute listing root used as the state key.
func (c *Config) CategoryURL(key string) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if key == "" || key == AllCategoriesKey {
		return strings.TrimSuffix(base.String(), "/"), nil
	}
	for _, cat := range c.Categories {
		if cat.Key != key {
			continue
		}
		ref, err := url.Parse(cat.Path)
		if err != nil {
			return "", fmt.Errorf("parse category path %q: %w", cat.Path, err)
		}
		return strings.TrimSuffix(base.ResolveReference(ref).String(), "/"), nil
	}
	return "", fmt.Errorf("unknown category %q", key)
}
