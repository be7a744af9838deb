package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// fileConfig is the on-disk shape of a config file. Durations are strings ("1.5s").
type fileConfig struct {
	BaseURL          string     `json:"base_url"`
	Categories       []Category `json:"categories"`
	StateFile        string     `json:"state_file"`
	OutputFile       string     `json:"output_file"`
	OutputFormat     string     `json:"output_format"`
	OutputDir        string     `json:"output_dir"`
	Delay            string     `json:"delay"`
	RandomDelay      string     `json:"random_delay"`
	Timeout          string     `json:"timeout"`
	MaxBodySize      int        `json:"max_body_size"`
	DetailCacheSize  int        `json:"detail_cache_size"`
	DownloadAssets   *bool      `json:"download_assets"`
	AssetRate        float64    `json:"asset_rate"`
	UserAgent        string     `json:"user_agent"`
	MetricsAddr      string     `json:"metrics_addr"`
	Verbose          bool       `json:"verbose"`
	RespectRobotsTxt bool       `json:"respect_robots_txt"`
}

// LoadFile overlays the JSON5 file at path, and its "<name>.local.<ext>" sibling when present,
// on top of cfg. A missing main file is reported as os.ErrNotExist.
func LoadFile(cfg *Config, path string) error {
	fc, err := readLayered(path)
	if err != nil {
		return err
	}

	overlay, err := fc.toConfig()
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if err := mergo.Merge(cfg, overlay, mergo.WithOverride); err != nil {
		return fmt.Errorf("merge config %s: %w", path, err)
	}
	// booleans default to true, so zero values cannot be told apart by mergo
	if fc.DownloadAssets != nil {
		cfg.DownloadAssets = *fc.DownloadAssets
	}
	return nil
}

func readLayered(path string) (fileConfig, error) {
	var out fileConfig

	payload, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := json5.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}

	local := localPath(path)
	payload, err = os.ReadFile(local)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	var override fileConfig
	if err := json5.Unmarshal(payload, &override); err != nil {
		return out, fmt.Errorf("decode %s: %w", local, err)
	}
	if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
		return out, fmt.Errorf("merge %s: %w", local, err)
	}
	if override.DownloadAssets != nil {
		out.DownloadAssets = override.DownloadAssets
	}
	slog.Info("merging config with local overrides", slog.String("local", local))
	return out, nil
}

func localPath(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+".local"+ext)
}

func (fc fileConfig) toConfig() (Config, error) {
	out := Config{
		BaseURL:          fc.BaseURL,
		Categories:       fc.Categories,
		StateFile:        fc.StateFile,
		OutputFile:       fc.OutputFile,
		OutputFormat:     strings.ToLower(fc.OutputFormat),
		OutputDir:        fc.OutputDir,
		MaxBodySize:      fc.MaxBodySize,
		DetailCacheSize:  fc.DetailCacheSize,
		AssetRate:        fc.AssetRate,
		UserAgent:        fc.UserAgent,
		MetricsAddr:      fc.MetricsAddr,
		Verbose:          fc.Verbose,
		RespectRobotsTxt: fc.RespectRobotsTxt,
	}

	var err error
	if out.Delay, err = parseDuration("delay", fc.Delay); err != nil {
		return out, err
	}
	if out.RandomDelay, err = parseDuration("random_delay", fc.RandomDelay); err != nil {
		return out, err
	}
	if out.Timeout, err = parseDuration("timeout", fc.Timeout); err != nil {
		return out, err
	}
	return out, nil
}

func parseDuration(field, raw string) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}
