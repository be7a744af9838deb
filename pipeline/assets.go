package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/parser"
)

const (
	assetArchive    = "archive"
	assetScreenshot = "screenshot"
)

// AssetObserver is told about every download attempt.
type AssetObserver interface {
	IncAsset(kind, outcome string)
}

// AssetFetcher downloads a record's archive and screenshots into its item directory. Each
// asset is independent: one failing never stops the others.
type AssetFetcher struct {
	client   *resty.Client
	limiter  *rate.Limiter
	base     *url.URL
	observer AssetObserver
}

// NewAssetFetcher builds a fetcher resolving relative links against cfg.BaseURL.
func NewAssetFetcher(cfg *config.Config, observer AssetObserver) (*AssetFetcher, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	limit := rate.Inf
	if cfg.AssetRate > 0 {
		limit = rate.Limit(cfg.AssetRate)
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Referer", base.String())

	return &AssetFetcher{
		client:   client,
		limiter:  rate.NewLimiter(limit, 1),
		base:     base,
		observer: observer,
	}, nil
}

// FetchAssets downloads rec's archive, when it has one, and every screenshot into dir. The
// returned error joins every individual failure.
func (a *AssetFetcher) FetchAssets(ctx context.Context, rec *models.DetailRecord, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}

	var errs []error
	if rec.AssetURL != "" {
		if err := a.download(ctx, assetArchive, rec.AssetURL, dir); err != nil {
			errs = append(errs, err)
		}
	}

	links, err := parser.ResolveScreenshots(rec.Screenshots, a.base)
	if err != nil {
		errs = append(errs, err)
	}
	for _, link := range links {
		if err := a.download(ctx, assetScreenshot, link, dir); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (a *AssetFetcher) download(ctx context.Context, kind, rawURL, dir string) error {
	target, err := a.base.Parse(rawURL)
	if err != nil {
		a.observe(kind, "failed")
		return fmt.Errorf("%s %q: %w", kind, rawURL, err)
	}
	if err := a.limiter.Wait(ctx); err != nil {
		a.observe(kind, "failed")
		return fmt.Errorf("%s %s: %w", kind, target, err)
	}

	resp, err := a.client.R().SetContext(ctx).Get(target.String())
	if err != nil {
		a.observe(kind, "failed")
		return fmt.Errorf("%s %s: %w", kind, target, err)
	}
	if resp.IsError() {
		a.observe(kind, "failed")
		return fmt.Errorf("%s %s: http %d", kind, target, resp.StatusCode())
	}

	path := filepath.Join(dir, parser.AssetFileName(target.String()))
	if err := os.WriteFile(path, resp.Body(), 0o644); err != nil {
		a.observe(kind, "failed")
		return fmt.Errorf("%s %s: %w", kind, target, err)
	}

	a.observe(kind, "downloaded")
	slog.Debug("asset saved", slog.String("kind", kind), slog.String("path", path))
	return nil
}

func (a *AssetFetcher) observe(kind, outcome string) {
	if a.observer == nil {
		return
	}
	a.observer.IncAsset(kind, outcome)
}
