// Package scraper walks catalog listings, extracts detail records and drives the resumable
// page-range controller.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/parser"
	"github.com/aluiziolira/go-scrape-catalog/state"
)

const (
	phaseListing = "listing"
	phaseDetail  = "detail"
)

// Scraper runs one category range at a time, strictly sequentially.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	fetcher   Fetcher
	listing   *ListingWalker
	details   *DetailExtractor
	Metrics   *Metrics

	requestCount int
	pageCount    int
	errorCount   int
	errorsByType map[string]int
}

// NewScraper builds a scraper backed by a colly collector configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	metrics := NewMetrics()
	fetcher, err := NewCollyFetcher(cfg, metrics)
	if err != nil {
		return nil, err
	}
	s, err := newScraper(cfg, fetcher, metrics)
	if err != nil {
		return nil, err
	}
	s.collector = fetcher.collector
	return s, nil
}

func newScraper(cfg *config.Config, fetcher Fetcher, metrics *Metrics) (*Scraper, error) {
	s := &Scraper{
		cfg:          cfg,
		fetcher:      fetcher,
		Metrics:      metrics,
		errorsByType: make(map[string]int),
	}
	s.listing = NewListingWalker(s.phase(phaseListing))
	details, err := NewDetailExtractor(s.phase(phaseDetail), cfg.DetailCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create detail cache: %w", err)
	}
	s.details = details
	return s, nil
}

// phase wraps the fetcher with request accounting for one kind of page.
func (s *Scraper) phase(name string) Fetcher {
	return FetcherFunc(func(ctx context.Context, target string) ([]byte, error) {
		s.requestCount++
		s.Metrics.IncRequest(name)
		body, err := s.fetcher.Fetch(ctx, target)
		if err != nil {
			s.recordError(err)
			return nil, &FetchError{URL: target, Phase: name, Err: err}
		}
		return body, nil
	})
}

func (s *Scraper) recordError(err error) {
	label := ErrorLabel(err)
	s.errorCount++
	s.errorsByType[label]++
	s.Metrics.IncError(label)
}

// Run resolves req against st, walks the resulting pages of categoryURL and returns the
// extracted records with the next state. The returned state only differs from st when the
// range completed and at least one page yielded items. On error the partial result is
// returned alongside st unchanged.
func (s *Scraper) Run(ctx context.Context, categoryURL string, req models.RangeRequest, st state.CrawlState) (*models.RunResult, state.CrawlState, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.reset()

	plan := st.Resolve(categoryURL, req)
	if plan.FellBack {
		slog.Warn("invalid page range, parsing page 1 only",
			slog.Int("start", req.Start),
			slog.Int("end", req.End),
		)
	}
	slog.Info("harvesting category",
		slog.String("category", categoryURL),
		slog.Int("start_page", plan.Range.StartPage),
		slog.Int("end_page", plan.Range.EndPage),
		slog.Bool("resumed", plan.Resumed),
	)

	result := &models.RunResult{
		Category:  categoryURL,
		Requested: plan.Range,
		Resumed:   plan.Resumed,
		StartTime: time.Now(),
	}

	reached := 0
	for page := plan.Range.StartPage; page <= plan.Range.EndPage; page++ {
		if err := ctx.Err(); err != nil {
			return s.finish(result, reached), st, fmt.Errorf("run interrupted before page %d: %w", page, err)
		}

		links, err := s.listing.Links(ctx, categoryURL, page)
		if err != nil {
			return s.finish(result, reached), st, fmt.Errorf("listing page %d: %w", page, err)
		}
		s.pageCount++

		if len(links) == 0 {
			s.Metrics.IncPage("exhausted")
			result.Exhausted = true
			slog.Info("listing exhausted", slog.Int("page", page))
			break
		}
		s.Metrics.IncPage("items")
		reached = page
		slog.Debug("listing page walked", slog.Int("page", page), slog.Int("links", len(links)))

		for _, link := range links {
			record, cached, err := s.details.Extract(ctx, link)
			switch {
			case errors.Is(err, parser.ErrUnrecognizedDocument):
				s.recordError(err)
				slog.Warn("skipping unrecognized detail page", slog.String("url", link))
				continue
			case err != nil:
				return s.finish(result, reached), st, fmt.Errorf("detail page %s: %w", link, err)
			}
			if cached {
				s.Metrics.IncCacheHit()
			}
			s.Metrics.IncRecords()
			result.Records = append(result.Records, record)
		}
	}

	s.finish(result, reached)
	if reached == 0 {
		slog.Info("no listing page yielded items, state unchanged", slog.String("category", categoryURL))
		return result, st, nil
	}

	next := st.Commit(categoryURL, models.PageRange{StartPage: plan.Range.StartPage, EndPage: reached})
	result.Committed = true
	return result, next, nil
}

func (s *Scraper) reset() {
	s.requestCount = 0
	s.pageCount = 0
	s.errorCount = 0
	s.errorsByType = make(map[string]int)
}

func (s *Scraper) finish(result *models.RunResult, reached int) *models.RunResult {
	result.LastPage = reached
	result.EndTime = time.Now()
	result.RequestCount = s.requestCount
	result.PageCount = s.pageCount
	result.ErrorCount = s.errorCount
	result.ErrorsByType = make(map[string]int, len(s.errorsByType))
	for k, v := range s.errorsByType {
		result.ErrorsByType[k] = v
	}
	return result
}
