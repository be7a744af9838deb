package scraper

import (
	"bytes"
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/parser"
)

// DetailExtractor fetches detail pages and turns them into records. Records already extracted
// in this process are served from an LRU keyed by URL.
type DetailExtractor struct {
	fetcher Fetcher
	records *lru.Cache[string, *models.DetailRecord]
}

// NewDetailExtractor returns an extractor; cacheSize 0 disables reuse.
func NewDetailExtractor(f Fetcher, cacheSize int) (*DetailExtractor, error) {
	d := &DetailExtractor{fetcher: f}
	if cacheSize > 0 {
		cache, err := lru.New[string, *models.DetailRecord](cacheSize)
		if err != nil {
			return nil, err
		}
		d.records = cache
	}
	return d, nil
}

// Extract returns the record for detailURL and whether it came from the cache.
func (d *DetailExtractor) Extract(ctx context.Context, detailURL string) (*models.DetailRecord, bool, error) {
	if d.records != nil {
		if cached, ok := d.records.Get(detailURL); ok {
			return cached.Clone(), true, nil
		}
	}

	body, err := d.fetcher.Fetch(ctx, detailURL)
	if err != nil {
		return nil, false, err
	}
	record, err := parser.Parse(bytes.NewReader(body), detailURL)
	if err != nil {
		return nil, false, err
	}

	if d.records != nil {
		d.records.Add(detailURL, record.Clone())
	}
	return record, false, nil
}
