// Package pipeline turns a finished run's records into the tabular export, per-title text
// reports and downloaded assets.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// ErrNoRecords is returned when there is nothing to export.
var ErrNoRecords = errors.New("pipeline: no records")

// Pipeline runs the post-crawl stages sequentially: export once, then one report and one asset
// pass per distinct title.
type Pipeline struct {
	writer  OutputWriter
	reports *ReportWriter
	assets  *AssetFetcher
	base    *url.URL
	root    string

	metrics metrics
}

// NewPipeline wires the stages. A nil assets fetcher disables downloads.
func NewPipeline(writer OutputWriter, reports *ReportWriter, assets *AssetFetcher, base *url.URL, root string) *Pipeline {
	return &Pipeline{
		writer:  writer,
		reports: reports,
		assets:  assets,
		base:    base,
		root:    root,
		metrics: newMetrics(),
	}
}

// Process consumes records in order. Export and report failures are returned; asset failures
// are logged and counted only.
func (p *Pipeline) Process(ctx context.Context, records []*models.DetailRecord) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	rows := make([]ExportRow, len(records))
	for i, rec := range records {
		rows[i] = NewExportRow(rec, p.base)
	}
	if err := p.writer.Write(rows); err != nil {
		return fmt.Errorf("export records: %w", err)
	}
	p.metrics.addExported(len(rows))

	for _, group := range groupByTitle(records) {
		if err := ctx.Err(); err != nil {
			return err
		}

		groupRows := make([]ExportRow, len(group))
		for i, idx := range group {
			groupRows[i] = rows[idx]
		}
		title := records[group[0]].Title

		if p.reports != nil {
			path, err := p.reports.Write(title, groupRows)
			if err != nil {
				return err
			}
			p.metrics.incReports()
			slog.Debug("report written", slog.String("path", path), slog.Int("rows", len(groupRows)))
		}

		if p.assets == nil {
			continue
		}
		first := records[group[0]]
		if err := p.assets.FetchAssets(ctx, first, TitleDir(p.root, title)); err != nil {
			p.metrics.addAssetFailure(title)
			slog.Warn("asset download incomplete",
				slog.String("title", title),
				slog.String("url", first.SourceURL),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

// GetMetrics exposes a snapshot of pipeline counters.
func (p *Pipeline) GetMetrics() map[string]interface{} {
	return p.metrics.snapshot()
}

// groupByTitle returns record indexes grouped by title, groups ordered by first appearance.
func groupByTitle(records []*models.DetailRecord) [][]int {
	index := make(map[string]int)
	var groups [][]int
	for i, rec := range records {
		g, ok := index[rec.Title]
		if !ok {
			g = len(groups)
			index[rec.Title] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

type metrics struct {
	mu            sync.Mutex
	exported      int64
	reports       int64
	assetFailures map[string]int
}

func newMetrics() metrics {
	return metrics{
		assetFailures: make(map[string]int),
	}
}

func (m *metrics) addExported(n int) {
	m.mu.Lock()
	m.exported += int64(n)
	m.mu.Unlock()
}

func (m *metrics) incReports() {
	m.mu.Lock()
	m.reports++
	m.mu.Unlock()
}

func (m *metrics) addAssetFailure(title string) {
	m.mu.Lock()
	m.assetFailures[title]++
	m.mu.Unlock()
}

func (m *metrics) snapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	failures := make(map[string]int, len(m.assetFailures))
	for k, v := range m.assetFailures {
		failures[k] = v
	}

	return map[string]interface{}{
		"exported_records": m.exported,
		"reports_written":  m.reports,
		"asset_failures":   failures,
	}
}
