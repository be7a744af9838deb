// Package state holds the crawl checkpoint carried between runs and the resume arithmetic
// applied to page-range requests.
package state

import (
	"sort"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// CrawlState records, per category URL, the last listing page that yielded items and the range
// that produced it.
type CrawlState struct {
	LastParsedPages map[string]int              `json:"last_parsed_pages"`
	PageRanges      map[string]models.PageRange `json:"page_ranges"`
}

// Plan is a range request resolved against a CrawlState.
type Plan struct {
	Range    models.PageRange
	Resumed  bool
	FellBack bool
}

// NewCrawlState returns an empty state with both maps allocated.
func NewCrawlState() CrawlState {
	return CrawlState{
		LastParsedPages: make(map[string]int),
		PageRanges:      make(map[string]models.PageRange),
	}
}

// Clone returns a deep copy so callers can advance a state without touching the original.
func (s CrawlState) Clone() CrawlState {
	out := NewCrawlState()
	for k, v := range s.LastParsedPages {
		out.LastParsedPages[k] = v
	}
	for k, v := range s.PageRanges {
		out.PageRanges[k] = v
	}
	return out
}

// Checkpoint returns the last page recorded for category.
func (s CrawlState) Checkpoint(category string) (int, bool) {
	last, ok := s.LastParsedPages[category]
	return last, ok && last > 0
}

// Commit returns a copy of s advanced to the completed range r.
func (s CrawlState) Commit(category string, r models.PageRange) CrawlState {
	out := s.Clone()
	out.LastParsedPages[category] = r.EndPage
	out.PageRanges[category] = r
	return out
}

// Categories lists every category with a checkpoint, sorted.
func (s CrawlState) Categories() []string {
	keys := make([]string, 0, len(s.LastParsedPages))
	for k := range s.LastParsedPages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve turns a request into concrete pages. Span requests continue from the checkpoint
// with the same number of pages once the category has one; invalid requests become page 1.
func (s CrawlState) Resolve(category string, req models.RangeRequest) Plan {
	if !req.Valid() {
		return Plan{Range: models.PageRange{StartPage: 1, EndPage: 1}, FellBack: true}
	}

	switch req.Mode {
	case models.RangeSingle:
		return Plan{Range: models.PageRange{StartPage: req.Start, EndPage: req.Start}}
	case models.RangeSpan:
		if last, ok := s.Checkpoint(category); ok {
			span := req.End - req.Start + 1
			return Plan{
				Range:   models.PageRange{StartPage: last + 1, EndPage: last + span},
				Resumed: true,
			}
		}
	}
	return Plan{Range: models.PageRange{StartPage: req.Start, EndPage: req.End}}
}
