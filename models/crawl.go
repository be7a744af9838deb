package models

import "time"

// PageRange is an inclusive span of listing page numbers.
type PageRange struct {
	StartPage int `json:"start_page"`
	EndPage   int `json:"end_page"`
}

// Len returns the number of pages covered by the range.
func (r PageRange) Len() int {
	if r.EndPage < r.StartPage {
		return 0
	}
	return r.EndPage - r.StartPage + 1
}

// RangeMode selects how a RangeRequest is turned into concrete pages.
type RangeMode int

const (
	// RangeSingle parses exactly one page.
	RangeSingle RangeMode = iota
	// RangeSpan parses the typed bounds the first time a category is seen and afterwards
	// advances the same number of pages past the category's checkpoint.
	RangeSpan
	// RangeAbsolute always parses the typed bounds.
	RangeAbsolute
)

func (m RangeMode) String() string {
	switch m {
	case RangeSingle:
		return "single"
	case RangeSpan:
		return "span"
	case RangeAbsolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// RangeRequest is the user's page selection before it is resolved against the crawl state.
type RangeRequest struct {
	Start int
	End   int
	Mode  RangeMode
}

// Valid reports whether the request has positive, ordered bounds.
func (r RangeRequest) Valid() bool {
	if r.Start < 1 {
		return false
	}
	if r.Mode == RangeSingle {
		return true
	}
	return r.End >= r.Start
}

// RunResult holds the overall result of one harvesting run.
type RunResult struct {
	Category     string
	Records      []*DetailRecord
	Requested    PageRange
	Resumed      bool
	LastPage     int
	Exhausted    bool
	Committed    bool
	StartTime    time.Time
	EndTime      time.Time
	ErrorCount   int
	ErrorsByType map[string]int
	RequestCount int
	PageCount    int
}
