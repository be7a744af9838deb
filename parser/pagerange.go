package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// FallbackRange is used whenever page input cannot be understood: parse page 1 only.
var FallbackRange = models.RangeRequest{Start: 1, End: 1, Mode: models.RangeSingle}

// ParsePageRange reads "N-M" or "N". Invalid input returns FallbackRange together with the
// reason, so callers can warn and continue.
func ParsePageRange(input string) (models.RangeRequest, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return FallbackRange, fmt.Errorf("empty page range")
	}

	if strings.Contains(input, "-") {
		parts := strings.SplitN(input, "-", 2)
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return FallbackRange, fmt.Errorf("invalid start page %q: %w", parts[0], err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return FallbackRange, fmt.Errorf("invalid end page %q: %w", parts[1], err)
		}
		req := models.RangeRequest{Start: start, End: end, Mode: models.RangeSpan}
		if !req.Valid() {
			return FallbackRange, fmt.Errorf("invalid range %d-%d: start must be positive and not after end", start, end)
		}
		return req, nil
	}

	page, err := strconv.Atoi(input)
	if err != nil {
		return FallbackRange, fmt.Errorf("invalid page number %q: %w", input, err)
	}
	req := models.RangeRequest{Start: page, End: page, Mode: models.RangeSingle}
	if !req.Valid() {
		return FallbackRange, fmt.Errorf("invalid page number %d: must be positive", page)
	}
	return req, nil
}
