package parser

import (
	"testing"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.RangeRequest
		wantErr bool
	}{
		{name: "span", input: "3-5", want: models.RangeRequest{Start: 3, End: 5, Mode: models.RangeSpan}},
		{name: "span with spaces", input: " 2 - 4 ", want: models.RangeRequest{Start: 2, End: 4, Mode: models.RangeSpan}},
		{name: "single page", input: "7", want: models.RangeRequest{Start: 7, End: 7, Mode: models.RangeSingle}},
		{name: "same bounds", input: "4-4", want: models.RangeRequest{Start: 4, End: 4, Mode: models.RangeSpan}},
		{name: "reversed", input: "5-3", want: FallbackRange, wantErr: true},
		{name: "zero page", input: "0", want: FallbackRange, wantErr: true},
		{name: "not a number", input: "abc", want: FallbackRange, wantErr: true},
		{name: "empty", input: "", want: FallbackRange, wantErr: true},
		{name: "missing start", input: "-3", want: FallbackRange, wantErr: true},
		{name: "too many parts", input: "1-2-3", want: FallbackRange, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePageRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParsePageRange(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
