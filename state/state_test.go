package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

const rpg = "https://example.test/rpg"

func TestResolve(t *testing.T) {
	withCheckpoint := NewCrawlState().Commit(rpg, models.PageRange{StartPage: 8, EndPage: 10})

	tests := []struct {
		name  string
		state CrawlState
		req   models.RangeRequest
		want  Plan
	}{
		{
			name:  "span resumes after checkpoint",
			state: withCheckpoint,
			req:   models.RangeRequest{Start: 3, End: 5, Mode: models.RangeSpan},
			want:  Plan{Range: models.PageRange{StartPage: 11, EndPage: 13}, Resumed: true},
		},
		{
			name:  "first span is absolute",
			state: NewCrawlState(),
			req:   models.RangeRequest{Start: 3, End: 5, Mode: models.RangeSpan},
			want:  Plan{Range: models.PageRange{StartPage: 3, EndPage: 5}},
		},
		{
			name:  "other category is unaffected",
			state: withCheckpoint,
			req:   models.RangeRequest{Start: 1, End: 2, Mode: models.RangeSpan},
			want:  Plan{Range: models.PageRange{StartPage: 1, EndPage: 2}},
		},
		{
			name:  "absolute ignores checkpoint",
			state: withCheckpoint,
			req:   models.RangeRequest{Start: 3, End: 5, Mode: models.RangeAbsolute},
			want:  Plan{Range: models.PageRange{StartPage: 3, EndPage: 5}},
		},
		{
			name:  "single page",
			state: withCheckpoint,
			req:   models.RangeRequest{Start: 4, End: 4, Mode: models.RangeSingle},
			want:  Plan{Range: models.PageRange{StartPage: 4, EndPage: 4}},
		},
		{
			name:  "inverted range falls back",
			state: withCheckpoint,
			req:   models.RangeRequest{Start: 5, End: 3, Mode: models.RangeSpan},
			want:  Plan{Range: models.PageRange{StartPage: 1, EndPage: 1}, FellBack: true},
		},
		{
			name:  "non-positive start falls back",
			state: NewCrawlState(),
			req:   models.RangeRequest{Start: 0, End: 3, Mode: models.RangeAbsolute},
			want:  Plan{Range: models.PageRange{StartPage: 1, EndPage: 1}, FellBack: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category := rpg
			if tt.name == "other category is unaffected" {
				category = "https://example.test/action"
			}
			got := tt.state.Resolve(category, tt.req)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("plan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommitDoesNotMutateReceiver(t *testing.T) {
	before := NewCrawlState().Commit(rpg, models.PageRange{StartPage: 1, EndPage: 2})
	after := before.Commit(rpg, models.PageRange{StartPage: 3, EndPage: 4})

	if got := before.LastParsedPages[rpg]; got != 2 {
		t.Fatalf("receiver changed: last = %d, want 2", got)
	}
	if got := after.LastParsedPages[rpg]; got != 4 {
		t.Fatalf("last = %d, want 4", got)
	}
	if got := after.PageRanges[rpg]; got != (models.PageRange{StartPage: 3, EndPage: 4}) {
		t.Fatalf("range = %+v", got)
	}
}

func TestCheckpointAndCategories(t *testing.T) {
	st := NewCrawlState().
		Commit("https://example.test/b", models.PageRange{StartPage: 1, EndPage: 3}).
		Commit("https://example.test/a", models.PageRange{StartPage: 1, EndPage: 1})

	if last, ok := st.Checkpoint("https://example.test/b"); !ok || last != 3 {
		t.Fatalf("checkpoint = %d, %v", last, ok)
	}
	if _, ok := st.Checkpoint("https://example.test/missing"); ok {
		t.Fatalf("unexpected checkpoint for unknown category")
	}
	want := []string{"https://example.test/a", "https://example.test/b"}
	if diff := cmp.Diff(want, st.Categories()); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
}
