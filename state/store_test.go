package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

func TestStoreCreatesAbsentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "last_parsed_page.json")
	store := NewStore(path)

	st, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(st.LastParsedPages) != 0 || len(st.PageRanges) != 0 {
		t.Fatalf("expected empty state, got %+v", st)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("state file not created: %v", err)
	}
	if !strings.Contains(string(payload), `"last_parsed_pages": {}`) {
		t.Fatalf("unexpected empty state file: %s", payload)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewStore(path)

	want := NewCrawlState().Commit(rpg, models.PageRange{StartPage: 3, EndPage: 5})
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %d entries", len(entries))
	}
}

func TestStoreFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	raw := `{"last_parsed_pages": {"https://example.test/rpg": 7},
		"page_ranges": {"https://example.test/rpg": {"start_page": 5, "end_page": 7}}}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	st, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.LastParsedPages[rpg] != 7 {
		t.Fatalf("last = %d, want 7", st.LastParsedPages[rpg])
	}
	if st.PageRanges[rpg] != (models.PageRange{StartPage: 5, EndPage: 7}) {
		t.Fatalf("range = %+v", st.PageRanges[rpg])
	}
}

func TestStoreEmptyAndPartialFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "empty file", content: ""},
		{name: "whitespace", content: "  \n"},
		{name: "missing ranges", content: `{"last_parsed_pages": {}}`},
		{name: "corrupt", content: `{"last_parsed_pages":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			st, err := NewStore(path).Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("load error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if st.LastParsedPages == nil || st.PageRanges == nil {
				t.Fatalf("maps must be allocated: %+v", st)
			}
		})
	}
}
