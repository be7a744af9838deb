package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTitleDir(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Game: Deluxe / Edition", want: filepath.Join("out", "Game__Deluxe___Edition")},
		{title: "", want: filepath.Join("out", "untitled")},
		{title: "   ", want: filepath.Join("out", "untitled")},
		{title: "..", want: filepath.Join("out", "_")},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := TitleDir("out", tt.title); got != tt.want {
				t.Fatalf("TitleDir(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestReportWriterWrite(t *testing.T) {
	root := t.TempDir()
	rw := NewReportWriter(root)

	row := sampleRow()
	row.Title = "Test Game?"
	path, err := rw.Write(row.Title, []ExportRow{row, row})
	if err != nil {
		t.Fatalf("write report: %v", err)
	}

	want := filepath.Join(root, "Test_Game_", "Test_Game_.txt")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(payload)
	if strings.Count(text, "Test Game?") != 2 {
		t.Fatalf("expected both rows in report:\n%s", text)
	}
	if !strings.Contains(strings.ToLower(text), "source_url") {
		t.Fatalf("missing header:\n%s", text)
	}
}
