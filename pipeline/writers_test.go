package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleRow() ExportRow {
	return ExportRow{
		SourceURL:                "http://example.test/rpg/1-game.html",
		Title:                    "Test Game",
		Description:              "First.\nSecond.",
		Developer:                "Acme",
		Edition:                  "N/A",
		Version:                  "N/A",
		InstallationInstructions: "Mount\nPlay",
		ScreenshotLinks:          []string{"http://example.test/s1.jpg", "http://example.test/s2.jpg"},
		AssetURL:                 "http://example.test/engine/download.php?id=1",
	}
}

func TestCSVWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "output.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Write([]ExportRow{sampleRow()}); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d, want 2", len(records))
	}
	if diff := cmp.Diff(Columns, records[0]); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(sampleRow().Values(), records[1]); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	empty := ExportRow{SourceURL: "u", ScreenshotLinks: []string{}}
	if err := writer.Write([]ExportRow{sampleRow(), empty}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		lines = append(lines, line)
	}
	if len(lines) != 2 {
		t.Fatalf("lines=%d, want 2", len(lines))
	}
	for _, col := range Columns {
		if _, ok := lines[1][col]; !ok {
			t.Fatalf("empty row is missing key %q", col)
		}
	}
	if got := lines[0]["asset_url"]; got != "http://example.test/engine/download.php?id=1" {
		t.Fatalf("asset_url = %v", got)
	}
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewOutputWriter("DUAL", filepath.Join(dir, "output.csv"))
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}
	if err := writer.Write([]ExportRow{sampleRow()}); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate dual: %v", err)
	}

	for _, name := range []string{"output.csv", "output.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestNewOutputWriterUnknownFormat(t *testing.T) {
	if _, err := NewOutputWriter("xml", filepath.Join(t.TempDir(), "out.xml")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
