package pipeline

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jarcoal/httpmock"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

type mockWriter struct {
	batches [][]ExportRow
	err     error
}

func (mw *mockWriter) Write(rows []ExportRow) error {
	if mw.err != nil {
		return mw.err
	}
	mw.batches = append(mw.batches, rows)
	return nil
}

func (mw *mockWriter) Close() error {
	return nil
}

func (mw *mockWriter) Validate() error {
	return nil
}

func record(source, title, asset string) *models.DetailRecord {
	rec := models.NewDetailRecord(source)
	rec.Title = title
	rec.AssetURL = asset
	return rec
}

func TestGroupByTitle(t *testing.T) {
	records := []*models.DetailRecord{
		record("1", "B", ""),
		record("2", "A", ""),
		record("3", "B", ""),
		record("4", "", ""),
	}
	want := [][]int{{0, 2}, {1}, {3}}
	if diff := cmp.Diff(want, groupByTitle(records)); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineProcess(t *testing.T) {
	root := t.TempDir()
	base, _ := url.Parse("http://example.test")

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/files/a.torrent", httpmock.NewStringResponder(200, "a"))
	transport.RegisterResponder("GET", "http://example.test/files/b.torrent", httpmock.NewStringResponder(500, ""))
	assets := newTestAssetFetcher(t, transport, nil)

	writer := &mockWriter{}
	p := NewPipeline(writer, NewReportWriter(root), assets, base, root)

	records := []*models.DetailRecord{
		record("http://example.test/1", "Alpha", "/files/a.torrent"),
		record("http://example.test/2", "Beta", "/files/b.torrent"),
		record("http://example.test/3", "Alpha", "/files/a-second.torrent"),
	}
	if err := p.Process(context.Background(), records); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(writer.batches) != 1 || len(writer.batches[0]) != 3 {
		t.Fatalf("expected one export of 3 rows, got %d batches", len(writer.batches))
	}
	for _, name := range []string{"Alpha/Alpha.txt", "Beta/Beta.txt", "Alpha/a.torrent"} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(name))); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "Alpha", "a-second.torrent")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("assets must only be fetched for the first record of a title")
	}

	metrics := p.GetMetrics()
	if metrics["exported_records"].(int64) != 3 || metrics["reports_written"].(int64) != 2 {
		t.Fatalf("metrics = %v", metrics)
	}
	failures := metrics["asset_failures"].(map[string]int)
	if failures["Beta"] != 1 || len(failures) != 1 {
		t.Fatalf("asset failures = %v", failures)
	}
}

func TestPipelineProcessWithoutAssets(t *testing.T) {
	root := t.TempDir()
	base, _ := url.Parse("http://example.test")
	p := NewPipeline(&mockWriter{}, NewReportWriter(root), nil, base, root)

	if err := p.Process(context.Background(), []*models.DetailRecord{record("u", "", "/x.torrent")}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "untitled", "untitled.txt")); err != nil {
		t.Fatalf("expected untitled report: %v", err)
	}
}

func TestPipelineProcessErrors(t *testing.T) {
	base, _ := url.Parse("http://example.test")

	p := NewPipeline(&mockWriter{}, nil, nil, base, t.TempDir())
	if err := p.Process(context.Background(), nil); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}

	boom := errors.New("disk full")
	p = NewPipeline(&mockWriter{err: boom}, nil, nil, base, t.TempDir())
	if err := p.Process(context.Background(), []*models.DetailRecord{record("u", "t", "")}); !errors.Is(err, boom) {
		t.Fatalf("expected writer error, got %v", err)
	}
}
