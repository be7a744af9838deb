package pipeline

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

func TestNewExportRow(t *testing.T) {
	base, _ := url.Parse("http://example.test/")
	rec := models.NewDetailRecord("http://example.test/rpg/1-game.html")
	rec.Title = "Game"
	rec.Screenshots = `<div class="screens"><a href="/uploads/1.jpg"></a><a href="#">skip</a><a href="http://cdn.test/2.png"></a></div>`

	row := NewExportRow(rec, base)

	want := []string{"http://example.test/uploads/1.jpg", "http://cdn.test/2.png"}
	if diff := cmp.Diff(want, row.ScreenshotLinks); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}
	if row.Edition != models.NotAvailable || row.Version != models.NotAvailable {
		t.Fatalf("defaults lost: edition=%q version=%q", row.Edition, row.Version)
	}

	values := row.Values()
	if len(values) != len(Columns) {
		t.Fatalf("values=%d, columns=%d", len(values), len(Columns))
	}
	if values[13] != "http://example.test/uploads/1.jpg\nhttp://cdn.test/2.png" {
		t.Fatalf("screenshot cell = %q", values[13])
	}
}

func TestNewExportRowWithoutScreenshots(t *testing.T) {
	base, _ := url.Parse("http://example.test/")
	row := NewExportRow(models.NewDetailRecord("u"), base)
	if row.ScreenshotLinks == nil || len(row.ScreenshotLinks) != 0 {
		t.Fatalf("expected empty, non-nil links, got %#v", row.ScreenshotLinks)
	}
}
