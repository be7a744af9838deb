package pipeline

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/parser"
)

// Columns is the tabular export header, in output order.
var Columns = []string{
	"source_url",
	"title",
	"description",
	"developer",
	"genre",
	"release_year",
	"interface_language",
	"voice_language",
	"subtitle_language",
	"patch_status",
	"edition",
	"version",
	"installation_instructions",
	"screenshot_links",
	"asset_url",
}

// ExportRow is one record as it appears in tabular output: the raw screenshots fragment is
// replaced by its resolved links.
type ExportRow struct {
	SourceURL                string   `json:"source_url"`
	Title                    string   `json:"title"`
	Description              string   `json:"description"`
	Developer                string   `json:"developer"`
	Genre                    string   `json:"genre"`
	ReleaseYear              string   `json:"release_year"`
	InterfaceLanguage        string   `json:"interface_language"`
	VoiceLanguage            string   `json:"voice_language"`
	SubtitleLanguage         string   `json:"subtitle_language"`
	PatchStatus              string   `json:"patch_status"`
	Edition                  string   `json:"edition"`
	Version                  string   `json:"version"`
	InstallationInstructions string   `json:"installation_instructions"`
	ScreenshotLinks          []string `json:"screenshot_links"`
	AssetURL                 string   `json:"asset_url"`
}

// NewExportRow flattens rec, resolving screenshot links against base.
func NewExportRow(rec *models.DetailRecord, base *url.URL) ExportRow {
	links, err := parser.ResolveScreenshots(rec.Screenshots, base)
	if err != nil {
		slog.Warn("resolving screenshot links", slog.String("url", rec.SourceURL), slog.Any("error", err))
	}
	if links == nil {
		links = []string{}
	}
	return ExportRow{
		SourceURL:                rec.SourceURL,
		Title:                    rec.Title,
		Description:              rec.Description,
		Developer:                rec.Developer,
		Genre:                    rec.Genre,
		ReleaseYear:              rec.ReleaseYear,
		InterfaceLanguage:        rec.InterfaceLanguage,
		VoiceLanguage:            rec.VoiceLanguage,
		SubtitleLanguage:         rec.SubtitleLanguage,
		PatchStatus:              rec.PatchStatus,
		Edition:                  rec.Edition,
		Version:                  rec.Version,
		InstallationInstructions: rec.InstallationInstructions,
		ScreenshotLinks:          links,
		AssetURL:                 rec.AssetURL,
	}
}

// Values returns the row's cells in Columns order. Screenshot links share one cell, one per
// line.
func (r ExportRow) Values() []string {
	return []string{
		r.SourceURL,
		r.Title,
		r.Description,
		r.Developer,
		r.Genre,
		r.ReleaseYear,
		r.InterfaceLanguage,
		r.VoiceLanguage,
		r.SubtitleLanguage,
		r.PatchStatus,
		r.Edition,
		r.Version,
		r.InstallationInstructions,
		strings.Join(r.ScreenshotLinks, "\n"),
		r.AssetURL,
	}
}
