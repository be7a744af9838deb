// Package models defines data structures for the harvester.
package models

import "strings"

// NotAvailable marks a field whose block exists on the site but whose value could not be found.
const NotAvailable = "N/A"

// Fragment is a raw serialized markup region kept for a later parsing stage.
type Fragment string

// IsEmpty reports whether the fragment carries any markup.
func (f Fragment) IsEmpty() bool {
	return strings.TrimSpace(string(f)) == ""
}

// DetailRecord represents one harvested catalog item.
type DetailRecord struct {
	SourceURL                string   `csv:"source_url" json:"source_url"`
	Title                    string   `csv:"title" json:"title"`
	Description              string   `csv:"description" json:"description"`
	Developer                string   `csv:"developer" json:"developer"`
	Genre                    string   `csv:"genre" json:"genre"`
	ReleaseYear              string   `csv:"release_year" json:"release_year"`
	InterfaceLanguage        string   `csv:"interface_language" json:"interface_language"`
	VoiceLanguage            string   `csv:"voice_language" json:"voice_language"`
	SubtitleLanguage         string   `csv:"subtitle_language" json:"subtitle_language"`
	PatchStatus              string   `csv:"patch_status" json:"patch_status"`
	Edition                  string   `csv:"edition" json:"edition"`
	Version                  string   `csv:"version" json:"version"`
	InstallationInstructions string   `csv:"installation_instructions" json:"installation_instructions"`
	Screenshots              Fragment `csv:"-" json:"screenshots_html"`
	AssetURL                 string   `csv:"asset_url" json:"asset_url"`
}

// NewDetailRecord returns a record with every field set to its documented default.
func NewDetailRecord(sourceURL string) *DetailRecord {
	return &DetailRecord{
		SourceURL: sourceURL,
		Edition:   NotAvailable,
		Version:   NotAvailable,
	}
}

// Clone returns a shallow copy; all fields are values so the copy is independent.
func (r *DetailRecord) Clone() *DetailRecord {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}
