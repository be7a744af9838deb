package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// Row classes the catalog uses for its labeled metadata list. Pages put the same label
// under either class, so every field is looked up in both.
var (
	firstRow  = cascadia.MustCompile("li.first")
	secondRow = cascadia.MustCompile("li.second")
)

// Locator finds one candidate value for a field: the first row matched by Container whose
// text satisfies Match.
type Locator struct {
	Container cascadia.Selector
	Match     func(text string) bool
	Value     func(text string) string
}

// FieldRule maps a record field to an ordered list of locators. The first locator producing
// a non-empty value wins.
type FieldRule struct {
	Field    string
	Locators []Locator
	Assign   func(r *models.DetailRecord, value string)
}

// labeled builds a locator for rows starting with label, yielding the text after it.
func labeled(container cascadia.Selector, label string) Locator {
	return Locator{
		Container: container,
		Match: func(text string) bool {
			return strings.HasPrefix(text, label)
		},
		Value: func(text string) string {
			return stripLabel(text, label)
		},
	}
}

// labeledRows searches the given row classes in order.
func labeledRows(label string, containers ...cascadia.Selector) []Locator {
	out := make([]Locator, 0, len(containers))
	for _, c := range containers {
		out = append(out, labeled(c, label))
	}
	return out
}

// FieldRules is the metadata rule table. Candidate order per field mirrors where the site
// most often places each label.
var FieldRules = []FieldRule{
	{
		Field:    "developer",
		Locators: labeledRows("Разработчик", secondRow, firstRow),
		Assign:   func(r *models.DetailRecord, v string) { r.Developer = v },
	},
	{
		Field:    "genre",
		Locators: labeledRows("Категория", secondRow, firstRow),
		Assign:   func(r *models.DetailRecord, v string) { r.Genre = v },
	},
	{
		Field:    "release_year",
		Locators: labeledRows("Год выхода", firstRow, secondRow),
		Assign:   func(r *models.DetailRecord, v string) { r.ReleaseYear = v },
	},
	{
		Field:    "interface_language",
		Locators: labeledRows("Язык интерфейса", firstRow, secondRow),
		Assign:   func(r *models.DetailRecord, v string) { r.InterfaceLanguage = v },
	},
	{
		Field:    "voice_language",
		Locators: labeledRows("Язык озвучки", secondRow, firstRow),
		Assign:   func(r *models.DetailRecord, v string) { r.VoiceLanguage = v },
	},
	{
		Field:    "subtitle_language",
		Locators: labeledRows("Субтитры", firstRow, secondRow),
		Assign:   func(r *models.DetailRecord, v string) { r.SubtitleLanguage = v },
	},
	{
		Field:    "patch_status",
		Locators: labeledRows("Таблетка", firstRow, secondRow),
		Assign:   func(r *models.DetailRecord, v string) { r.PatchStatus = v },
	},
}

// Lookup returns the first non-empty value produced by the rule's locators.
func (fr FieldRule) Lookup(root *goquery.Selection) string {
	for _, loc := range fr.Locators {
		if value := loc.find(root); value != "" {
			return value
		}
	}
	return ""
}

func (l Locator) find(root *goquery.Selection) string {
	value := ""
	root.FindMatcher(l.Container).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := normalizeSpace(row.Text())
		if !l.Match(text) {
			return true
		}
		value = l.Value(text)
		return false
	})
	return value
}

func stripLabel(text, label string) string {
	rest := strings.TrimPrefix(text, label)
	rest = strings.TrimLeft(rest, " :")
	return strings.TrimSpace(rest)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
