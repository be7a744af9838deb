// Package parser turns catalog markup into detail records and normalises user input.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// ErrUnrecognizedDocument is returned when markup has none of the detail page containers.
var ErrUnrecognizedDocument = errors.New("parser: unrecognized detail document")

const (
	titleSuffix        = "скачать торрент"
	editionLabel       = "Тип издания:"
	versionLabel       = "Версия игры:"
	instructionsLabel  = "Инструкция по установке"
	assetCallToAction  = "СКАЧАТЬ ТОРРЕНТ"
	screenshotsRegion  = "div.screens"
	storyContainers    = "div.full-story, div.full"
	instructionsCells  = "td.tdname, td.tdzhach"
	instructionsValue  = "tdzhach"
	instructionsHeader = "tdname"
)

var infoBlock = cascadia.MustCompile("div.orazdache")

// Parse reads markup and extracts a record from it.
func Parse(r io.Reader, sourceURL string) (*models.DetailRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", sourceURL, err)
	}
	return Extract(doc, sourceURL)
}

// Extract builds a DetailRecord from a parsed detail page. Missing fields fall back to their
// defaults; only a document without any story container is an error.
func Extract(doc *goquery.Document, sourceURL string) (*models.DetailRecord, error) {
	if doc == nil || doc.Find(storyContainers).Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedDocument, sourceURL)
	}

	root := doc.Selection
	record := models.NewDetailRecord(sourceURL)
	record.Title = extractTitle(root)
	record.Description = extractDescription(root)

	for _, rule := range FieldRules {
		rule.Assign(record, rule.Lookup(root))
	}

	record.Edition = infoLine(root, editionLabel)
	record.Version = infoLine(root, versionLabel)
	record.InstallationInstructions = extractInstructions(root)
	record.Screenshots = extractScreens(root)
	record.AssetURL = extractAssetURL(root)

	return record, nil
}

func extractTitle(root *goquery.Selection) string {
	title := normalizeSpace(root.Find("div.full-story h1").First().Text())
	title = strings.TrimSuffix(title, titleSuffix)
	return strings.TrimSpace(title)
}

func extractDescription(root *goquery.Selection) string {
	var paragraphs []string
	root.Find("div.full").First().Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n")
}

// infoLine finds the line of the info block containing label and returns what follows its
// last colon. The block or the line being absent yields models.NotAvailable.
func infoLine(root *goquery.Selection, label string) string {
	block := root.FindMatcher(infoBlock).First()
	if block.Length() == 0 {
		return models.NotAvailable
	}
	for _, line := range breakLines(block.Nodes[0]) {
		if !strings.Contains(line, label) {
			continue
		}
		parts := strings.Split(line, ":")
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return models.NotAvailable
}

func extractInstructions(root *goquery.Selection) string {
	var cell *html.Node
	labelSeen := false
	root.Find(instructionsCells).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		switch {
		case !labelSeen && s.HasClass(instructionsHeader):
			labelSeen = strings.HasPrefix(normalizeSpace(s.Text()), instructionsLabel)
		case labelSeen && s.HasClass(instructionsValue):
			cell = s.Nodes[0]
			return false
		}
		return true
	})
	if cell == nil {
		return ""
	}

	if goquery.NewDocumentFromNode(cell).Find("br").Length() > 0 {
		return strings.Join(breakLines(cell), "\n")
	}
	return strings.Join(textNodes(cell), "\n")
}

func extractScreens(root *goquery.Selection) models.Fragment {
	region := root.Find(screenshotsRegion).First()
	if region.Length() == 0 {
		return ""
	}
	markup, err := goquery.OuterHtml(region)
	if err != nil {
		return ""
	}
	return models.Fragment(markup)
}

func extractAssetURL(root *goquery.Selection) string {
	anchor := root.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return normalizeSpace(a.Text()) == assetCallToAction
	}).First()
	href, _ := anchor.Attr("href")
	return strings.TrimSpace(href)
}

// textNodes returns every non-blank text node below n, trimmed, in document order.
func textNodes(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if text := normalizeSpace(node.Data); text != "" {
				out = append(out, text)
			}
			return
		}
		if skipElement(node) {
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

// breakLines renders n as lines: <br> and block-level elements end a line, text in between is
// joined with single spaces. Blank lines are dropped.
func breakLines(n *html.Node) []string {
	var lines []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
		}
	}

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch {
		case node.Type == html.TextNode:
			if text := normalizeSpace(node.Data); text != "" {
				current = append(current, text)
			}
			return
		case node.Type == html.ElementNode && node.Data == "br":
			flush()
			return
		case skipElement(node):
			return
		}
		block := node != n && isBlock(node)
		if block {
			flush()
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if block {
			flush()
		}
	}
	walk(n)
	flush()
	return lines
}

func skipElement(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style")
}

func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "p", "div", "li", "ul", "ol", "tr", "td", "table", "h1", "h2", "h3", "h4", "h5", "h6", "section":
		return true
	}
	return false
}
