package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// ResolveScreenshots re-parses a captured screens fragment and returns the target of every
// anchor, resolved against base, in document order.
func ResolveScreenshots(fragment models.Fragment, base *url.URL) ([]string, error) {
	if fragment.IsEmpty() {
		return nil, nil
	}
	if base == nil {
		return nil, fmt.Errorf("resolve screenshots: base url is nil")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(fragment)))
	if err != nil {
		return nil, fmt.Errorf("parse screenshots fragment: %w", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		links = append(links, resolved.String())
	})
	return links, nil
}
