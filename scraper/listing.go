package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const listingItem = "div.short-story"

// ListingURL returns the address of listing page n for a category.
func ListingURL(categoryURL string, page int) string {
	return fmt.Sprintf("%s/page/%d/", strings.TrimSuffix(categoryURL, "/"), page)
}

// ListingWalker reads listing pages and returns the detail links on them.
type ListingWalker struct {
	fetcher Fetcher
}

// NewListingWalker returns a walker fetching through f.
func NewListingWalker(f Fetcher) *ListingWalker {
	return &ListingWalker{fetcher: f}
}

// Links fetches listing page n and returns its detail links in page order. An empty result
// means the category is exhausted.
func (w *ListingWalker) Links(ctx context.Context, categoryURL string, page int) ([]string, error) {
	pageURL := ListingURL(categoryURL, page)
	body, err := w.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ParseListing(body, pageURL)
}

// ParseListing extracts the first link of every listing item, resolved against pageURL.
func ParseListing(body []byte, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse listing url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", pageURL, err)
	}

	var links []string
	doc.Find(listingItem).Each(func(_ int, item *goquery.Selection) {
		href := strings.TrimSpace(item.Find("a[href]").First().AttrOr("href", ""))
		if href == "" {
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
