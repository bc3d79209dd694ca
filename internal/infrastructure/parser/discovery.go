package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DiscoverLinks extracts candidate article URLs from a listing page in
// document order, deduplicated by exact URL string. Anchors matching the
// profile's non-article media markers are excluded: gallery/video pages
// have a different structure and their content is not text news.
func DiscoverLinks(p Profile, doc *goquery.Document) []string {
	seen := map[string]struct{}{}
	var links []string

	for _, selector := range p.ListingSelectors {
		doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok {
				return
			}

			absolute, ok := absolutize(p.BaseURL, strings.TrimSpace(href))
			if !ok {
				return
			}
			if isMediaURL(p, absolute) {
				return
			}
			if _, dup := seen[absolute]; dup {
				return
			}
			seen[absolute] = struct{}{}
			links = append(links, absolute)
		})
	}

	return links
}

func isMediaURL(p Profile, absolute string) bool {
	lowered := strings.ToLower(absolute)
	for _, marker := range p.MediaMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// absolutize resolves a possibly relative href against the source origin
// and keeps only http(s) results.
func absolutize(baseURL, href string) (string, bool) {
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	resolved.Fragment = ""
	return resolved.String(), true
}
