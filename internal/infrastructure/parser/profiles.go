package parser

import (
	"NewsHarvester/internal/domain"
)

// attrRef points at one attribute of a selector match; cascades are
// evaluated in order and the first non-empty hit wins.
type attrRef struct {
	Selector string
	Attrs    []string
}

// Profile describes how one publisher's markup is read. Selector lists are
// data, not code: supporting a new source means adding a profile, and a
// markup change on a source means editing its tables.
type Profile struct {
	Source  domain.SourceName
	BaseURL string

	// Listing pages: anchors that point at articles, and URL substrings
	// marking non-article media (galleries, video, infographics) whose
	// pages would break field extraction.
	ListingSelectors []string
	MediaMarkers     []string

	// Article pages.
	TitleSelectors   []string
	SummaryMeta      []attrRef
	ContentSelectors []string
	StripSelectors   string
	ImageCandidates  []attrRef
}

const defaultStripSelectors = "script, style, nav, aside, form, iframe, " +
	".share, .social, .social-share, .ad, .ads, .banner, " +
	".breadcrumb, .breadcrumbs, .tags, .related, .embed, .comments"

var summaryMetaDefault = []attrRef{
	{Selector: `meta[name="description"]`, Attrs: []string{"content"}},
	{Selector: `meta[property="og:description"]`, Attrs: []string{"content"}},
	{Selector: `meta[name="twitter:description"]`, Attrs: []string{"content"}},
}

var profiles = map[domain.SourceName]Profile{
	domain.SourceDnevnik: {
		Source:  domain.SourceDnevnik,
		BaseURL: "https://www.dnevnik.ba",
		ListingSelectors: []string{
			"article h2 a",
			"div.news-item > a",
			"div.featured a.title",
		},
		MediaMarkers: []string{"/galerija/", "/video/", "-video-"},
		TitleSelectors: []string{
			"h1.article-title",
			"article h1",
			"h1",
		},
		SummaryMeta: summaryMetaDefault,
		ContentSelectors: []string{
			"div.article-body",
			"div.content-inner",
			"article .text",
		},
		StripSelectors: defaultStripSelectors,
		ImageCandidates: []attrRef{
			{Selector: `meta[property="og:image"]`, Attrs: []string{"content"}},
			{Selector: "div.article-body figure img", Attrs: []string{"src", "data-src"}},
			{Selector: "img.article-img", Attrs: []string{"src", "data-src"}},
		},
	},
	domain.SourceGlasnik: {
		Source:  domain.SourceGlasnik,
		BaseURL: "https://www.glasnik.ba",
		ListingSelectors: []string{
			"div.post-list h3 a",
			"div.headline a",
		},
		MediaMarkers: []string{"/foto/", "/video-", "/infografika/"},
		TitleSelectors: []string{
			"h1.entry-title",
			"h1",
		},
		SummaryMeta: summaryMetaDefault,
		ContentSelectors: []string{
			"div.entry-content",
			"div.post-content",
		},
		StripSelectors: defaultStripSelectors,
		ImageCandidates: []attrRef{
			{Selector: `meta[property="og:image"]`, Attrs: []string{"content"}},
			{Selector: "div.entry-content img", Attrs: []string{"src", "data-src"}},
		},
	},
	domain.SourceKurir24: {
		Source:  domain.SourceKurir24,
		BaseURL: "https://www.kurir24.ba",
		ListingSelectors: []string{
			"section.latest a.item-link",
			"div.card a.card-title",
			"ul.top-news li > a",
		},
		MediaMarkers: []string{"/galerije/", "/tv/", "-foto-"},
		TitleSelectors: []string{
			"h1.single-title",
			"header h1",
			"h1",
		},
		SummaryMeta: summaryMetaDefault,
		ContentSelectors: []string{
			"div.single-content",
			"div.article-text",
			"article",
		},
		StripSelectors: defaultStripSelectors,
		ImageCandidates: []attrRef{
			{Selector: `meta[property="og:image"]`, Attrs: []string{"content"}},
			{Selector: "div.single-content figure img", Attrs: []string{"src", "data-src"}},
			{Selector: "div.featured-image img", Attrs: []string{"src", "data-src"}},
		},
	},
}

// ProfileFor returns the markup profile registered for a source.
func ProfileFor(source domain.SourceName) (Profile, bool) {
	p, ok := profiles[source]
	return p, ok
}
