package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// imageDenylist holds URL substrings (matched case-insensitively) that mark
// placeholder and site-furniture images: "no image" graphics, default share
// images, and wire-service/site logos that must never become an article image.
var imageDenylist = []string{
	"noimage",
	"no-image",
	"no_image",
	"nema-slike",
	"default.jpg",
	"default.png",
	"default-share",
	"blank.gif",
	"placeholder",
	"bip.png",
	"share-logo",
	"logo-share",
	"fena-logo",
	"srna-logo",
	"anadolu-logo",
}

// UsableImage validates a candidate image URL and absolutizes it against
// the source origin. Denylisted URLs and non-http results are rejected.
func UsableImage(p Profile, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	lowered := strings.ToLower(raw)
	for _, marker := range imageDenylist {
		if strings.Contains(lowered, marker) {
			return "", false
		}
	}

	return absolutize(p.BaseURL, raw)
}

// FirstImage walks the profile's fixed image-candidate priority list and
// returns the first URL that passes validation.
func FirstImage(p Profile, doc *goquery.Document) string {
	for _, candidate := range p.ImageCandidates {
		raw := firstAttr(doc, candidate)
		if raw == "" {
			continue
		}
		if absolute, ok := UsableImage(p, raw); ok {
			return absolute
		}
	}
	return ""
}

// firstAttr returns the first non-empty attribute value for an attrRef.
func firstAttr(doc *goquery.Document, ref attrRef) string {
	var value string
	doc.Find(ref.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range ref.Attrs {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
				value = strings.TrimSpace(v)
				return false
			}
		}
		return true
	})
	return value
}
