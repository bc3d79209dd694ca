package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Publisher CMSes hard-truncate descriptions around 200 characters, often
// mid-word. These thresholds flag such summaries so a fuller source on the
// same page can be preferred. The values recur across the sources we crawl
// but are heuristics, not proven constants.
const (
	truncationBandLow     = 195
	truncationBandHigh    = 205
	confidentSummaryLen   = 120
	minRepairParagraphLen = 80
)

var sentenceTerminals = []string{".", "!", "?", "…", "\"", "”", "»"}

// SuspectSummary reports whether a summary looks hard-truncated: its length
// sits just under a known cutoff point, or it ends mid-sentence while being
// too short to be a deliberate editorial summary.
func SuspectSummary(s string) bool {
	n := runeLen(s)
	if n == 0 {
		return false
	}
	if n >= truncationBandLow && n <= truncationBandHigh {
		return true
	}
	return n < confidentSummaryLen && !endsSentence(s)
}

func endsSentence(s string) bool {
	trimmed := strings.TrimRight(s, " ")
	for _, terminal := range sentenceTerminals {
		if strings.HasSuffix(trimmed, terminal) {
			return true
		}
	}
	return false
}

// RepairSummary derives a fuller summary from the page: the longer of the
// meta descriptions when it is itself trustworthy, else the first
// substantive paragraph of the content container. Returns current when no
// better source exists; it never shortens.
func RepairSummary(p Profile, doc *goquery.Document, current string) string {
	best := current

	if meta := longestMetaDescription(doc); runeLen(meta) > runeLen(best) && !SuspectSummary(meta) {
		best = meta
	}

	if best == current || SuspectSummary(best) {
		if para := firstSubstantiveParagraph(p, doc); runeLen(para) > runeLen(best) {
			best = para
		}
	}

	if runeLen(best) > runeLen(current) {
		return best
	}
	return current
}

func longestMetaDescription(doc *goquery.Document) string {
	var best string
	for _, selector := range []string{`meta[name="description"]`, `meta[property="og:description"]`} {
		if v, ok := doc.Find(selector).Attr("content"); ok {
			if c := collapse(v); runeLen(c) > runeLen(best) {
				best = c
			}
		}
	}
	return best
}

func firstSubstantiveParagraph(p Profile, doc *goquery.Document) string {
	container := findContainer(p, doc)
	if container == nil {
		return ""
	}

	var para string
	container.Find("p, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := collapse(s.Text()); runeLen(text) > minRepairParagraphLen {
			para = text
			return false
		}
		return true
	})
	return para
}
