package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NewsHarvester/internal/domain"
)

const (
	// summaryDisplayBudget is the display fallback cutoff; truncation
	// repair may still replace the summary with a longer source.
	summaryDisplayBudget = 200

	minContainerTextLen = 50
	minParagraphLen     = 20
	minFallbackLineLen  = 30
	minStructuredBlocks = 2
)

var (
	whitespaceExpr = regexp.MustCompile(`\s+`)

	// bylineExpr matches "Name | DD.MM.YYYY" signatures some sources put
	// at the top of the article body instead of a meta tag.
	bylineExpr = regexp.MustCompile(`^([\p{L}][\p{L}\s.'-]{1,60}?)\s*\|\s*\d{1,2}\.\d{1,2}\.\d{4}`)
)

// ExtractionError marks a page whose structure defeated extraction; the
// caller logs it and skips the link.
type ExtractionError struct {
	URL    string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.URL, e.Reason)
}

// Extract produces a best-effort candidate from one article page. A missing
// title is fatal for the candidate; everything else degrades gracefully.
func Extract(p Profile, doc *goquery.Document, pageURL string) (*domain.Candidate, error) {
	title := extractTitle(p, doc)
	if title == "" {
		return nil, &ExtractionError{URL: pageURL, Reason: "missing title"}
	}

	summary := displayTruncate(metaSummary(p, doc), summaryDisplayBudget)
	if SuspectSummary(summary) {
		if repaired := RepairSummary(p, doc, summary); runeLen(repaired) > runeLen(summary) {
			summary = repaired
		}
	}

	body := extractBody(p, doc)
	if bodyTextLen(body) < minContainerTextLen {
		fallback := summary
		if fallback == "" {
			fallback = title
		}
		body = []domain.Block{{Kind: domain.BlockParagraph, Text: fallback}}
	}

	return &domain.Candidate{
		SourceName:  p.Source,
		OriginalURL: pageURL,
		Title:       title,
		Summary:     summary,
		Body:        body,
		ImageURL:    FirstImage(p, doc),
		Author:      extractAuthor(doc, body),
	}, nil
}

func extractTitle(p Profile, doc *goquery.Document) string {
	for _, selector := range p.TitleSelectors {
		var title string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if t := collapse(s.Text()); t != "" {
				title = t
				return false
			}
			return true
		})
		if title != "" {
			return title
		}
	}
	return collapse(doc.Find("title").First().Text())
}

func metaSummary(p Profile, doc *goquery.Document) string {
	for _, ref := range p.SummaryMeta {
		if v := collapse(firstAttr(doc, ref)); v != "" {
			return v
		}
	}
	return ""
}

// extractBody strips non-content elements, picks the first content container
// with enough text, and walks its direct children into blocks. A flat
// container falls back to line splitting.
func extractBody(p Profile, doc *goquery.Document) []domain.Block {
	if p.StripSelectors != "" {
		doc.Find(p.StripSelectors).Remove()
	}

	container := findContainer(p, doc)
	if container == nil {
		return nil
	}

	blocks := structuredBlocks(p, container)
	if len(blocks) < minStructuredBlocks {
		if lines := lineBlocks(container); len(lines) > len(blocks) {
			blocks = lines
		}
	}
	return blocks
}

func findContainer(p Profile, doc *goquery.Document) *goquery.Selection {
	for _, selector := range p.ContentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if runeLen(collapse(sel.Text())) > minContainerTextLen {
			return sel
		}
	}
	return nil
}

func structuredBlocks(p Profile, container *goquery.Selection) []domain.Block {
	var blocks []domain.Block

	container.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "p", "div", "span":
			if text := collapse(child.Text()); runeLen(text) > minParagraphLen {
				blocks = append(blocks, domain.Block{Kind: domain.BlockParagraph, Text: text})
			}
		case "h2", "h3", "h4", "h5":
			if text := collapse(child.Text()); text != "" {
				blocks = append(blocks, domain.Block{Kind: domain.BlockHeading, Text: text})
			}
		case "figure", "img":
			if block, ok := imageBlock(p, child); ok {
				blocks = append(blocks, block)
			}
		}
	})

	return blocks
}

func imageBlock(p Profile, node *goquery.Selection) (domain.Block, bool) {
	img := node
	if goquery.NodeName(node) == "figure" {
		img = node.Find("img").First()
	}

	for _, attr := range []string{"src", "data-src"} {
		raw, ok := img.Attr(attr)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if absolute, usable := UsableImage(p, raw); usable {
			return domain.Block{Kind: domain.BlockImage, URL: absolute}, true
		}
	}
	return domain.Block{}, false
}

// lineBlocks handles containers whose text is not wrapped in elements:
// split on newlines and keep the substantive lines as paragraphs.
func lineBlocks(container *goquery.Selection) []domain.Block {
	var blocks []domain.Block
	for _, line := range strings.Split(container.Text(), "\n") {
		if text := collapse(line); runeLen(text) > minFallbackLineLen {
			blocks = append(blocks, domain.Block{Kind: domain.BlockParagraph, Text: text})
		}
	}
	return blocks
}

func extractAuthor(doc *goquery.Document, body []domain.Block) string {
	if author, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok {
		if a := collapse(author); a != "" {
			return a
		}
	}

	for _, block := range body {
		if block.Kind != domain.BlockParagraph {
			continue
		}
		if m := bylineExpr.FindStringSubmatch(block.Text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func bodyTextLen(blocks []domain.Block) int {
	total := 0
	for _, block := range blocks {
		total += runeLen(block.Text)
	}
	return total
}

// displayTruncate cuts to the last full word within budget and appends an
// ellipsis. It is only a display fallback; truncation repair may override.
func displayTruncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}

	cut := string(runes[:budget])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(s, " "))
}

func runeLen(s string) int {
	return len([]rune(s))
}
