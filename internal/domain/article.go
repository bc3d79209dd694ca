package domain

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// SourceName identifies one of the crawled publishers.
type SourceName string

const (
	SourceDnevnik SourceName = "dnevnik"
	SourceGlasnik SourceName = "glasnik"
	SourceKurir24 SourceName = "kurir24"
)

// KnownSources lists every publisher the pipeline can crawl.
func KnownSources() []SourceName {
	return []SourceName{SourceDnevnik, SourceGlasnik, SourceKurir24}
}

// BlockKind enumerates the rich-text block types a body is built from.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockHeading   BlockKind = "heading"
	BlockImage     BlockKind = "image"
)

// Block is one unit of extracted article body content.
type Block struct {
	Kind BlockKind
	Text string
	URL  string
}

// Candidate is a transient extraction result for one article URL.
// It is produced fresh on every crawl and reconciled against storage;
// it is never persisted as-is.
type Candidate struct {
	SourceName     SourceName
	SectionURL     string
	OriginalURL    string
	Title          string
	Summary        string
	Body           []Block
	ImageURL       string
	Author         string
	TargetCategory string
}

// BodyHTML renders the body blocks to an HTML fragment for persistence.
func (c Candidate) BodyHTML() string {
	return RenderBlocks(c.Body)
}

// RenderBlocks serializes blocks to the HTML fragment format the CMS stores.
func RenderBlocks(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Kind {
		case BlockHeading:
			fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(block.Text))
		case BlockImage:
			fmt.Fprintf(&b, "<figure><img src=%q></figure>", block.URL)
		default:
			fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(block.Text))
		}
	}
	return b.String()
}

// StoredArticle mirrors the persisted article record owned by the storage
// collaborator. Slug, publication flags and timestamps are managed there.
type StoredArticle struct {
	ID           int64      `db:"id"`
	SourceName   SourceName `db:"source_name"`
	OriginalURL  string     `db:"original_url"`
	Title        string     `db:"title"`
	Summary      string     `db:"summary"`
	BodyHTML     string     `db:"body_html"`
	ImageURL     string     `db:"image_url"`
	Author       string     `db:"author"`
	CategorySlug string     `db:"category_slug"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// CategoryMapping associates a source section URL with an internal category.
// Only active mappings are consulted; when duplicates exist for a pair the
// most recently updated one is effective.
type CategoryMapping struct {
	SourceName     SourceName `db:"source_name"`
	SectionURL     string     `db:"section_url"`
	TargetCategory string     `db:"target_category"`
	IsActive       bool       `db:"is_active"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// BotSetting gates a source's runs and caps its daily intake.
type BotSetting struct {
	SourceName SourceName `db:"source_name"`
	IsActive   bool       `db:"is_active"`
	DailyLimit int        `db:"daily_limit"`
}

// Outcome classifies the reconciliation result for one candidate.
type Outcome string

const (
	OutcomeCreated           Outcome = "created"
	OutcomeUpdated           Outcome = "updated"
	OutcomeSkippedDuplicate  Outcome = "skipped_duplicate"
	OutcomeSkippedNoCategory Outcome = "skipped_no_category"
)

// RunStats accumulates per-run counters; the run summary is the only
// externally visible failure signal of the pipeline.
type RunStats struct {
	Source            SourceName
	Attempted         int
	Created           int
	Updated           int
	SkippedDuplicate  int
	SkippedNoCategory int
	Failed            int
}

// Record counts one reconciliation outcome.
func (s *RunStats) Record(outcome Outcome) {
	switch outcome {
	case OutcomeCreated:
		s.Created++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkippedDuplicate:
		s.SkippedDuplicate++
	case OutcomeSkippedNoCategory:
		s.SkippedNoCategory++
	}
}

// Succeeded reports how many candidates resulted in a write.
func (s RunStats) Succeeded() int {
	return s.Created + s.Updated
}
