package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/usecase"
)

func sampleCandidate() *domain.Candidate {
	return &domain.Candidate{
		SourceName:  domain.SourceDnevnik,
		OriginalURL: "https://www.dnevnik.ba/vijesti/mjere-101",
		Title:       "Vlada usvojila novi set mjera",
		Summary:     "Vlada je danas usvojila novi set mjera za podršku privredi.",
		Body: []domain.Block{
			{Kind: domain.BlockParagraph, Text: "Na sjednici je usvojen set ekonomskih mjera."},
			{Kind: domain.BlockParagraph, Text: "Primjena počinje od prvog u mjesecu."},
		},
		ImageURL:       "https://cdn.dnevnik.ba/img/mjere.jpg",
		Author:         "Amra Hodžić",
		TargetCategory: "vijesti",
	}
}

func stored(c *domain.Candidate) domain.StoredArticle {
	return domain.StoredArticle{
		SourceName:   c.SourceName,
		OriginalURL:  c.OriginalURL,
		Title:        c.Title,
		Summary:      c.Summary,
		BodyHTML:     c.BodyHTML(),
		ImageURL:     c.ImageURL,
		Author:       c.Author,
		CategorySlug: c.TargetCategory,
	}
}

func TestReconcileCreatesWhenAbsent(t *testing.T) {
	t.Parallel()

	candidate := sampleCandidate()
	merged, outcome := usecase.Reconcile(nil, candidate)

	require.Equal(t, domain.OutcomeCreated, outcome)
	assert.Equal(t, candidate.Title, merged.Title)
	assert.Equal(t, candidate.TargetCategory, merged.CategorySlug)
	assert.Equal(t, candidate.BodyHTML(), merged.BodyHTML)
}

func TestReconcileSkipsUnchangedCandidate(t *testing.T) {
	t.Parallel()

	candidate := sampleCandidate()
	existing := stored(candidate)

	merged, outcome := usecase.Reconcile(&existing, candidate)
	require.Equal(t, domain.OutcomeSkippedDuplicate, outcome)
	assert.Equal(t, existing, merged)
}

func TestReconcileSummaryImproveOnly(t *testing.T) {
	t.Parallel()

	candidate := sampleCandidate()
	existing := stored(candidate)

	shorter := sampleCandidate()
	shorter.Summary = "Vlada usvojila mjere."
	merged, outcome := usecase.Reconcile(&existing, shorter)
	require.Equal(t, domain.OutcomeSkippedDuplicate, outcome)
	assert.Equal(t, existing.Summary, merged.Summary)

	longer := sampleCandidate()
	longer.Summary = existing.Summary + " Mjere obuhvataju i porezne olakšice za nova zapošljavanja."
	merged, outcome = usecase.Reconcile(&existing, longer)
	require.Equal(t, domain.OutcomeUpdated, outcome)
	assert.Equal(t, longer.Summary, merged.Summary)
}

func TestReconcileFillsMissingImageOnly(t *testing.T) {
	t.Parallel()

	candidate := sampleCandidate()
	existing := stored(candidate)
	existing.ImageURL = ""

	merged, outcome := usecase.Reconcile(&existing, candidate)
	require.Equal(t, domain.OutcomeUpdated, outcome)
	assert.Equal(t, candidate.ImageURL, merged.ImageURL)

	// Only the image changed.
	merged.ImageURL = ""
	assert.Equal(t, existing, merged)
}

func TestReconcileKeepsExistingImage(t *testing.T) {
	t.Parallel()

	candidate := sampleCandidate()
	existing := stored(candidate)

	replacement := sampleCandidate()
	replacement.ImageURL = "https://cdn.dnevnik.ba/img/other.jpg"
	merged, outcome := usecase.Reconcile(&existing, replacement)

	require.Equal(t, domain.OutcomeSkippedDuplicate, outcome)
	assert.Equal(t, existing.ImageURL, merged.ImageURL)
}

func TestReconcileNeverOverwritesWithEmpty(t *testing.T) {
	t.Parallel()

	candidate := sampleCandidate()
	existing := stored(candidate)

	bare := sampleCandidate()
	bare.Author = ""
	bare.ImageURL = ""

	merged, outcome := usecase.Reconcile(&existing, bare)
	require.Equal(t, domain.OutcomeSkippedDuplicate, outcome)
	assert.Equal(t, existing.Author, merged.Author)
	assert.Equal(t, existing.ImageURL, merged.ImageURL)
}

func TestReconcileNoCategoryShortCircuits(t *testing.T) {
	t.Parallel()

	candidate := sampleCandidate()
	candidate.TargetCategory = ""

	_, outcome := usecase.Reconcile(nil, candidate)
	require.Equal(t, domain.OutcomeSkippedNoCategory, outcome)
}
