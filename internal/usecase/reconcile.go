package usecase

import (
	"NewsHarvester/internal/domain"
)

// mergeStrategy decides the stored value of one field given the existing
// and the candidate value.
type mergeStrategy func(stored, candidate string) string

// preferLonger keeps the strictly longer value (in characters). Used for
// summary and body so a truncated re-crawl can never degrade stored text.
func preferLonger(stored, candidate string) string {
	if len([]rune(candidate)) > len([]rune(stored)) {
		return candidate
	}
	return stored
}

// preferPresent fills an absent stored value but never replaces one.
func preferPresent(stored, candidate string) string {
	if stored == "" {
		return candidate
	}
	return stored
}

// preferCandidate takes the fresh value unless it is empty; a non-empty
// stored field is never overwritten with an empty candidate field.
func preferCandidate(stored, candidate string) string {
	if candidate == "" {
		return stored
	}
	return candidate
}

// mergeRules is the field-level reconciliation table.
var mergeRules = []struct {
	name     string
	strategy mergeStrategy
	field    func(*domain.StoredArticle) *string
}{
	{"title", preferCandidate, func(a *domain.StoredArticle) *string { return &a.Title }},
	{"summary", preferLonger, func(a *domain.StoredArticle) *string { return &a.Summary }},
	{"body", preferLonger, func(a *domain.StoredArticle) *string { return &a.BodyHTML }},
	{"image", preferPresent, func(a *domain.StoredArticle) *string { return &a.ImageURL }},
	{"author", preferCandidate, func(a *domain.StoredArticle) *string { return &a.Author }},
	{"category", preferCandidate, func(a *domain.StoredArticle) *string { return &a.CategorySlug }},
}

// Reconcile decides whether a candidate is new, improves an existing record,
// or changes nothing. Candidates without a resolved category short-circuit
// before any merge so no write can happen for them.
func Reconcile(existing *domain.StoredArticle, candidate *domain.Candidate) (domain.StoredArticle, domain.Outcome) {
	if candidate.TargetCategory == "" {
		return domain.StoredArticle{}, domain.OutcomeSkippedNoCategory
	}

	fresh := domain.StoredArticle{
		SourceName:   candidate.SourceName,
		OriginalURL:  candidate.OriginalURL,
		Title:        candidate.Title,
		Summary:      candidate.Summary,
		BodyHTML:     candidate.BodyHTML(),
		ImageURL:     candidate.ImageURL,
		Author:       candidate.Author,
		CategorySlug: candidate.TargetCategory,
	}

	if existing == nil {
		return fresh, domain.OutcomeCreated
	}

	merged := *existing
	changed := false
	for _, rule := range mergeRules {
		stored := rule.field(&merged)
		next := rule.strategy(*stored, *rule.field(&fresh))
		if next != *stored {
			*stored = next
			changed = true
		}
	}

	if !changed {
		return merged, domain.OutcomeSkippedDuplicate
	}
	return merged, domain.OutcomeUpdated
}
