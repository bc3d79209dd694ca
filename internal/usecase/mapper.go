package usecase

import (
	"NewsHarvester/internal/domain"
)

// EffectiveCategory resolves a source section URL to its internal category.
// Only active mappings with an exact URL match count; when the store holds
// duplicates for the pair, the most recently updated one wins so the pick
// stays deterministic. An empty result means the candidate is dropped, not
// persisted uncategorized.
func EffectiveCategory(mappings []domain.CategoryMapping, sectionURL string) string {
	var best *domain.CategoryMapping
	for i := range mappings {
		m := &mappings[i]
		if !m.IsActive || m.SectionURL != sectionURL {
			continue
		}
		if best == nil || m.UpdatedAt.After(best.UpdatedAt) {
			best = m
		}
	}
	if best == nil {
		return ""
	}
	return best.TargetCategory
}
