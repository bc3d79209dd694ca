package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/usecase"
)

func TestEffectiveCategory(t *testing.T) {
	t.Parallel()

	section := "https://www.dnevnik.ba/vijesti"
	older := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mappings := []domain.CategoryMapping{
		{SourceName: domain.SourceDnevnik, SectionURL: section, TargetCategory: "stara-rubrika", IsActive: true, UpdatedAt: older},
		{SourceName: domain.SourceDnevnik, SectionURL: section, TargetCategory: "vijesti", IsActive: true, UpdatedAt: newer},
		{SourceName: domain.SourceDnevnik, SectionURL: section, TargetCategory: "neaktivna", IsActive: false, UpdatedAt: newer.Add(time.Hour)},
		{SourceName: domain.SourceDnevnik, SectionURL: "https://www.dnevnik.ba/sport", TargetCategory: "sport", IsActive: true, UpdatedAt: newer},
	}

	t.Run("most recently updated active mapping wins", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "vijesti", usecase.EffectiveCategory(mappings, section))
	})

	t.Run("inactive mappings are ignored", func(t *testing.T) {
		t.Parallel()
		inactive := []domain.CategoryMapping{
			{SectionURL: section, TargetCategory: "neaktivna", IsActive: false, UpdatedAt: newer},
		}
		assert.Empty(t, usecase.EffectiveCategory(inactive, section))
	})

	t.Run("no exact match yields empty", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, usecase.EffectiveCategory(mappings, "https://www.dnevnik.ba/magazin"))
	})
}
