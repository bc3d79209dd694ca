package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/usecase"
)

const (
	sectionURL = "https://www.dnevnik.ba/vijesti"

	articleURL1 = "https://www.dnevnik.ba/vijesti/prva-vijest-101"
	articleURL2 = "https://www.dnevnik.ba/vijesti/druga-vijest-102"
	articleURL3 = "https://www.dnevnik.ba/vijesti/treca-vijest-103"
)

const sectionListingHTML = `<html><body>
<article><h2><a href="/vijesti/prva-vijest-101">Prva</a></h2></article>
<article><h2><a href="/vijesti/druga-vijest-102">Druga</a></h2></article>
<article><h2><a href="/galerija/foto-dana-900">Galerija</a></h2></article>
<article><h2><a href="/vijesti/treca-vijest-103">Treca</a></h2></article>
</body></html>`

func articleHTML(title, summary string) string {
	return `<html><head><meta name="description" content="` + summary + `"></head>
<body><h1 class="article-title">` + title + `</h1>
<div class="article-body">
<p>Prvi paragraf članka koji nosi dovoljno teksta da bude sačuvan.</p>
<p>Drugi paragraf članka sa dodatnim informacijama i detaljima.</p>
</div></body></html>`
}

func activeMapping(target string) domain.CategoryMapping {
	return domain.CategoryMapping{
		SourceName:     domain.SourceDnevnik,
		SectionURL:     sectionURL,
		TargetCategory: target,
		IsActive:       true,
		UpdatedAt:      time.Now(),
	}
}

func newTestRig() (*fakeFetcher, *fakeCategoryStore, *fakeArticleStore, *usecase.Runner) {
	fetcher := newFakeFetcher()
	fetcher.pages[sectionURL] = sectionListingHTML
	fetcher.pages[articleURL1] = articleHTML("Prva vijest", "Sažetak prve vijesti sa svim potrebnim detaljima za čitaoce.")
	fetcher.pages[articleURL2] = articleHTML("Druga vijest", "Sažetak druge vijesti sa svim potrebnim detaljima za čitaoce.")
	fetcher.pages[articleURL3] = articleHTML("Treća vijest", "Sažetak treće vijesti sa svim potrebnim detaljima za čitaoce.")

	categories := &fakeCategoryStore{
		setting:  domain.BotSetting{SourceName: domain.SourceDnevnik, IsActive: true},
		mappings: []domain.CategoryMapping{activeMapping("vijesti")},
	}
	articles := newFakeArticleStore()

	runner := usecase.NewRunner(usecase.RunnerDeps{
		Fetcher:    fetcher,
		Categories: categories,
		Articles:   articles,
	})
	return fetcher, categories, articles, runner
}

func TestRunSourceCreatesDiscoveredArticles(t *testing.T) {
	t.Parallel()

	_, _, articles, runner := newTestRig()

	stats, err := runner.RunSource(context.Background(), domain.SourceDnevnik, []string{sectionURL})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Attempted)
	assert.Equal(t, 3, stats.Created)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 3, articles.saves)

	saved, err := articles.Find(context.Background(), domain.SourceDnevnik, articleURL1)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Prva vijest", saved.Title)
	assert.Equal(t, "vijesti", saved.CategorySlug)
	assert.NotEmpty(t, saved.BodyHTML)
}

func TestRunSourceIsIdempotent(t *testing.T) {
	t.Parallel()

	_, _, articles, runner := newTestRig()
	ctx := context.Background()

	first, err := runner.RunSource(ctx, domain.SourceDnevnik, []string{sectionURL})
	require.NoError(t, err)
	require.Equal(t, 3, first.Created)

	second, err := runner.RunSource(ctx, domain.SourceDnevnik, []string{sectionURL})
	require.NoError(t, err)

	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 3, second.SkippedDuplicate)
	assert.Equal(t, 3, articles.saves)
}

func TestRunSourceInactiveSettingSkipsRun(t *testing.T) {
	t.Parallel()

	fetcher, categories, _, runner := newTestRig()
	categories.setting.IsActive = false

	stats, err := runner.RunSource(context.Background(), domain.SourceDnevnik, []string{sectionURL})
	require.NoError(t, err)

	assert.Zero(t, stats.Attempted)
	assert.Zero(t, fetcher.callCount())
}

func TestRunSourceUnmappedSectionDropsCandidates(t *testing.T) {
	t.Parallel()

	_, categories, articles, runner := newTestRig()
	categories.mappings = nil

	stats, err := runner.RunSource(context.Background(), domain.SourceDnevnik, []string{sectionURL})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.SkippedNoCategory)
	assert.Zero(t, stats.Created)
	assert.Zero(t, articles.saves)
}

func TestRunSourceIsolatesLinkFailures(t *testing.T) {
	t.Parallel()

	fetcher, _, articles, runner := newTestRig()
	fetcher.failures[articleURL2] = errors.New("connection reset")

	stats, err := runner.RunSource(context.Background(), domain.SourceDnevnik, []string{sectionURL})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Attempted)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, articles.saves)
}

func TestRunSourceRecordsPersistenceFailures(t *testing.T) {
	t.Parallel()

	_, _, articles, runner := newTestRig()
	articles.saveErr = errors.New("write refused")

	stats, err := runner.RunSource(context.Background(), domain.SourceDnevnik, []string{sectionURL})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Failed)
	assert.Zero(t, stats.Created)
}

func TestRunSourceHonorsDailyLimit(t *testing.T) {
	t.Parallel()

	_, categories, articles, runner := newTestRig()
	categories.setting.DailyLimit = 2

	stats, err := runner.RunSource(context.Background(), domain.SourceDnevnik, []string{sectionURL})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Attempted)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 2, articles.saves)
}

func TestRunSourceStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	_, _, _, runner := newTestRig()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.RunSource(ctx, domain.SourceDnevnik, []string{sectionURL})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunAllProcessesEverySource(t *testing.T) {
	t.Parallel()

	_, _, _, runner := newTestRig()

	stats := runner.RunAll(context.Background(), []usecase.SourcePlan{
		{Source: domain.SourceDnevnik, Sections: []string{sectionURL}},
		{Source: domain.SourceGlasnik, Sections: nil},
	})

	require.Len(t, stats, 2)
}
