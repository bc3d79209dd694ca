package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/infrastructure/parser"
	"NewsHarvester/internal/ports"
)

// BackfillStats summarizes one summary-repair pass over stored articles.
type BackfillStats struct {
	Source   domain.SourceName
	Examined int
	Repaired int
	Failed   int
}

// Backfiller re-runs truncation repair against already persisted records.
// The pass is idempotent: it refetches each suspect article's original URL
// and persists a summary only when it is a strict improvement, so running
// it twice leaves storage unchanged.
type Backfiller struct {
	fetcher   ports.DocumentFetcher
	articles  ports.ArticleStore
	logger    *slog.Logger
	timeout   time.Duration
	batchSize int
}

// NewBackfiller constructs the repair pass.
func NewBackfiller(fetcher ports.DocumentFetcher, articles ports.ArticleStore, logger *slog.Logger, timeout time.Duration, batchSize int) *Backfiller {
	return &Backfiller{
		fetcher:   fetcher,
		articles:  articles,
		logger:    logger,
		timeout:   timeout,
		batchSize: batchSize,
	}
}

// Run examines the source's stored articles and repairs suspect summaries.
func (b *Backfiller) Run(ctx context.Context, source domain.SourceName) (BackfillStats, error) {
	stats := BackfillStats{Source: source}

	profile, ok := parser.ProfileFor(source)
	if !ok {
		return stats, fmt.Errorf("no markup profile for source %s", source)
	}

	stored, err := b.articles.ListBySource(ctx, source, b.batchSize)
	if err != nil {
		return stats, fmt.Errorf("list articles: %w", err)
	}

	for _, article := range stored {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if article.Summary != "" && !parser.SuspectSummary(article.Summary) {
			continue
		}

		stats.Examined++

		doc, err := b.fetcher.Document(ctx, article.OriginalURL, b.timeout)
		if err != nil {
			stats.Failed++
			b.log().Warn("backfill fetch failed", "source", source, "url", article.OriginalURL, "error", err)
			continue
		}

		repaired := parser.RepairSummary(profile, doc, article.Summary)
		if len([]rune(repaired)) <= len([]rune(article.Summary)) {
			continue
		}

		article.Summary = repaired
		if err := b.articles.Save(ctx, article); err != nil {
			stats.Failed++
			b.log().Warn("backfill save failed", "source", source, "url", article.OriginalURL, "error", err)
			continue
		}
		stats.Repaired++
	}

	b.log().Info("backfill finished", "source", source,
		"examined", stats.Examined, "repaired", stats.Repaired, "failed", stats.Failed)
	return stats, nil
}

func (b *Backfiller) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return slog.Default()
}
