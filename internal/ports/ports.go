package ports

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsHarvester/internal/domain"
)

// DocumentFetcher retrieves and parses a single page, pacing requests
// per origin. Implementations return a typed error on any fetch failure.
type DocumentFetcher interface {
	Document(ctx context.Context, rawURL string, timeout time.Duration) (*goquery.Document, error)
}

// CategoryStore exposes the read-only configuration owned by the
// surrounding system: section-to-category mappings and per-source gates.
type CategoryStore interface {
	Mappings(ctx context.Context, source domain.SourceName) ([]domain.CategoryMapping, error)
	BotSetting(ctx context.Context, source domain.SourceName) (domain.BotSetting, error)
}

// ArticleStore is the sole persistence boundary of the pipeline.
// Save is an idempotent upsert keyed by (source, original URL).
type ArticleStore interface {
	Find(ctx context.Context, source domain.SourceName, originalURL string) (*domain.StoredArticle, error)
	Save(ctx context.Context, article domain.StoredArticle) error
	ListBySource(ctx context.Context, source domain.SourceName, limit int) ([]domain.StoredArticle, error)
}

// Scheduler controls when ingestion passes execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
