package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/ports"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Connect opens a pooled Postgres connection and verifies it.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// PostgresRepository implements both storage-facing ports on one database.
// The database owns slug generation, publication flags and timestamps; the
// pipeline only ships normalized content through Save.
type PostgresRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

var (
	_ ports.CategoryStore = (*PostgresRepository)(nil)
	_ ports.ArticleStore  = (*PostgresRepository)(nil)
)

// NewPostgresRepository wires an sqlx database handle.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Mappings returns active category mappings for a source, newest first, so
// the first row per section URL is the effective one.
func (r *PostgresRepository) Mappings(ctx context.Context, source domain.SourceName) ([]domain.CategoryMapping, error) {
	query, args, err := r.sb.
		Select("source_name", "section_url", "target_category", "is_active", "updated_at").
		From("category_mappings").
		Where(sq.Eq{"source_name": source, "is_active": true}).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build mappings query: %w", err)
	}

	var mappings []domain.CategoryMapping
	if err := r.db.SelectContext(ctx, &mappings, query, args...); err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	return mappings, nil
}

// BotSetting returns the source's run gate; a missing row means inactive.
func (r *PostgresRepository) BotSetting(ctx context.Context, source domain.SourceName) (domain.BotSetting, error) {
	query, args, err := r.sb.
		Select("source_name", "is_active", "daily_limit").
		From("bot_settings").
		Where(sq.Eq{"source_name": source}).
		ToSql()
	if err != nil {
		return domain.BotSetting{}, fmt.Errorf("build bot setting query: %w", err)
	}

	var setting domain.BotSetting
	if err := r.db.GetContext(ctx, &setting, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BotSetting{SourceName: source}, nil
		}
		return domain.BotSetting{}, fmt.Errorf("query bot setting: %w", err)
	}
	return setting, nil
}

// Find loads the stored article for the identity key, or nil when absent.
func (r *PostgresRepository) Find(ctx context.Context, source domain.SourceName, originalURL string) (*domain.StoredArticle, error) {
	query, args, err := r.articleSelect().
		Where(sq.Eq{"source_name": source, "original_url": originalURL}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find query: %w", err)
	}

	var article domain.StoredArticle
	if err := r.db.GetContext(ctx, &article, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query article: %w", err)
	}
	return &article, nil
}

// Save upserts an article on the (source, original URL) identity key.
func (r *PostgresRepository) Save(ctx context.Context, article domain.StoredArticle) error {
	query, args, err := r.sb.
		Insert("articles").
		Columns("source_name", "original_url", "title", "summary", "body_html", "image_url", "author", "category_slug").
		Values(article.SourceName, article.OriginalURL, article.Title, article.Summary,
			article.BodyHTML, article.ImageURL, article.Author, article.CategorySlug).
		Suffix(`ON CONFLICT (source_name, original_url) DO UPDATE
                SET title = EXCLUDED.title,
                    summary = EXCLUDED.summary,
                    body_html = EXCLUDED.body_html,
                    image_url = EXCLUDED.image_url,
                    author = EXCLUDED.author,
                    category_slug = EXCLUDED.category_slug,
                    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}
	return nil
}

// ListBySource returns the most recently updated articles of a source for
// the backfill pass.
func (r *PostgresRepository) ListBySource(ctx context.Context, source domain.SourceName, limit int) ([]domain.StoredArticle, error) {
	builder := r.articleSelect().
		Where(sq.Eq{"source_name": source}).
		OrderBy("updated_at DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var articles []domain.StoredArticle
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	return articles, nil
}

func (r *PostgresRepository) articleSelect() sq.SelectBuilder {
	return r.sb.
		Select("id", "source_name", "original_url", "title", "summary",
			"body_html", "image_url", "author", "category_slug", "created_at", "updated_at").
		From("articles")
}
