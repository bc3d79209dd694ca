package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/infrastructure/parser"
	"NewsHarvester/internal/ports"
)

// SourcePlan names a publisher and the section listing URLs to crawl.
type SourcePlan struct {
	Source   domain.SourceName
	Sections []string
}

// RunnerDeps wires the driven adapters into the ingestion runner.
type RunnerDeps struct {
	Fetcher        ports.DocumentFetcher
	Categories     ports.CategoryStore
	Articles       ports.ArticleStore
	Logger         *slog.Logger
	ListingTimeout time.Duration
	ArticleTimeout time.Duration
}

// Runner executes ingestion passes: one sequential, paced run per source.
type Runner struct {
	fetcher        ports.DocumentFetcher
	categories     ports.CategoryStore
	articles       ports.ArticleStore
	logger         *slog.Logger
	listingTimeout time.Duration
	articleTimeout time.Duration
}

// NewRunner constructs the orchestration component.
func NewRunner(deps RunnerDeps) *Runner {
	return &Runner{
		fetcher:        deps.Fetcher,
		categories:     deps.Categories,
		articles:       deps.Articles,
		logger:         deps.Logger,
		listingTimeout: deps.ListingTimeout,
		articleTimeout: deps.ArticleTimeout,
	}
}

// RunAll processes every planned source. Sources run concurrently with
// respect to each other since they hit different origins; each source's own
// run stays strictly sequential.
func (r *Runner) RunAll(ctx context.Context, plans []SourcePlan) []domain.RunStats {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		stats []domain.RunStats
	)

	for _, plan := range plans {
		wg.Add(1)
		go func(plan SourcePlan) {
			defer wg.Done()

			runStats, err := r.RunSource(ctx, plan.Source, plan.Sections)
			if err != nil {
				r.log().Error("source run aborted", "source", plan.Source, "error", err)
			}
			r.log().Info("source run finished",
				"source", plan.Source,
				"attempted", runStats.Attempted,
				"created", runStats.Created,
				"updated", runStats.Updated,
				"skipped_duplicate", runStats.SkippedDuplicate,
				"skipped_no_category", runStats.SkippedNoCategory,
				"failed", runStats.Failed)

			mu.Lock()
			stats = append(stats, runStats)
			mu.Unlock()
		}(plan)
	}

	wg.Wait()
	return stats
}

// RunSource performs one ingestion pass for a source: discovery, then a
// sequential fetch+extract+reconcile per link. Per-link failures are counted
// and skipped; only a cancelled context or a collaborator read failure
// before the loop aborts the run.
func (r *Runner) RunSource(ctx context.Context, source domain.SourceName, sections []string) (domain.RunStats, error) {
	stats := domain.RunStats{Source: source}

	setting, err := r.categories.BotSetting(ctx, source)
	if err != nil {
		return stats, fmt.Errorf("load bot setting: %w", err)
	}
	if !setting.IsActive {
		r.log().Info("source inactive, skipping run", "source", source)
		return stats, nil
	}

	profile, ok := parser.ProfileFor(source)
	if !ok {
		return stats, fmt.Errorf("no markup profile for source %s", source)
	}

	mappings, err := r.categories.Mappings(ctx, source)
	if err != nil {
		return stats, fmt.Errorf("load category mappings: %w", err)
	}

	for _, section := range sections {
		category := EffectiveCategory(mappings, section)

		listing, err := r.fetcher.Document(ctx, section, r.listingTimeout)
		if err != nil {
			r.log().Warn("listing fetch failed", "source", source, "section", section, "error", err)
			continue
		}

		links := parser.DiscoverLinks(profile, listing)
		r.log().Debug("links discovered", "source", source, "section", section, "count", len(links))

		for _, link := range links {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			if setting.DailyLimit > 0 && stats.Succeeded() >= setting.DailyLimit {
				r.log().Info("daily limit reached", "source", source, "limit", setting.DailyLimit)
				return stats, nil
			}

			stats.Attempted++
			outcome, err := r.processLink(ctx, profile, section, category, link)
			if err != nil {
				stats.Failed++
				r.log().Warn("link skipped", "source", source, "url", link, "error", err)
				continue
			}
			stats.Record(outcome)
		}
	}

	return stats, nil
}

func (r *Runner) processLink(ctx context.Context, profile parser.Profile, section, category, link string) (domain.Outcome, error) {
	doc, err := r.fetcher.Document(ctx, link, r.articleTimeout)
	if err != nil {
		return "", err
	}

	candidate, err := parser.Extract(profile, doc, link)
	if err != nil {
		return "", err
	}
	candidate.SectionURL = section
	candidate.TargetCategory = category

	if category == "" {
		return domain.OutcomeSkippedNoCategory, nil
	}

	existing, err := r.articles.Find(ctx, candidate.SourceName, candidate.OriginalURL)
	if err != nil {
		return "", fmt.Errorf("find existing: %w", err)
	}

	merged, outcome := Reconcile(existing, candidate)
	if outcome == domain.OutcomeCreated || outcome == domain.OutcomeUpdated {
		if err := r.articles.Save(ctx, merged); err != nil {
			return "", fmt.Errorf("save article: %w", err)
		}
	}

	return outcome, nil
}

func (r *Runner) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
