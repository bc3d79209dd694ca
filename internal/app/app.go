package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"NewsHarvester/internal/config"
	"NewsHarvester/internal/domain"
	"NewsHarvester/internal/infrastructure/fetch"
	"NewsHarvester/internal/infrastructure/parser"
	"NewsHarvester/internal/infrastructure/scheduler"
	"NewsHarvester/internal/infrastructure/storage"
	"NewsHarvester/internal/logging"
	"NewsHarvester/internal/usecase"
)

// Application wires config to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	db         *sqlx.DB
	runner     *usecase.Runner
	backfiller *usecase.Backfiller
	scheduler  *usecase.Scheduler
	plans      []usecase.SourcePlan
}

// New builds a runnable application instance, connecting to storage.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Connect(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}
	repository := storage.NewPostgresRepository(db)

	pacer := fetch.NewPacer(cfg.Fetch.RequestInterval.Std())
	fetcher := fetch.NewClient(nil, pacer, cfg.Fetch.UserAgent)

	runner := usecase.NewRunner(usecase.RunnerDeps{
		Fetcher:        fetcher,
		Categories:     repository,
		Articles:       repository,
		Logger:         baseLogger.With("component", "runner"),
		ListingTimeout: cfg.Fetch.ListingTimeout.Std(),
		ArticleTimeout: cfg.Fetch.ArticleTimeout.Std(),
	})

	backfiller := usecase.NewBackfiller(
		fetcher,
		repository,
		baseLogger.With("component", "backfill"),
		cfg.Fetch.ArticleTimeout.Std(),
		cfg.Backfill.BatchSize,
	)

	app := &Application{
		cfg:        cfg,
		logger:     baseLogger,
		db:         db,
		runner:     runner,
		backfiller: backfiller,
		plans:      buildPlans(cfg.Sources, baseLogger),
	}

	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
	app.scheduler = usecase.NewScheduler(driver, app.runPass)

	return app, nil
}

// Run executes a single pass when no cron expression is configured,
// otherwise runs on schedule until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.cfg.Scheduler.CronExpression == "" {
		a.runPass(ctx)
		return nil
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}

// Close releases the storage connection.
func (a *Application) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *Application) runPass(ctx context.Context) {
	a.runner.RunAll(ctx, a.plans)

	if !a.cfg.Backfill.Enabled {
		return
	}
	for _, plan := range a.plans {
		if _, err := a.backfiller.Run(ctx, plan.Source); err != nil {
			a.logger.Error("backfill aborted", "source", plan.Source, "error", err)
		}
	}
}

func buildPlans(sources []config.SourceConfig, logger *slog.Logger) []usecase.SourcePlan {
	plans := make([]usecase.SourcePlan, 0, len(sources))
	for _, src := range sources {
		name := domain.SourceName(src.Name)
		if _, ok := parser.ProfileFor(name); !ok {
			logger.Warn("unknown source in config, skipping", "source", src.Name)
			continue
		}
		plans = append(plans, usecase.SourcePlan{Source: name, Sections: src.Sections})
	}
	return plans
}
