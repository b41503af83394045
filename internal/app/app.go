package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"AlignmentScorer/internal/config"
	"AlignmentScorer/internal/domain"
	"AlignmentScorer/internal/infrastructure/loader"
	"AlignmentScorer/internal/infrastructure/metrics"
	"AlignmentScorer/internal/infrastructure/natsnotify"
	"AlignmentScorer/internal/infrastructure/storage"
	"AlignmentScorer/internal/infrastructure/telegram"
	"AlignmentScorer/internal/infrastructure/watcher"
	"AlignmentScorer/internal/logging"
	"AlignmentScorer/internal/ports"
	"AlignmentScorer/internal/report"
	"AlignmentScorer/internal/scoring"
	"AlignmentScorer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	source     *loader.FileSource
	pipeline   *usecase.Pipeline
	repository ports.RunRepository
	closers    []func()
}

// New validates cfg and builds every adapter it enables. stdout receives
// the text report unless output.reportPath is set.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, stdout io.Writer) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	metric, err := scoring.ParseMetric(cfg.Scoring.Metric)
	if err != nil {
		return nil, err
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	a.source = loader.NewFileSource(loader.DefaultRegistry(), cfg.Inputs, baseLogger.With("component", "loader"))

	var exporters []ports.Exporter
	reportOut := stdout
	if cfg.Output.ReportPath != "" {
		exporters = append(exporters, report.NewTextExporter(cfg.Output.ReportPath))
		reportOut = nil
	}
	if cfg.Output.HTMLPath != "" {
		exporters = append(exporters, report.NewHTMLExporter(cfg.Output.HTMLPath))
	}
	if cfg.Output.PairsPath != "" {
		exporters = append(exporters, report.NewPairsExporter(cfg.Output.PairsPath))
	}

	var observer ports.RunObserver
	if cfg.Output.MetricsTextfile != "" {
		observer = metrics.NewTextfileObserver(metrics.NewRecorder(), cfg.Output.MetricsTextfile)
	}

	if cfg.Database.DSN != "" {
		repo, db, err := openRepository(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.repository = repo
		a.closers = append(a.closers, func() { _ = db.Close() })
	}

	notifiers, err := a.notifiers(baseLogger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     a.source,
		Repository: a.repository,
		Exporters:  exporters,
		Notifiers:  notifiers,
		Observer:   observer,
		Report:     reportOut,
		Scoring:    scoring.Options{Metric: metric, Workers: cfg.Scoring.Workers},
		Policy:     cfg.Quality.Policy(),
		Logger:     baseLogger.With("component", "pipeline"),
	})
	return a, nil
}

func openRepository(ctx context.Context, dsn string) (*storage.PostgresRepository, *sql.DB, error) {
	db, err := storage.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}

func (a *Application) notifiers(logger *slog.Logger) ([]ports.Notifier, error) {
	var out []ports.Notifier
	tg := a.cfg.Notifications.Telegram
	if tg.BotToken != "" {
		out = append(out, telegram.NewNotifier(tg.BotToken, tg.ChatID))
	}
	nc := a.cfg.Notifications.NATS
	if nc.URL != "" {
		pub, err := natsnotify.Connect(nc.URL, nc.Subject, logger.With("component", "nats"))
		if err != nil {
			return nil, err
		}
		out = append(out, pub)
		a.closers = append(a.closers, pub.Close)
	}
	return out, nil
}

// Run performs a single scoring run.
func (a *Application) Run(ctx context.Context) (domain.RunRecord, error) {
	return a.pipeline.Run(ctx)
}

// Watch scores once, then again on every input change, until ctx ends.
func (a *Application) Watch(ctx context.Context) error {
	paths, err := a.source.InputPaths()
	if err != nil {
		return fmt.Errorf("resolve inputs: %w", err)
	}
	trigger := watcher.NewFileTrigger(paths, a.cfg.Watch.Delay(), a.logger.With("component", "watcher"))
	scheduler := usecase.NewScheduler(trigger, a.pipeline, a.logger.With("component", "scheduler"))

	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return scheduler.Stop(context.WithoutCancel(ctx))
}

// Runs lists stored runs, newest first. It needs only the database
// section, so it works without any inputs configured.
func Runs(ctx context.Context, cfg config.Config, limit int) ([]domain.RunSummary, error) {
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("run history needs database.dsn")
	}
	repo, db, err := openRepository(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return repo.ListRuns(ctx, limit)
}

// Close releases connections in reverse order of creation.
func (a *Application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
