package ports

import (
	"context"
	"time"

	"AlignmentScorer/internal/domain"
)

// InputSource loads and parses the five input tables of a run.
type InputSource interface {
	Load(ctx context.Context) (domain.Inputs, error)
}

// InputLister exposes the concrete files an InputSource reads, for watching.
type InputLister interface {
	InputPaths() ([]string, error)
}

// RunRepository persists scoring runs for history and comparison.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
}

// Exporter writes a file artefact (HTML report, pair table) for a run.
type Exporter interface {
	Export(ctx context.Context, run domain.RunRecord) error
}

// Notifier streams a finished run to Telegram, NATS or other channels.
type Notifier interface {
	PublishRun(ctx context.Context, run domain.RunRecord, rendered string) error
}

// RunObserver records run metrics.
type RunObserver interface {
	ObserveRun(run domain.RunRecord, elapsed time.Duration) error
}

// Trigger controls when pipelines execute again.
type Trigger interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
