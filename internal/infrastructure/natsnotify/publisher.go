package natsnotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"AlignmentScorer/internal/domain"
	"AlignmentScorer/internal/ports"
)

const flushTimeout = 5 * time.Second

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
}

// Publisher sends a JSON run summary to a NATS subject after every run.
type Publisher struct {
	conn    conn
	subject string
	close   func()
	logger  *slog.Logger
}

var _ ports.Notifier = (*Publisher)(nil)

// Connect dials the server and returns a publisher bound to subject.
func Connect(url, subject string, log *slog.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("alignment-scorer"),
		nats.Timeout(flushTimeout),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	p := newPublisher(nc, subject, log)
	p.close = func() { _ = nc.Drain() }
	return p, nil
}

func newPublisher(c conn, subject string, log *slog.Logger) *Publisher {
	return &Publisher{conn: c, subject: subject, logger: log}
}

// PublishRun publishes the summary and waits for the server to ack the flush.
// The rendered text is not sent; subscribers get structured data.
func (p *Publisher) PublishRun(ctx context.Context, run domain.RunRecord, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := Payload(run)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	if err := p.conn.FlushTimeout(flushTimeout); err != nil {
		return fmt.Errorf("flush %s: %w", p.subject, err)
	}
	if p.logger != nil {
		p.logger.Debug("run summary published", "subject", p.subject, "run", run.ID, "bytes", len(payload))
	}
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p.close != nil {
		p.close()
	}
}

// message is the wire form of a run summary.
type message struct {
	RunID             string         `json:"run_id"`
	StartedAt         time.Time      `json:"started_at"`
	FinishedAt        time.Time      `json:"finished_at"`
	Metric            string         `json:"metric"`
	TotalPairs        int            `json:"total_pairs"`
	ScoredPairs       int            `json:"scored_pairs"`
	Coverage          float64        `json:"coverage"`
	MeanSimilarity    *float64       `json:"mean_similarity"`
	TotalScore        float64        `json:"total_score"`
	Unmappable1       int            `json:"unmappable_species1"`
	Unmappable2       int            `json:"unmappable_species2"`
	HighQualityPairs  int            `json:"high_quality_pairs"`
	Unscored          map[string]int `json:"unscored"`
	SimilarityVerdict string         `json:"similarity_verdict"`
	CoverageVerdict   string         `json:"coverage_verdict"`
}

// Payload encodes the run summary. An undefined mean is encoded as null
// since JSON has no NaN.
func Payload(run domain.RunRecord) ([]byte, error) {
	r := run.Report
	msg := message{
		RunID:             run.ID.String(),
		StartedAt:         run.StartedAt.UTC(),
		FinishedAt:        run.FinishedAt.UTC(),
		Metric:            r.Metric,
		TotalPairs:        r.TotalPairs,
		ScoredPairs:       r.ScoredPairs,
		Coverage:          r.Coverage,
		TotalScore:        r.TotalScore,
		Unmappable1:       r.Unmappable1,
		Unmappable2:       r.Unmappable2,
		HighQualityPairs:  r.HighQualityPairs,
		Unscored:          make(map[string]int, len(domain.Reasons)),
		SimilarityVerdict: string(r.SimilarityVerdict),
		CoverageVerdict:   string(r.CoverageVerdict),
	}
	if r.HasMean() {
		mean := r.MeanSimilarity
		msg.MeanSimilarity = &mean
	}
	for _, reason := range domain.Reasons {
		msg.Unscored[string(reason)] = r.Reasons[reason]
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode run summary: %w", err)
	}
	return data, nil
}
