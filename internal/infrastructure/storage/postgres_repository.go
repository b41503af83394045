package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"math"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"AlignmentScorer/internal/domain"
	"AlignmentScorer/internal/ports"
)

//go:embed schema.sql
var schemaSQL string

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var runColumns = []string{
	"id",
	"started_at",
	"finished_at",
	"metric",
	"total_pairs",
	"scored_pairs",
	"coverage",
	"total_score",
	"mean_similarity",
	"median_similarity",
	"stddev_similarity",
	"unmappable_1",
	"unmappable_2",
	"high_quality_pairs",
	"similarity_verdict",
	"coverage_verdict",
}

var pairColumns = []string{
	"run_id",
	"position",
	"protein_1",
	"protein_2",
	"mapped_1",
	"mapped_2",
	"terms_1",
	"terms_2",
	"common",
	"union_size",
	"similarity",
	"reason",
}

// PostgresRepository persists scoring runs and their pair scores into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables when they are missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun stores the run header and bulk-copies its pair scores in one
// transaction.
func (r *PostgresRepository) SaveRun(ctx context.Context, run domain.RunRecord) (err error) {
	if r.db == nil {
		return nil
	}

	query, args, err := insertRunQuery(run)
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("pair_scores", pairColumns...))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	for _, o := range run.Outcomes {
		if _, err = stmt.ExecContext(ctx, pairValues(run, o)...); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy pair %d: %w", o.Pair.Index, err)
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush copy: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent run headers, newest first.
func (r *PostgresRepository) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := listRunsQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("build run listing: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var result []domain.RunSummary
	for rows.Next() {
		var (
			s    domain.RunSummary
			mean sql.NullFloat64
		)
		if err := rows.Scan(
			&s.ID,
			&s.FinishedAt,
			&s.Metric,
			&s.TotalPairs,
			&s.ScoredPairs,
			&s.Coverage,
			&mean,
			&s.Unmappable1,
			&s.Unmappable2,
			&s.SimilarityVerdict,
			&s.CoverageVerdict,
		); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if mean.Valid {
			v := mean.Float64
			s.MeanSimilarity = &v
		}
		result = append(result, s)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

func insertRunQuery(run domain.RunRecord) (string, []interface{}, error) {
	rep := run.Report
	return psql.Insert("alignment_runs").
		Columns(runColumns...).
		Values(
			run.ID.String(),
			run.StartedAt,
			run.FinishedAt,
			rep.Metric,
			rep.TotalPairs,
			rep.ScoredPairs,
			rep.Coverage,
			rep.TotalScore,
			nullable(rep.MeanSimilarity),
			nullable(rep.Median),
			nullable(rep.StdDev),
			rep.Unmappable1,
			rep.Unmappable2,
			rep.HighQualityPairs,
			string(rep.SimilarityVerdict),
			string(rep.CoverageVerdict),
		).
		ToSql()
}

func listRunsQuery(limit int) (string, []interface{}, error) {
	q := psql.Select(
		"id",
		"finished_at",
		"metric",
		"total_pairs",
		"scored_pairs",
		"coverage",
		"mean_similarity",
		"unmappable_1",
		"unmappable_2",
		"similarity_verdict",
		"coverage_verdict",
	).
		From("alignment_runs").
		OrderBy("finished_at DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q.ToSql()
}

func pairValues(run domain.RunRecord, o domain.PairOutcome) []interface{} {
	var similarity, reason interface{}
	if o.Scored {
		similarity = o.Similarity
	} else {
		reason = string(o.Reason)
	}
	return []interface{}{
		run.ID.String(),
		o.Pair.Index,
		string(o.Pair.Species1),
		string(o.Pair.Species2),
		optional(string(o.Species1.Mapped)),
		optional(string(o.Species2.Mapped)),
		o.Species1.TermCount,
		o.Species2.TermCount,
		o.Common,
		o.Union,
		similarity,
		reason,
	}
}

// nullable maps the undefined-statistic NaN onto SQL NULL.
func nullable(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func optional(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
