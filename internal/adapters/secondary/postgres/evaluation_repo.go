package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

type evaluationRepo struct {
	pool *pgxpool.Pool
}

func NewEvaluationRepository(pool *pgxpool.Pool) ports.EvaluationRepository {
	return &evaluationRepo{pool: pool}
}

func (r *evaluationRepo) Create(ctx context.Context, result *domain.EvaluationResult) error {
	query := `
		INSERT INTO evaluation_result
			(id, candidate_version_id, champion_version_id, candidate_metric,
			 champion_metric, threshold_margin, decision, test_dataset_ref,
			 test_dataset_checksum, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.pool.Exec(ctx, query,
		result.ID, result.CandidateVersionID, result.ChampionVersionID,
		result.CandidateMetric, result.ChampionMetric, result.ThresholdMargin,
		string(result.Decision), result.TestDatasetRef,
		result.TestDatasetChecksum, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create evaluation result: %w", err)
	}
	return nil
}

const evaluationColumns = `
	id, candidate_version_id, champion_version_id, candidate_metric,
	champion_metric, threshold_margin, decision, test_dataset_ref,
	test_dataset_checksum, created_at
`

func (r *evaluationRepo) GetLatest(ctx context.Context) (*domain.EvaluationResult, error) {
	query := "SELECT " + evaluationColumns + " FROM evaluation_result ORDER BY created_at DESC LIMIT 1"
	result, err := scanEvaluation(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("get latest evaluation result: %w", err)
	}
	return result, nil
}

func (r *evaluationRepo) ListByCandidate(ctx context.Context, candidateVersionID uuid.UUID) ([]*domain.EvaluationResult, error) {
	query := "SELECT " + evaluationColumns + ` FROM evaluation_result
		WHERE candidate_version_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, candidateVersionID)
	if err != nil {
		return nil, fmt.Errorf("list evaluation results by candidate: %w", err)
	}
	defer rows.Close()
	return collectEvaluations(rows)
}

func (r *evaluationRepo) List(ctx context.Context, limit, offset int) ([]*domain.EvaluationResult, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM evaluation_result").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count evaluation results: %w", err)
	}

	query := "SELECT " + evaluationColumns + ` FROM evaluation_result
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list evaluation results: %w", err)
	}
	defer rows.Close()

	results, err := collectEvaluations(rows)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func collectEvaluations(rows pgx.Rows) ([]*domain.EvaluationResult, error) {
	results := []*domain.EvaluationResult{}
	for rows.Next() {
		result, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func scanEvaluation(row pgx.Row) (*domain.EvaluationResult, error) {
	var result domain.EvaluationResult
	var decision string
	err := row.Scan(
		&result.ID, &result.CandidateVersionID, &result.ChampionVersionID,
		&result.CandidateMetric, &result.ChampionMetric, &result.ThresholdMargin,
		&decision, &result.TestDatasetRef, &result.TestDatasetChecksum,
		&result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	result.Decision = domain.Decision(decision)
	return &result, nil
}
