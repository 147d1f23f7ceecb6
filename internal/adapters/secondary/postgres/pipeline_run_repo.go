package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

type pipelineRunRepo struct {
	pool *pgxpool.Pool
}

func NewPipelineRunRepository(pool *pgxpool.Pool) ports.PipelineRunRepository {
	return &pipelineRunRepo{pool: pool}
}

func (r *pipelineRunRepo) Create(ctx context.Context, run *domain.PipelineRun) error {
	eventsJSON, err := json.Marshal(run.Events)
	if err != nil {
		return fmt.Errorf("marshal run events: %w", err)
	}

	query := `
		INSERT INTO pipeline_run
			(id, trigger_reason, status, created_at, updated_at, events)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	_, err = r.pool.Exec(ctx, query,
		run.ID, run.TriggerReason, string(run.Status),
		run.CreatedAt, run.UpdatedAt, eventsJSON,
	)
	if err != nil {
		return fmt.Errorf("create pipeline run: %w", err)
	}
	return nil
}

func (r *pipelineRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	query := `
		SELECT id, trigger_reason, status, created_at, updated_at, events
		FROM pipeline_run
		WHERE id = $1
	`
	var run domain.PipelineRun
	var status string
	var eventsJSON []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.TriggerReason, &status,
		&run.CreatedAt, &run.UpdatedAt, &eventsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get pipeline run: %w", err)
	}
	run.Status = domain.RunStatus(status)
	if err := json.Unmarshal(eventsJSON, &run.Events); err != nil {
		return nil, fmt.Errorf("unmarshal run events: %w", err)
	}
	return &run, nil
}

func (r *pipelineRunRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus) error {
	query := `UPDATE pipeline_run SET status=$1, updated_at=NOW() WHERE id=$2`
	result, err := r.pool.Exec(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("update pipeline run status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *pipelineRunRepo) AppendEvent(ctx context.Context, id uuid.UUID, event domain.StageEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal run event: %w", err)
	}

	query := `
		UPDATE pipeline_run
		SET events = events || $1::jsonb, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.pool.Exec(ctx, query, eventJSON, id)
	if err != nil {
		return fmt.Errorf("append run event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}
