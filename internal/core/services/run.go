package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

// PipelineRunService is the run ledger the external orchestrator reports
// into. The gate only consumes it for lineage; stage sequencing stays
// outside.
type PipelineRunService struct {
	runs ports.PipelineRunRepository
}

func NewPipelineRunService(runs ports.PipelineRunRepository) *PipelineRunService {
	return &PipelineRunService{runs: runs}
}

func (s *PipelineRunService) Create(ctx context.Context, triggerReason string) (*domain.PipelineRun, error) {
	if triggerReason == "" {
		triggerReason = domain.TriggerManual
	}

	now := time.Now().UTC()
	run := &domain.PipelineRun{
		ID:            uuid.New(),
		TriggerReason: triggerReason,
		Status:        domain.RunStatusRunning,
		CreatedAt:     now,
		UpdatedAt:     now,
		Events:        []domain.StageEvent{},
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *PipelineRunService) Get(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	return s.runs.GetByID(ctx, id)
}

func (s *PipelineRunService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.PipelineRun, error) {
	if err := domain.ValidateRunStatus(status); err != nil {
		return nil, err
	}
	if err := s.runs.UpdateStatus(ctx, id, domain.RunStatus(status)); err != nil {
		return nil, err
	}
	return s.runs.GetByID(ctx, id)
}

func (s *PipelineRunService) AppendEvent(ctx context.Context, id uuid.UUID, stage, status, message string) (*domain.PipelineRun, error) {
	if err := domain.ValidateRunStatus(status); err != nil {
		return nil, err
	}
	event := domain.StageEvent{
		Stage:   stage,
		Status:  domain.RunStatus(status),
		Message: message,
		At:      time.Now().UTC(),
	}
	if err := s.runs.AppendEvent(ctx, id, event); err != nil {
		return nil, err
	}
	return s.runs.GetByID(ctx, id)
}
