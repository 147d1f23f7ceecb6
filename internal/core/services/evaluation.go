package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

// EvaluationService is the acceptance gate: it scores a candidate against
// the current champion on the identical test set and renders the
// approve/reject verdict. Evaluation is deterministic given fixed inputs,
// so failures are surfaced, never retried.
type EvaluationService struct {
	records   ports.ModelRecordRepository
	alias     ports.AliasRepository
	evals     ports.EvaluationRepository
	artifacts ports.ArtifactStore
	scorer    ports.ModelScorer
	runs      ports.PipelineRunRepository
}

func NewEvaluationService(
	records ports.ModelRecordRepository,
	alias ports.AliasRepository,
	evals ports.EvaluationRepository,
	artifacts ports.ArtifactStore,
	scorer ports.ModelScorer,
	runs ports.PipelineRunRepository,
) *EvaluationService {
	return &EvaluationService{
		records:   records,
		alias:     alias,
		evals:     evals,
		artifacts: artifacts,
		scorer:    scorer,
		runs:      runs,
	}
}

// Evaluate renders the acceptance decision for a candidate.
//
// The candidate is approved when no champion exists (bootstrap case) or
// when its metric strictly exceeds champion metric + margin; a tie at
// exactly the margin rejects. The candidate record is tagged with the
// verdict; the champion record is never mutated.
func (s *EvaluationService) Evaluate(ctx context.Context, candidateID uuid.UUID, testDatasetRef string, margin float64) (*domain.EvaluationResult, error) {
	if margin < 0 {
		return nil, domain.ErrInvalidMargin
	}
	if testDatasetRef == "" {
		return nil, domain.ErrInvalidTestDatasetRef
	}

	candidate, err := s.records.GetByVersion(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	result, err := s.evaluate(ctx, candidate, testDatasetRef, margin)
	if err != nil {
		s.recordStage(ctx, candidate.LineageRef, "evaluation", domain.RunStatusFailed, err.Error())
		return nil, err
	}

	s.recordStage(ctx, candidate.LineageRef, "evaluation", domain.RunStatusSucceeded,
		fmt.Sprintf("decision=%s candidate_metric=%.4f", result.Decision, result.CandidateMetric))
	return result, nil
}

func (s *EvaluationService) evaluate(ctx context.Context, candidate *domain.ModelRecord, testDatasetRef string, margin float64) (*domain.EvaluationResult, error) {
	// The training stage records the held-out set it produced; evaluating
	// against any other set breaks the comparison.
	if candidate.TestDatasetRef != "" && candidate.TestDatasetRef != testDatasetRef {
		return nil, fmt.Errorf("%w: candidate was split against %s", domain.ErrDataMismatch, candidate.TestDatasetRef)
	}

	champion, err := s.resolveChampion(ctx)
	if err != nil {
		return nil, err
	}

	candScore, err := s.scorer.Score(ctx, candidate.ArtifactLocation, testDatasetRef)
	if err != nil {
		return nil, fmt.Errorf("score candidate %s: %w", candidate.VersionID, err)
	}

	var championMetric *float64
	var championVersion *uuid.UUID
	approved := true
	if champion != nil {
		champScore, err := s.scorer.Score(ctx, champion.ArtifactLocation, testDatasetRef)
		if err != nil {
			return nil, fmt.Errorf("%w: score champion %s: %v", domain.ErrModelLoad, champion.VersionID, err)
		}
		if champScore.DatasetChecksum != candScore.DatasetChecksum {
			return nil, domain.ErrDataMismatch
		}

		championMetric = &champScore.Metric
		championVersion = &champion.VersionID
		// Strict inequality: a tie at exactly champion + margin rejects.
		approved = candScore.Metric > champScore.Metric+margin

		log.WithFields(log.Fields{
			"candidate_metric": candScore.Metric,
			"champion_metric":  champScore.Metric,
			"margin":           margin,
		}).Info("scored candidate against champion")
	} else {
		log.WithField("candidate_metric", candScore.Metric).
			Info("no production model found, accepting candidate by default")
	}

	decision := domain.DecisionRejected
	stage := domain.StageRejected
	if approved {
		decision = domain.DecisionApproved
		stage = domain.StageApproved
	}

	now := time.Now().UTC()
	candidate.StageTag = stage
	candidate.MetricValue = &candScore.Metric
	candidate.UpdatedAt = now
	if err := s.records.Update(ctx, candidate); err != nil {
		return nil, fmt.Errorf("tag candidate %s: %w", candidate.VersionID, err)
	}

	result := &domain.EvaluationResult{
		ID:                  uuid.New(),
		CandidateVersionID:  candidate.VersionID,
		ChampionVersionID:   championVersion,
		CandidateMetric:     candScore.Metric,
		ChampionMetric:      championMetric,
		ThresholdMargin:     margin,
		Decision:            decision,
		TestDatasetRef:      testDatasetRef,
		TestDatasetChecksum: candScore.DatasetChecksum,
		CreatedAt:           now,
	}
	if err := s.evals.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("persist evaluation result: %w", err)
	}

	return result, nil
}

// resolveChampion loads the current alias holder, verifying its artifact
// is retrievable. A set alias with an unreadable bundle is fatal and must
// not degrade to the bootstrap path.
func (s *EvaluationService) resolveChampion(ctx context.Context) (*domain.ModelRecord, error) {
	alias, err := s.alias.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read production alias: %w", err)
	}
	if alias.CurrentVersionID == nil {
		return nil, nil
	}

	champion, err := s.records.GetByVersion(ctx, *alias.CurrentVersionID)
	if err != nil {
		return nil, fmt.Errorf("%w: record %s: %v", domain.ErrModelLoad, alias.CurrentVersionID, err)
	}

	ok, err := s.artifacts.Exists(ctx, champion.ArtifactLocation)
	if err != nil {
		return nil, fmt.Errorf("%w: probe %s: %v", domain.ErrModelLoad, champion.ArtifactLocation, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: artifact missing at %s", domain.ErrModelLoad, champion.ArtifactLocation)
	}

	return champion, nil
}

func (s *EvaluationService) Latest(ctx context.Context) (*domain.EvaluationResult, error) {
	return s.evals.GetLatest(ctx)
}

func (s *EvaluationService) List(ctx context.Context, limit, offset int) ([]*domain.EvaluationResult, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.evals.List(ctx, limit, offset)
}

func (s *EvaluationService) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*domain.EvaluationResult, error) {
	return s.evals.ListByCandidate(ctx, candidateID)
}

// recordStage appends a gate event to the run named by lineageRef.
// Lineage bookkeeping never masks the gate outcome, so failures are only
// logged.
func (s *EvaluationService) recordStage(ctx context.Context, lineageRef, stage string, status domain.RunStatus, message string) {
	runID, err := uuid.Parse(lineageRef)
	if err != nil {
		return
	}
	event := domain.StageEvent{Stage: stage, Status: status, Message: message, At: time.Now().UTC()}
	if err := s.runs.AppendEvent(ctx, runID, event); err != nil {
		log.WithError(err).WithField("run_id", runID).Warn("record stage event failed")
	}
}
