package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
	"model-gate-service/internal/testutil"
)

type evalFixture struct {
	records   *testutil.MockModelRecordRepo
	alias     *testutil.MockAliasRepo
	evals     *testutil.MockEvaluationRepo
	artifacts *testutil.MockArtifactStore
	scorer    *testutil.MockModelScorer
	runs      *testutil.MockPipelineRunRepo
	svc       *EvaluationService
}

func newEvalFixture() *evalFixture {
	f := &evalFixture{
		records:   new(testutil.MockModelRecordRepo),
		alias:     new(testutil.MockAliasRepo),
		evals:     new(testutil.MockEvaluationRepo),
		artifacts: new(testutil.MockArtifactStore),
		scorer:    new(testutil.MockModelScorer),
		runs:      new(testutil.MockPipelineRunRepo),
	}
	f.svc = NewEvaluationService(f.records, f.alias, f.evals, f.artifacts, f.scorer, f.runs)
	return f
}

func candidateRecord(testDatasetRef string) *domain.ModelRecord {
	now := time.Now().UTC()
	return &domain.ModelRecord{
		VersionID:        uuid.New(),
		CreatedAt:        now,
		UpdatedAt:        now,
		StageTag:         domain.StageCandidate,
		ArtifactLocation: "s3://models/candidate/model.joblib",
		LineageRef:       "flow-run-42",
		TestDatasetRef:   testDatasetRef,
	}
}

func championEnv(f *evalFixture, metric float64) *domain.ModelRecord {
	champ := &domain.ModelRecord{
		VersionID:        uuid.New(),
		StageTag:         domain.StageApproved,
		MetricValue:      &metric,
		ArtifactLocation: "s3://models/champion/model.joblib",
		LineageRef:       "flow-run-17",
	}
	f.alias.On("Get", mock.Anything).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion, CurrentVersionID: &champ.VersionID}, nil)
	f.records.On("GetByVersion", mock.Anything, champ.VersionID).Return(champ, nil)
	f.artifacts.On("Exists", mock.Anything, champ.ArtifactLocation).Return(true, nil)
	return champ
}

func TestEvaluationService_Evaluate_BeatsChampion(t *testing.T) {
	f := newEvalFixture()
	cand := candidateRecord("s3://data/test/test.csv")
	champ := championEnv(f, 0.80)

	f.records.On("GetByVersion", mock.Anything, cand.VersionID).Return(cand, nil)
	f.scorer.On("Score", mock.Anything, cand.ArtifactLocation, "s3://data/test/test.csv").
		Return(&ports.ScoreResult{Metric: 0.81, DatasetChecksum: "abc123"}, nil)
	f.scorer.On("Score", mock.Anything, champ.ArtifactLocation, "s3://data/test/test.csv").
		Return(&ports.ScoreResult{Metric: 0.80, DatasetChecksum: "abc123"}, nil)
	f.records.On("Update", mock.Anything, mock.AnythingOfType("*domain.ModelRecord")).Return(nil)
	f.evals.On("Create", mock.Anything, mock.AnythingOfType("*domain.EvaluationResult")).Return(nil)

	result, err := f.svc.Evaluate(context.Background(), cand.VersionID, "s3://data/test/test.csv", 0.005)
	assert.NoError(t, err)
	assert.Equal(t, domain.DecisionApproved, result.Decision)
	assert.Equal(t, 0.81, result.CandidateMetric)
	assert.Equal(t, 0.80, *result.ChampionMetric)
	assert.Equal(t, champ.VersionID, *result.ChampionVersionID)
	assert.Equal(t, domain.StageApproved, cand.StageTag)
	assert.Equal(t, 0.81, *cand.MetricValue)
	f.records.AssertExpectations(t)
	f.evals.AssertExpectations(t)
}

func TestEvaluationService_Evaluate_WithinMargin(t *testing.T) {
	f := newEvalFixture()
	cand := candidateRecord("")
	champ := championEnv(f, 0.80)

	f.records.On("GetByVersion", mock.Anything, cand.VersionID).Return(cand, nil)
	f.scorer.On("Score", mock.Anything, cand.ArtifactLocation, "ds").
		Return(&ports.ScoreResult{Metric: 0.804, DatasetChecksum: "abc123"}, nil)
	f.scorer.On("Score", mock.Anything, champ.ArtifactLocation, "ds").
		Return(&ports.ScoreResult{Metric: 0.80, DatasetChecksum: "abc123"}, nil)
	f.records.On("Update", mock.Anything, mock.AnythingOfType("*domain.ModelRecord")).Return(nil)
	f.evals.On("Create", mock.Anything, mock.AnythingOfType("*domain.EvaluationResult")).Return(nil)

	result, err := f.svc.Evaluate(context.Background(), cand.VersionID, "ds", 0.005)
	assert.NoError(t, err)
	assert.Equal(t, domain.DecisionRejected, result.Decision)
	assert.Equal(t, domain.StageRejected, cand.StageTag)
}

func TestEvaluationService_Evaluate_ExactTieRejects(t *testing.T) {
	f := newEvalFixture()
	cand := candidateRecord("")
	champ := championEnv(f, 0.80)

	// Candidate lands exactly on champion + margin.
	f.records.On("GetByVersion", mock.Anything, cand.VersionID).Return(cand, nil)
	f.scorer.On("Score", mock.Anything, cand.ArtifactLocation, "ds").
		Return(&ports.ScoreResult{Metric: 0.85, DatasetChecksum: "abc123"}, nil)
	f.scorer.On("Score", mock.Anything, champ.ArtifactLocation, "ds").
		Return(&ports.ScoreResult{Metric: 0.80, DatasetChecksum: "abc123"}, nil)
	f.records.On("Update", mock.Anything, mock.AnythingOfType("*domain.ModelRecord")).Return(nil)
	f.evals.On("Create", mock.Anything, mock.AnythingOfType("*domain.EvaluationResult")).Return(nil)

	result, err := f.svc.Evaluate(context.Background(), cand.VersionID, "ds", 0.05)
	assert.NoError(t, err)
	assert.Equal(t, domain.DecisionRejected, result.Decision)
}

func TestEvaluationService_Evaluate_Bootstrap(t *testing.T) {
	f := newEvalFixture()
	cand := candidateRecord("")

	f.alias.On("Get", mock.Anything).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion}, nil)
	f.records.On("GetByVersion", mock.Anything, cand.VersionID).Return(cand, nil)
	f.scorer.On("Score", mock.Anything, cand.ArtifactLocation, "ds").
		Return(&ports.ScoreResult{Metric: 0.75, DatasetChecksum: "abc123"}, nil)
	f.records.On("Update", mock.Anything, mock.AnythingOfType("*domain.ModelRecord")).Return(nil)
	f.evals.On("Create", mock.Anything, mock.AnythingOfType("*domain.EvaluationResult")).Return(nil)

	result, err := f.svc.Evaluate(context.Background(), cand.VersionID, "ds", 0.005)
	assert.NoError(t, err)
	assert.Equal(t, domain.DecisionApproved, result.Decision)
	assert.Nil(t, result.ChampionVersionID)
	assert.Nil(t, result.ChampionMetric)
	f.scorer.AssertNumberOfCalls(t, "Score", 1)
}

func TestEvaluationService_Evaluate_ChampionArtifactMissing(t *testing.T) {
	f := newEvalFixture()
	cand := candidateRecord("")

	champID := uuid.New()
	f.alias.On("Get", mock.Anything).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion, CurrentVersionID: &champID}, nil)
	f.records.On("GetByVersion", mock.Anything, cand.VersionID).Return(cand, nil)
	f.records.On("GetByVersion", mock.Anything, champID).
		Return(&domain.ModelRecord{VersionID: champID, ArtifactLocation: "s3://models/gone"}, nil)
	f.artifacts.On("Exists", mock.Anything, "s3://models/gone").Return(false, nil)

	_, err := f.svc.Evaluate(context.Background(), cand.VersionID, "ds", 0.005)
	assert.ErrorIs(t, err, domain.ErrModelLoad)
	f.scorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluationService_Evaluate_ChecksumMismatch(t *testing.T) {
	f := newEvalFixture()
	cand := candidateRecord("")
	champ := championEnv(f, 0.80)

	f.records.On("GetByVersion", mock.Anything, cand.VersionID).Return(cand, nil)
	f.scorer.On("Score", mock.Anything, cand.ArtifactLocation, "ds").
		Return(&ports.ScoreResult{Metric: 0.81, DatasetChecksum: "abc123"}, nil)
	f.scorer.On("Score", mock.Anything, champ.ArtifactLocation, "ds").
		Return(&ports.ScoreResult{Metric: 0.80, DatasetChecksum: "zzz999"}, nil)

	_, err := f.svc.Evaluate(context.Background(), cand.VersionID, "ds", 0.005)
	assert.ErrorIs(t, err, domain.ErrDataMismatch)
	f.records.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.evals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEvaluationService_Evaluate_DatasetRefMismatch(t *testing.T) {
	f := newEvalFixture()
	cand := candidateRecord("s3://data/test/split-a.csv")

	f.records.On("GetByVersion", mock.Anything, cand.VersionID).Return(cand, nil)

	_, err := f.svc.Evaluate(context.Background(), cand.VersionID, "s3://data/test/split-b.csv", 0.005)
	assert.ErrorIs(t, err, domain.ErrDataMismatch)
}

func TestEvaluationService_Evaluate_NegativeMargin(t *testing.T) {
	f := newEvalFixture()

	_, err := f.svc.Evaluate(context.Background(), uuid.New(), "ds", -0.01)
	assert.ErrorIs(t, err, domain.ErrInvalidMargin)
}

func TestEvaluationService_Evaluate_EmptyDatasetRef(t *testing.T) {
	f := newEvalFixture()

	_, err := f.svc.Evaluate(context.Background(), uuid.New(), "", 0.005)
	assert.ErrorIs(t, err, domain.ErrInvalidTestDatasetRef)
}

func TestEvaluationService_Evaluate_CandidateNotFound(t *testing.T) {
	f := newEvalFixture()
	id := uuid.New()
	f.records.On("GetByVersion", mock.Anything, id).Return(nil, domain.ErrModelNotFound)

	_, err := f.svc.Evaluate(context.Background(), id, "ds", 0.005)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestEvaluationService_Evaluate_RecordsLineageEvent(t *testing.T) {
	f := newEvalFixture()
	cand := candidateRecord("")
	runID := uuid.New()
	cand.LineageRef = runID.String()

	f.alias.On("Get", mock.Anything).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion}, nil)
	f.records.On("GetByVersion", mock.Anything, cand.VersionID).Return(cand, nil)
	f.scorer.On("Score", mock.Anything, cand.ArtifactLocation, "ds").
		Return(&ports.ScoreResult{Metric: 0.75, DatasetChecksum: "abc123"}, nil)
	f.records.On("Update", mock.Anything, mock.AnythingOfType("*domain.ModelRecord")).Return(nil)
	f.evals.On("Create", mock.Anything, mock.AnythingOfType("*domain.EvaluationResult")).Return(nil)
	f.runs.On("AppendEvent", mock.Anything, runID, mock.MatchedBy(func(e domain.StageEvent) bool {
		return e.Stage == "evaluation" && e.Status == domain.RunStatusSucceeded
	})).Return(nil)

	_, err := f.svc.Evaluate(context.Background(), cand.VersionID, "ds", 0.005)
	assert.NoError(t, err)
	f.runs.AssertExpectations(t)
}
