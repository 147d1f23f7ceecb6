package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

// MockModelRecordRepo is a mock of ModelRecordRepository.
type MockModelRecordRepo struct {
	mock.Mock
}

func (m *MockModelRecordRepo) Create(ctx context.Context, record *domain.ModelRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockModelRecordRepo) GetByVersion(ctx context.Context, versionID uuid.UUID) (*domain.ModelRecord, error) {
	args := m.Called(ctx, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelRecord), args.Error(1)
}

func (m *MockModelRecordRepo) Update(ctx context.Context, record *domain.ModelRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockModelRecordRepo) List(ctx context.Context, filter ports.ModelListFilter) ([]*domain.ModelRecord, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.ModelRecord), args.Int(1), args.Error(2)
}

// MockAliasRepo is a mock of AliasRepository.
type MockAliasRepo struct {
	mock.Mock
}

func (m *MockAliasRepo) Get(ctx context.Context) (*domain.ProductionAlias, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductionAlias), args.Error(1)
}

func (m *MockAliasRepo) CompareAndSwap(ctx context.Context, old, new *uuid.UUID) (*domain.ProductionAlias, error) {
	args := m.Called(ctx, old, new)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductionAlias), args.Error(1)
}

// MockEvaluationRepo is a mock of EvaluationRepository.
type MockEvaluationRepo struct {
	mock.Mock
}

func (m *MockEvaluationRepo) Create(ctx context.Context, result *domain.EvaluationResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockEvaluationRepo) GetLatest(ctx context.Context) (*domain.EvaluationResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EvaluationResult), args.Error(1)
}

func (m *MockEvaluationRepo) ListByCandidate(ctx context.Context, candidateVersionID uuid.UUID) ([]*domain.EvaluationResult, error) {
	args := m.Called(ctx, candidateVersionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EvaluationResult), args.Error(1)
}

func (m *MockEvaluationRepo) List(ctx context.Context, limit, offset int) ([]*domain.EvaluationResult, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.EvaluationResult), args.Int(1), args.Error(2)
}

// MockDriftReportRepo is a mock of DriftReportRepository.
type MockDriftReportRepo struct {
	mock.Mock
}

func (m *MockDriftReportRepo) Create(ctx context.Context, report *domain.DriftReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockDriftReportRepo) GetByKey(ctx context.Context, windowDate, referenceRef string) (*domain.DriftReport, error) {
	args := m.Called(ctx, windowDate, referenceRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DriftReport), args.Error(1)
}

func (m *MockDriftReportRepo) GetLatest(ctx context.Context) (*domain.DriftReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DriftReport), args.Error(1)
}

func (m *MockDriftReportRepo) List(ctx context.Context, limit, offset int) ([]*domain.DriftReport, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.DriftReport), args.Int(1), args.Error(2)
}

// MockPipelineRunRepo is a mock of PipelineRunRepository.
type MockPipelineRunRepo struct {
	mock.Mock
}

func (m *MockPipelineRunRepo) Create(ctx context.Context, run *domain.PipelineRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockPipelineRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineRun), args.Error(1)
}

func (m *MockPipelineRunRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPipelineRunRepo) AppendEvent(ctx context.Context, id uuid.UUID, event domain.StageEvent) error {
	args := m.Called(ctx, id, event)
	return args.Error(0)
}

// MockArtifactStore is a mock of ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Exists(ctx context.Context, location string) (bool, error) {
	args := m.Called(ctx, location)
	return args.Bool(0), args.Error(1)
}

func (m *MockArtifactStore) ExportToProduction(ctx context.Context, location string, versionID uuid.UUID, metadata map[string]string) (string, error) {
	args := m.Called(ctx, location, versionID, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) PutDiagnostics(ctx context.Context, key string, payload []byte) error {
	args := m.Called(ctx, key, payload)
	return args.Error(0)
}

// MockDatasetReader is a mock of DatasetReader.
type MockDatasetReader struct {
	mock.Mock
}

func (m *MockDatasetReader) LoadReference(ctx context.Context, ref string) (*domain.Dataset, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockDatasetReader) LoadWindow(ctx context.Context, date string) (*domain.Dataset, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

// MockModelScorer is a mock of ModelScorer.
type MockModelScorer struct {
	mock.Mock
}

func (m *MockModelScorer) Score(ctx context.Context, artifactLocation, testDatasetRef string) (*ports.ScoreResult, error) {
	args := m.Called(ctx, artifactLocation, testDatasetRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ScoreResult), args.Error(1)
}

// MockRetrainTrigger is a mock of RetrainTrigger.
type MockRetrainTrigger struct {
	mock.Mock
}

func (m *MockRetrainTrigger) TriggerRetraining(ctx context.Context, req ports.RetrainRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
