package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

// RegistryService owns the decision metadata layered on top of the
// artifact store: model records and the champion alias resolution.
type RegistryService struct {
	records ports.ModelRecordRepository
	alias   ports.AliasRepository
}

func NewRegistryService(records ports.ModelRecordRepository, alias ports.AliasRepository) *RegistryService {
	return &RegistryService{records: records, alias: alias}
}

// RegisterCandidate creates a new ModelRecord in the candidate stage.
// metricValue is the training stage's own metric and may be nil; the
// evaluation gate overwrites it with the held-out score.
func (s *RegistryService) RegisterCandidate(ctx context.Context, artifactLocation string, metricValue *float64, lineageRef, testDatasetRef string) (*domain.ModelRecord, error) {
	if artifactLocation == "" {
		return nil, domain.ErrInvalidArtifactLocation
	}
	if lineageRef == "" {
		return nil, domain.ErrInvalidLineageRef
	}

	now := time.Now().UTC()
	record := &domain.ModelRecord{
		VersionID:        uuid.New(),
		CreatedAt:        now,
		UpdatedAt:        now,
		StageTag:         domain.StageCandidate,
		MetricValue:      metricValue,
		ArtifactLocation: artifactLocation,
		LineageRef:       lineageRef,
		TestDatasetRef:   testDatasetRef,
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *RegistryService) Get(ctx context.Context, versionID uuid.UUID) (*domain.ModelRecord, error) {
	return s.records.GetByVersion(ctx, versionID)
}

func (s *RegistryService) List(ctx context.Context, filter ports.ModelListFilter) ([]*domain.ModelRecord, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.records.List(ctx, filter)
}

// Tag moves a record to the given stage. Used by external stages; the
// gate itself tags through the evaluation flow.
func (s *RegistryService) Tag(ctx context.Context, versionID uuid.UUID, stage string) (*domain.ModelRecord, error) {
	if err := domain.ValidateStageTag(stage); err != nil {
		return nil, err
	}

	record, err := s.records.GetByVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	record.StageTag = domain.StageTag(stage)
	record.UpdatedAt = time.Now().UTC()
	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// GetProductionModel resolves the current champion, or returns
// domain.ErrNoProductionModel before the first promotion. A set alias
// whose record is missing is a consistency violation and surfaces as an
// internal error, never as "no champion".
func (s *RegistryService) GetProductionModel(ctx context.Context) (*domain.ModelRecord, error) {
	alias, err := s.alias.Get(ctx)
	if err != nil {
		return nil, err
	}
	if alias.CurrentVersionID == nil {
		return nil, domain.ErrNoProductionModel
	}

	record, err := s.records.GetByVersion(ctx, *alias.CurrentVersionID)
	if err != nil {
		return nil, fmt.Errorf("resolve champion %s: %w", alias.CurrentVersionID, err)
	}
	return record, nil
}

// GetAlias returns the raw alias binding, nil version included, for
// callers that need the pointer itself rather than the record.
func (s *RegistryService) GetAlias(ctx context.Context) (*domain.ProductionAlias, error) {
	return s.alias.Get(ctx)
}
