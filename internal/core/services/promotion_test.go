package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"model-gate-service/internal/core/domain"
	"model-gate-service/internal/testutil"
)

type promoFixture struct {
	records   *testutil.MockModelRecordRepo
	alias     *testutil.MockAliasRepo
	artifacts *testutil.MockArtifactStore
	runs      *testutil.MockPipelineRunRepo
	svc       *PromotionService
}

func newPromoFixture() *promoFixture {
	f := &promoFixture{
		records:   new(testutil.MockModelRecordRepo),
		alias:     new(testutil.MockAliasRepo),
		artifacts: new(testutil.MockArtifactStore),
		runs:      new(testutil.MockPipelineRunRepo),
	}
	f.svc = NewPromotionService(f.records, f.alias, f.artifacts, f.runs)
	return f
}

func approvedRecord() *domain.ModelRecord {
	return &domain.ModelRecord{
		VersionID:        uuid.New(),
		StageTag:         domain.StageApproved,
		ArtifactLocation: "s3://models/candidate/model.joblib",
		LineageRef:       "flow-run-42",
	}
}

func TestPromotionService_Promote(t *testing.T) {
	f := newPromoFixture()
	record := approvedRecord()
	previous := uuid.New()

	f.records.On("GetByVersion", mock.Anything, record.VersionID).Return(record, nil)
	f.alias.On("Get", mock.Anything).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion, CurrentVersionID: &previous}, nil)
	f.alias.On("CompareAndSwap", mock.Anything, &previous, &record.VersionID).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion, CurrentVersionID: &record.VersionID}, nil)
	f.artifacts.On("ExportToProduction", mock.Anything, record.ArtifactLocation, record.VersionID, mock.Anything).
		Return("s3://models/production/"+record.VersionID.String()+"/model.joblib", nil)
	f.records.On("Update", mock.Anything, record).Return(nil)

	alias, err := f.svc.Promote(context.Background(), record.VersionID)
	assert.NoError(t, err)
	assert.Equal(t, record.VersionID, *alias.CurrentVersionID)
	assert.NotEmpty(t, record.ProductionLocation)
	assert.NotNil(t, record.PromotedAt)
	f.alias.AssertExpectations(t)
	f.artifacts.AssertExpectations(t)
}

func TestPromotionService_Promote_FirstChampion(t *testing.T) {
	f := newPromoFixture()
	record := approvedRecord()

	f.records.On("GetByVersion", mock.Anything, record.VersionID).Return(record, nil)
	f.alias.On("Get", mock.Anything).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion}, nil)
	f.alias.On("CompareAndSwap", mock.Anything, (*uuid.UUID)(nil), &record.VersionID).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion, CurrentVersionID: &record.VersionID}, nil)
	f.artifacts.On("ExportToProduction", mock.Anything, record.ArtifactLocation, record.VersionID, mock.Anything).
		Return("s3://models/production/model.joblib", nil)
	f.records.On("Update", mock.Anything, record).Return(nil)

	alias, err := f.svc.Promote(context.Background(), record.VersionID)
	assert.NoError(t, err)
	assert.Equal(t, record.VersionID, *alias.CurrentVersionID)
}

func TestPromotionService_Promote_NotApproved(t *testing.T) {
	f := newPromoFixture()
	record := approvedRecord()
	record.StageTag = domain.StageCandidate

	f.records.On("GetByVersion", mock.Anything, record.VersionID).Return(record, nil)

	_, err := f.svc.Promote(context.Background(), record.VersionID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	f.alias.AssertNotCalled(t, "CompareAndSwap", mock.Anything, mock.Anything, mock.Anything)
}

func TestPromotionService_Promote_ConcurrentLoser(t *testing.T) {
	f := newPromoFixture()
	record := approvedRecord()
	previous := uuid.New()

	f.records.On("GetByVersion", mock.Anything, record.VersionID).Return(record, nil)
	f.alias.On("Get", mock.Anything).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion, CurrentVersionID: &previous}, nil)
	f.alias.On("CompareAndSwap", mock.Anything, &previous, &record.VersionID).
		Return(nil, domain.ErrConcurrentPromotion)

	_, err := f.svc.Promote(context.Background(), record.VersionID)
	assert.ErrorIs(t, err, domain.ErrConcurrentPromotion)
	f.artifacts.AssertNotCalled(t, "ExportToProduction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPromotionService_Promote_ExportFailureRollsBack(t *testing.T) {
	f := newPromoFixture()
	record := approvedRecord()
	previous := uuid.New()

	f.records.On("GetByVersion", mock.Anything, record.VersionID).Return(record, nil)
	f.alias.On("Get", mock.Anything).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion, CurrentVersionID: &previous}, nil)
	f.alias.On("CompareAndSwap", mock.Anything, &previous, &record.VersionID).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion, CurrentVersionID: &record.VersionID}, nil)
	f.artifacts.On("ExportToProduction", mock.Anything, record.ArtifactLocation, record.VersionID, mock.Anything).
		Return("", errors.New("copy timed out"))
	// Rollback restores the previous holder.
	f.alias.On("CompareAndSwap", mock.Anything, &record.VersionID, &previous).
		Return(&domain.ProductionAlias{Name: domain.AliasChampion, CurrentVersionID: &previous}, nil)

	_, err := f.svc.Promote(context.Background(), record.VersionID)
	assert.ErrorIs(t, err, domain.ErrPromotion)
	assert.Empty(t, record.ProductionLocation)
	f.alias.AssertExpectations(t)
	f.records.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPromotionService_Promote_NotFound(t *testing.T) {
	f := newPromoFixture()
	id := uuid.New()
	f.records.On("GetByVersion", mock.Anything, id).Return(nil, domain.ErrModelNotFound)

	_, err := f.svc.Promote(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}
