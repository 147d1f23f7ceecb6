package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"model-gate-service/internal/core/domain"
	"model-gate-service/internal/testutil"
)

func TestPipelineRunService_Create_DefaultsToManual(t *testing.T) {
	runs := new(testutil.MockPipelineRunRepo)
	svc := NewPipelineRunService(runs)

	runs.On("Create", mock.Anything, mock.AnythingOfType("*domain.PipelineRun")).Return(nil)

	run, err := svc.Create(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, domain.TriggerManual, run.TriggerReason)
	assert.Equal(t, domain.RunStatusRunning, run.Status)
	assert.Empty(t, run.Events)
}

func TestPipelineRunService_Create_DriftTrigger(t *testing.T) {
	runs := new(testutil.MockPipelineRunRepo)
	svc := NewPipelineRunService(runs)

	runs.On("Create", mock.Anything, mock.AnythingOfType("*domain.PipelineRun")).Return(nil)

	run, err := svc.Create(context.Background(), domain.TriggerDrift)
	assert.NoError(t, err)
	assert.Equal(t, domain.TriggerDrift, run.TriggerReason)
}

func TestPipelineRunService_UpdateStatus(t *testing.T) {
	runs := new(testutil.MockPipelineRunRepo)
	svc := NewPipelineRunService(runs)

	id := uuid.New()
	runs.On("UpdateStatus", mock.Anything, id, domain.RunStatusSucceeded).Return(nil)
	runs.On("GetByID", mock.Anything, id).
		Return(&domain.PipelineRun{ID: id, Status: domain.RunStatusSucceeded}, nil)

	run, err := svc.UpdateStatus(context.Background(), id, string(domain.RunStatusSucceeded))
	assert.NoError(t, err)
	assert.Equal(t, domain.RunStatusSucceeded, run.Status)
}

func TestPipelineRunService_UpdateStatus_Invalid(t *testing.T) {
	svc := NewPipelineRunService(new(testutil.MockPipelineRunRepo))

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "DONE")
	assert.ErrorIs(t, err, domain.ErrInvalidRunStatus)
}

func TestPipelineRunService_AppendEvent(t *testing.T) {
	runs := new(testutil.MockPipelineRunRepo)
	svc := NewPipelineRunService(runs)

	id := uuid.New()
	runs.On("AppendEvent", mock.Anything, id, mock.MatchedBy(func(e domain.StageEvent) bool {
		return e.Stage == "training" && e.Status == domain.RunStatusSucceeded && e.Message == "auc=0.81"
	})).Return(nil)
	runs.On("GetByID", mock.Anything, id).
		Return(&domain.PipelineRun{ID: id, Status: domain.RunStatusRunning}, nil)

	_, err := svc.AppendEvent(context.Background(), id, "training", string(domain.RunStatusSucceeded), "auc=0.81")
	assert.NoError(t, err)
	runs.AssertExpectations(t)
}

func TestPipelineRunService_Get_NotFound(t *testing.T) {
	runs := new(testutil.MockPipelineRunRepo)
	svc := NewPipelineRunService(runs)

	id := uuid.New()
	runs.On("GetByID", mock.Anything, id).Return(nil, domain.ErrRunNotFound)

	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
