package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
	"model-gate-service/internal/testutil"
)

type driftFixture struct {
	reader    *testutil.MockDatasetReader
	reports   *testutil.MockDriftReportRepo
	artifacts *testutil.MockArtifactStore
	trigger   *testutil.MockRetrainTrigger
	svc       *DriftService
}

func newDriftFixture() *driftFixture {
	f := &driftFixture{
		reader:    new(testutil.MockDatasetReader),
		reports:   new(testutil.MockDriftReportRepo),
		artifacts: new(testutil.MockArtifactStore),
		trigger:   new(testutil.MockRetrainTrigger),
	}
	f.svc = NewDriftService(f.reader, f.reports, f.artifacts, f.trigger, "s3://data/reference/reference.csv")
	return f
}

func numericDataset(ref string, name string, gen func(i int) float64, rows int) *domain.Dataset {
	values := make([]float64, rows)
	for i := range values {
		values[i] = gen(i)
	}
	return &domain.Dataset{
		Ref:     ref,
		Rows:    rows,
		Columns: []domain.Column{{Name: name, Kind: domain.ColumnNumeric, Numeric: values}},
	}
}

func TestDriftService_DetectDrift_Triggered(t *testing.T) {
	f := newDriftFixture()
	reference := numericDataset("s3://data/reference/reference.csv", "amount",
		func(i int) float64 { return float64(i) * 0.1 }, 100)
	// Window values live far outside the reference support.
	window := numericDataset("", "amount",
		func(i int) float64 { return 500 + float64(i) }, 80)

	f.reader.On("LoadReference", mock.Anything, "s3://data/reference/reference.csv").Return(reference, nil)
	f.reader.On("LoadWindow", mock.Anything, "2026-08-29").Return(window, nil)
	f.reports.On("Create", mock.Anything, mock.AnythingOfType("*domain.DriftReport")).Return(nil)
	f.artifacts.On("PutDiagnostics", mock.Anything, "date=2026-08-29/drift_summary.json", mock.Anything).Return(nil)
	f.trigger.On("TriggerRetraining", mock.Anything, mock.MatchedBy(func(req ports.RetrainRequest) bool {
		return req.Reason == domain.TriggerDrift &&
			req.DriftDate == "2026-08-29" &&
			req.Threshold == domain.DefaultDriftThreshold &&
			len(req.DriftedFeatures) == 1 && req.DriftedFeatures[0] == "amount"
	})).Return(nil)

	report, err := f.svc.DetectDrift(context.Background(), "2026-08-29", 0, "")
	assert.NoError(t, err)
	assert.True(t, report.RetrainingTriggered)
	assert.Equal(t, domain.DefaultDriftThreshold, report.Threshold)
	assert.Equal(t, 80, report.WindowSize)
	assert.Len(t, report.Features, 1)
	assert.True(t, report.Features[0].Drifted)
	assert.Less(t, report.Features[0].PValue, 0.05)
	f.trigger.AssertExpectations(t)
	f.reports.AssertExpectations(t)
}

func TestDriftService_DetectDrift_NoDrift(t *testing.T) {
	f := newDriftFixture()
	gen := func(i int) float64 { return float64(i % 10) }
	reference := numericDataset("s3://data/reference/reference.csv", "amount", gen, 100)
	window := numericDataset("", "amount", gen, 100)

	f.reader.On("LoadReference", mock.Anything, mock.Anything).Return(reference, nil)
	f.reader.On("LoadWindow", mock.Anything, "2026-08-29").Return(window, nil)
	f.reports.On("Create", mock.Anything, mock.AnythingOfType("*domain.DriftReport")).Return(nil)
	f.artifacts.On("PutDiagnostics", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	report, err := f.svc.DetectDrift(context.Background(), "2026-08-29", 0, "")
	assert.NoError(t, err)
	assert.False(t, report.RetrainingTriggered)
	assert.False(t, report.Features[0].Drifted)
	f.trigger.AssertNotCalled(t, "TriggerRetraining", mock.Anything, mock.Anything)
}

func TestDriftService_DetectDrift_Deterministic(t *testing.T) {
	f := newDriftFixture()
	reference := numericDataset("s3://data/reference/reference.csv", "amount",
		func(i int) float64 { return float64(i) * 0.37 }, 120)
	window := numericDataset("", "amount",
		func(i int) float64 { return float64(i)*0.37 + 3 }, 90)

	f.reader.On("LoadReference", mock.Anything, mock.Anything).Return(reference, nil)
	f.reader.On("LoadWindow", mock.Anything, mock.Anything).Return(window, nil)
	f.reports.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.artifacts.On("PutDiagnostics", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.trigger.On("TriggerRetraining", mock.Anything, mock.Anything).Return(nil)

	first, err := f.svc.DetectDrift(context.Background(), "2026-08-29", 0, "")
	assert.NoError(t, err)
	second, err := f.svc.DetectDrift(context.Background(), "2026-08-29", 0, "")
	assert.NoError(t, err)

	assert.Equal(t, first.Features[0].Statistic, second.Features[0].Statistic)
	assert.Equal(t, first.Features[0].PValue, second.Features[0].PValue)
	assert.Equal(t, first.RetrainingTriggered, second.RetrainingTriggered)
}

func TestDriftService_DetectDrift_EmptyWindow(t *testing.T) {
	f := newDriftFixture()
	reference := numericDataset("s3://data/reference/reference.csv", "amount",
		func(i int) float64 { return float64(i) }, 100)

	f.reader.On("LoadReference", mock.Anything, mock.Anything).Return(reference, nil)
	f.reader.On("LoadWindow", mock.Anything, "2026-08-29").Return(&domain.Dataset{Rows: 0}, nil)

	_, err := f.svc.DetectDrift(context.Background(), "2026-08-29", 0, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
	f.reports.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDriftService_DetectDrift_MissingColumn(t *testing.T) {
	f := newDriftFixture()
	reference := numericDataset("s3://data/reference/reference.csv", "amount",
		func(i int) float64 { return float64(i) }, 100)
	window := numericDataset("", "balance",
		func(i int) float64 { return float64(i) }, 100)

	f.reader.On("LoadReference", mock.Anything, mock.Anything).Return(reference, nil)
	f.reader.On("LoadWindow", mock.Anything, mock.Anything).Return(window, nil)

	_, err := f.svc.DetectDrift(context.Background(), "2026-08-29", 0, "")
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestDriftService_DetectDrift_KindMismatch(t *testing.T) {
	f := newDriftFixture()
	reference := numericDataset("s3://data/reference/reference.csv", "plan",
		func(i int) float64 { return float64(i) }, 100)
	window := &domain.Dataset{
		Rows:    100,
		Columns: []domain.Column{{Name: "plan", Kind: domain.ColumnCategorical, Categories: []string{"a", "b"}}},
	}

	f.reader.On("LoadReference", mock.Anything, mock.Anything).Return(reference, nil)
	f.reader.On("LoadWindow", mock.Anything, mock.Anything).Return(window, nil)

	_, err := f.svc.DetectDrift(context.Background(), "2026-08-29", 0, "")
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestDriftService_DetectDrift_CategoricalShift(t *testing.T) {
	f := newDriftFixture()
	refCats := make([]string, 200)
	curCats := make([]string, 200)
	for i := range refCats {
		// Reference is evenly split; the window collapses onto one level.
		if i%2 == 0 {
			refCats[i] = "basic"
		} else {
			refCats[i] = "premium"
		}
		curCats[i] = "premium"
	}
	reference := &domain.Dataset{
		Ref:     "s3://data/reference/reference.csv",
		Rows:    200,
		Columns: []domain.Column{{Name: "plan", Kind: domain.ColumnCategorical, Categories: refCats}},
	}
	window := &domain.Dataset{
		Rows:    200,
		Columns: []domain.Column{{Name: "plan", Kind: domain.ColumnCategorical, Categories: curCats}},
	}

	f.reader.On("LoadReference", mock.Anything, mock.Anything).Return(reference, nil)
	f.reader.On("LoadWindow", mock.Anything, mock.Anything).Return(window, nil)
	f.reports.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.artifacts.On("PutDiagnostics", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.trigger.On("TriggerRetraining", mock.Anything, mock.Anything).Return(nil)

	report, err := f.svc.DetectDrift(context.Background(), "2026-08-29", 0, "")
	assert.NoError(t, err)
	assert.True(t, report.RetrainingTriggered)
	assert.True(t, report.Features[0].Drifted)
}

func TestDriftService_DetectDrift_TriggerFailureKeepsReport(t *testing.T) {
	f := newDriftFixture()
	reference := numericDataset("s3://data/reference/reference.csv", "amount",
		func(i int) float64 { return float64(i) * 0.1 }, 100)
	window := numericDataset("", "amount",
		func(i int) float64 { return 500 + float64(i) }, 80)

	f.reader.On("LoadReference", mock.Anything, mock.Anything).Return(reference, nil)
	f.reader.On("LoadWindow", mock.Anything, mock.Anything).Return(window, nil)
	f.reports.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.artifacts.On("PutDiagnostics", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.trigger.On("TriggerRetraining", mock.Anything, mock.Anything).
		Return(assert.AnError)

	report, err := f.svc.DetectDrift(context.Background(), "2026-08-29", 0, "")
	assert.Error(t, err)
	assert.NotNil(t, report)
	assert.True(t, report.RetrainingTriggered)
	f.reports.AssertExpectations(t)
}

func TestDriftService_DetectDrift_InvalidDate(t *testing.T) {
	f := newDriftFixture()

	_, err := f.svc.DetectDrift(context.Background(), "29-08-2026", 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestDriftService_DetectDrift_InvalidThreshold(t *testing.T) {
	f := newDriftFixture()

	_, err := f.svc.DetectDrift(context.Background(), "2026-08-29", 1.5, "")
	assert.ErrorIs(t, err, domain.ErrInvalidThreshold)

	_, err = f.svc.DetectDrift(context.Background(), "2026-08-29", -0.1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidThreshold)
}
