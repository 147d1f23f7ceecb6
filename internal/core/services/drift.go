package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
	"model-gate-service/internal/stats"
)

// minWindowRows is the window size below which the KS test gets
// unreliable. Small windows still run; they are only flagged.
const minWindowRows = 50

// DriftService computes per-feature distributional divergence between the
// reference dataset and one day's observation window, and fires the
// retraining trigger when any feature drifts.
type DriftService struct {
	reader     ports.DatasetReader
	reports    ports.DriftReportRepository
	artifacts  ports.ArtifactStore
	trigger    ports.RetrainTrigger
	defaultRef string
}

func NewDriftService(
	reader ports.DatasetReader,
	reports ports.DriftReportRepository,
	artifacts ports.ArtifactStore,
	trigger ports.RetrainTrigger,
	defaultRef string,
) *DriftService {
	return &DriftService{
		reader:     reader,
		reports:    reports,
		artifacts:  artifacts,
		trigger:    trigger,
		defaultRef: defaultRef,
	}
}

// DetectDrift runs the two-sample tests for one UTC calendar day. A zero
// threshold selects the default significance level. The report persists
// before the trigger fires, so it stays inspectable even when the
// orchestrator is unreachable.
func (s *DriftService) DetectDrift(ctx context.Context, date string, threshold float64, referenceRef string) (*domain.DriftReport, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, domain.ErrInvalidDate
	}
	if threshold == 0 {
		threshold = domain.DefaultDriftThreshold
	}
	if threshold < 0 || threshold >= 1 {
		return nil, domain.ErrInvalidThreshold
	}
	if referenceRef == "" {
		referenceRef = s.defaultRef
	}

	reference, err := s.reader.LoadReference(ctx, referenceRef)
	if err != nil {
		return nil, fmt.Errorf("load reference dataset %s: %w", referenceRef, err)
	}

	window, err := s.reader.LoadWindow(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load window for %s: %w", date, err)
	}
	if window.Rows == 0 {
		return nil, fmt.Errorf("%w: date %s", domain.ErrInsufficientData, date)
	}
	if window.Rows < minWindowRows {
		log.WithFields(log.Fields{"date": date, "rows": window.Rows}).
			Warn("window has few observations, test may be unreliable")
	}

	features, err := compareColumns(reference, window, threshold)
	if err != nil {
		return nil, err
	}

	report := &domain.DriftReport{
		ID:           uuid.New(),
		ReferenceRef: reference.Ref,
		WindowDate:   date,
		Threshold:    threshold,
		WindowSize:   window.Rows,
		Features:     features,
		CreatedAt:    time.Now().UTC(),
	}
	for _, f := range features {
		if f.Drifted {
			report.RetrainingTriggered = true
			break
		}
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("persist drift report: %w", err)
	}

	s.uploadDiagnostics(ctx, report)

	log.WithFields(log.Fields{
		"date":                 date,
		"features":             len(features),
		"drifted":              len(report.DriftedFeatures()),
		"retraining_triggered": report.RetrainingTriggered,
	}).Info("drift detection completed")

	if !report.RetrainingTriggered {
		return report, nil
	}

	req := ports.RetrainRequest{
		Reason:          domain.TriggerDrift,
		DriftDate:       date,
		Threshold:       threshold,
		DriftedFeatures: report.DriftedFeatures(),
	}
	if err := s.trigger.TriggerRetraining(ctx, req); err != nil {
		return report, fmt.Errorf("trigger retraining: %w", err)
	}
	log.WithField("date", date).Warn("data drift detected, retraining triggered")

	return report, nil
}

// compareColumns runs the per-feature tests over the reference schema.
// Every reference column must be present in the window with the same kind.
func compareColumns(reference, window *domain.Dataset, threshold float64) ([]domain.FeatureDrift, error) {
	features := make([]domain.FeatureDrift, 0, len(reference.Columns))
	for _, ref := range reference.Columns {
		cur := window.Column(ref.Name)
		if cur == nil {
			return nil, fmt.Errorf("%w: column %q missing from window", domain.ErrSchemaMismatch, ref.Name)
		}
		if cur.Kind != ref.Kind {
			return nil, fmt.Errorf("%w: column %q is %s in reference but %s in window",
				domain.ErrSchemaMismatch, ref.Name, ref.Kind, cur.Kind)
		}

		var statistic, pValue float64
		switch ref.Kind {
		case domain.ColumnNumeric:
			statistic, pValue = stats.KolmogorovSmirnov(ref.Numeric, cur.Numeric)
		case domain.ColumnCategorical:
			statistic, pValue = stats.ChiSquare(ref.Categories, cur.Categories)
		}

		features = append(features, domain.FeatureDrift{
			Feature:   ref.Name,
			Statistic: statistic,
			PValue:    pValue,
			Drifted:   pValue < threshold,
		})
	}
	return features, nil
}

// uploadDiagnostics writes the human-facing summary next to the report
// data. It never feeds the automated decision, so failures only log.
func (s *DriftService) uploadDiagnostics(ctx context.Context, report *domain.DriftReport) {
	summary := map[string]interface{}{
		"date":                 report.WindowDate,
		"reference":            report.ReferenceRef,
		"threshold":            report.Threshold,
		"window_size":          report.WindowSize,
		"num_features":         len(report.Features),
		"num_drifted_features": len(report.DriftedFeatures()),
		"drifted_features":     report.DriftedFeatures(),
		"features":             report.Features,
	}
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.WithError(err).Warn("marshal drift diagnostics failed")
		return
	}

	key := fmt.Sprintf("date=%s/drift_summary.json", report.WindowDate)
	if err := s.artifacts.PutDiagnostics(ctx, key, payload); err != nil {
		log.WithError(err).WithField("key", key).Warn("upload drift diagnostics failed")
	}
}

func (s *DriftService) GetReport(ctx context.Context, date, referenceRef string) (*domain.DriftReport, error) {
	if referenceRef == "" {
		referenceRef = s.defaultRef
	}
	return s.reports.GetByKey(ctx, date, referenceRef)
}

func (s *DriftService) LatestReport(ctx context.Context) (*domain.DriftReport, error) {
	return s.reports.GetLatest(ctx)
}

func (s *DriftService) ListReports(ctx context.Context, limit, offset int) ([]*domain.DriftReport, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.reports.List(ctx, limit, offset)
}
