package dto

import (
	"time"

	"github.com/google/uuid"

	"model-gate-service/internal/core/domain"
)

type RunDriftCheckRequest struct {
	Date         string  `json:"date" binding:"required"`
	PThreshold   float64 `json:"p_threshold"`
	ReferenceRef string  `json:"reference_ref"`
}

type FeatureDriftResponse struct {
	Feature   string  `json:"feature"`
	Statistic float64 `json:"test_statistic"`
	PValue    float64 `json:"p_value"`
	Drifted   bool    `json:"is_drifted"`
}

type DriftReportResponse struct {
	ID                  uuid.UUID              `json:"id"`
	ReferenceRef        string                 `json:"reference_dataset_ref"`
	WindowDate          string                 `json:"window_date"`
	Threshold           float64                `json:"threshold"`
	WindowSize          int                    `json:"window_size"`
	Features            []FeatureDriftResponse `json:"features"`
	RetrainingTriggered bool                   `json:"retraining_triggered"`
	CreatedAt           string                 `json:"created_at"`
}

type ListDriftReportsResponse struct {
	Items      []DriftReportResponse `json:"items"`
	Total      int                   `json:"total"`
	PageSize   int                   `json:"page_size"`
	NextOffset int                   `json:"next_offset"`
}

func ToDriftReportResponse(r *domain.DriftReport) DriftReportResponse {
	features := make([]FeatureDriftResponse, 0, len(r.Features))
	for _, f := range r.Features {
		features = append(features, FeatureDriftResponse{
			Feature:   f.Feature,
			Statistic: f.Statistic,
			PValue:    f.PValue,
			Drifted:   f.Drifted,
		})
	}
	return DriftReportResponse{
		ID:                  r.ID,
		ReferenceRef:        r.ReferenceRef,
		WindowDate:          r.WindowDate,
		Threshold:           r.Threshold,
		WindowSize:          r.WindowSize,
		Features:            features,
		RetrainingTriggered: r.RetrainingTriggered,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
	}
}
