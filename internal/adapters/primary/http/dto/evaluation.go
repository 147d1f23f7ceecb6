package dto

import (
	"time"

	"github.com/google/uuid"

	"model-gate-service/internal/core/domain"
)

type CreateEvaluationRequest struct {
	CandidateVersionID uuid.UUID `json:"candidate_version_id" binding:"required"`
	TestDatasetRef     string    `json:"test_dataset_ref" binding:"required"`
	ThresholdMargin    float64   `json:"threshold_margin"`
}

type EvaluationResultResponse struct {
	ID                  uuid.UUID  `json:"id"`
	CandidateVersionID  uuid.UUID  `json:"candidate_version_id"`
	ChampionVersionID   *uuid.UUID `json:"champion_version_id"`
	CandidateMetric     float64    `json:"candidate_metric"`
	ChampionMetric      *float64   `json:"champion_metric"`
	ThresholdMargin     float64    `json:"threshold_margin"`
	Decision            string     `json:"decision"`
	TestDatasetRef      string     `json:"test_dataset_ref"`
	TestDatasetChecksum string     `json:"test_dataset_checksum,omitempty"`
	CreatedAt           string     `json:"created_at"`
}

type ListEvaluationResultsResponse struct {
	Items      []EvaluationResultResponse `json:"items"`
	Total      int                        `json:"total"`
	PageSize   int                        `json:"page_size"`
	NextOffset int                        `json:"next_offset"`
}

func ToEvaluationResultResponse(e *domain.EvaluationResult) EvaluationResultResponse {
	return EvaluationResultResponse{
		ID:                  e.ID,
		CandidateVersionID:  e.CandidateVersionID,
		ChampionVersionID:   e.ChampionVersionID,
		CandidateMetric:     e.CandidateMetric,
		ChampionMetric:      e.ChampionMetric,
		ThresholdMargin:     e.ThresholdMargin,
		Decision:            string(e.Decision),
		TestDatasetRef:      e.TestDatasetRef,
		TestDatasetChecksum: e.TestDatasetChecksum,
		CreatedAt:           e.CreatedAt.Format(time.RFC3339),
	}
}
