package dto

import (
	"time"

	"github.com/google/uuid"

	"model-gate-service/internal/core/domain"
)

type RegisterCandidateRequest struct {
	ArtifactLocation string   `json:"artifact_location" binding:"required"`
	MetricValue      *float64 `json:"metric_value"`
	LineageRef       string   `json:"lineage_ref" binding:"required"`
	TestDatasetRef   string   `json:"test_dataset_ref"`
}

type TagModelRequest struct {
	StageTag string `json:"stage_tag" binding:"required"`
}

type ModelRecordResponse struct {
	VersionID          uuid.UUID `json:"version_id"`
	CreatedAt          string    `json:"created_at"`
	UpdatedAt          string    `json:"updated_at"`
	StageTag           string    `json:"stage_tag"`
	MetricValue        *float64  `json:"metric_value"`
	ArtifactLocation   string    `json:"artifact_location"`
	ProductionLocation string    `json:"production_location,omitempty"`
	LineageRef         string    `json:"lineage_ref"`
	TestDatasetRef     string    `json:"test_dataset_ref,omitempty"`
	PromotedAt         *string   `json:"promoted_at,omitempty"`
}

type ListModelRecordsResponse struct {
	Items      []ModelRecordResponse `json:"items"`
	Total      int                   `json:"total"`
	PageSize   int                   `json:"page_size"`
	NextOffset int                   `json:"next_offset"`
}

func ToModelRecordResponse(m *domain.ModelRecord) ModelRecordResponse {
	resp := ModelRecordResponse{
		VersionID:          m.VersionID,
		CreatedAt:          m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          m.UpdatedAt.Format(time.RFC3339),
		StageTag:           string(m.StageTag),
		MetricValue:        m.MetricValue,
		ArtifactLocation:   m.ArtifactLocation,
		ProductionLocation: m.ProductionLocation,
		LineageRef:         m.LineageRef,
		TestDatasetRef:     m.TestDatasetRef,
	}
	if m.PromotedAt != nil {
		s := m.PromotedAt.Format(time.RFC3339)
		resp.PromotedAt = &s
	}
	return resp
}
