package domain

import (
	"time"

	"github.com/google/uuid"
)

type StageTag string

const (
	StageCandidate StageTag = "CANDIDATE"
	StageApproved  StageTag = "APPROVED"
	StageRejected  StageTag = "REJECTED"
)

func ValidateStageTag(stage string) error {
	switch StageTag(stage) {
	case StageCandidate, StageApproved, StageRejected:
		return nil
	}
	return ErrInvalidStage
}

// ModelRecord is one trained model version. Records are created by the
// training stage, tagged by the evaluation gate and promoted by the
// promotion protocol; they are never deleted, only superseded.
type ModelRecord struct {
	VersionID          uuid.UUID  `json:"version_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	StageTag           StageTag   `json:"stage_tag"`
	MetricValue        *float64   `json:"metric_value"`
	ArtifactLocation   string     `json:"artifact_location"`
	ProductionLocation string     `json:"production_location,omitempty"`
	LineageRef         string     `json:"lineage_ref"`
	TestDatasetRef     string     `json:"test_dataset_ref"`
	PromotedAt         *time.Time `json:"promoted_at,omitempty"`
}
